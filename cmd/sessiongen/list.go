package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/creastat/sessiongen"
	"github.com/creastat/sessiongen/session"
	"github.com/creastat/sessiongen/supabase"
)

// sessionLister is implemented by sinks that can read one identity without
// loading the whole dataset.
type sessionLister interface {
	ListSessions(ctx context.Context, identity string) ([]supabase.SessionRow, error)
}

func newListCmd() *cobra.Command {
	var (
		db       string
		sinkKind string
		user     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the sessions of one user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sink, err := openSink(ctx, cfg, sinkKind, db)
			if err != nil {
				return err
			}
			defer sink.Close()

			store, err := loadUser(ctx, sink, user)
			if err != nil {
				return err
			}
			printSessions(cmd.OutOrStdout(), store, user)
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "db.json", "dataset file for the file sink")
	cmd.Flags().StringVar(&sinkKind, "sink", "file", "sink: file, redis or supabase")
	cmd.Flags().StringVarP(&user, "user", "u", "", "user to list (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// loadUser returns a store holding only user's sessions.
func loadUser(ctx context.Context, sink session.Sink, user string) (sessiongen.Store, error) {
	if lister, ok := sink.(sessionLister); ok {
		rows, err := lister.ListSessions(ctx, user)
		if err != nil {
			return nil, err
		}
		store := sessiongen.NewStore([]string{user})
		for i := range rows {
			store.Put(user, rows[i].ConversationID, &rows[i].Session)
		}
		return store, nil
	}

	all, err := sink.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	sessions, ok := all[user]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", user, sessiongen.ErrNotFound)
	}
	return sessiongen.Store{user: sessions}, nil
}

func printSessions(w io.Writer, store sessiongen.Store, user string) {
	for _, id := range store.ConversationIDs(user) {
		sess, err := store.Get(user, id)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "UID: %s Client: %-20s Last Open: %s Last Exit: %s Tags: %-30s Description: %s\n",
			id, sess.ClientName, formatTime(sess.TimeLastOpen), formatTime(sess.TimeLastExit),
			strings.Join(sess.Tags, ", "), sess.Description)
	}
}

func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02_15-04-05")
}
