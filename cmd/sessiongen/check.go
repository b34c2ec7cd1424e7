package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/creastat/sessiongen/logger"
	"github.com/creastat/sessiongen/synth"
)

func newCheckCmd() *cobra.Command {
	var (
		db       string
		sinkKind string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify every session of a dataset against the generation invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sink, err := openSink(ctx, cfg, sinkKind, db)
			if err != nil {
				return err
			}
			defer sink.Close()

			store, err := sink.Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}

			violations := synth.NewChecker(cfg).CheckStore(store)
			keys := make([]string, 0, len(violations))
			for key := range violations {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", key, violations[key])
			}

			if len(violations) > 0 {
				logger.Warn("dataset has invalid sessions", "sessions", store.Len(), "violations", len(violations))
				return fmt.Errorf("%d sessions violate the generation invariants", len(violations))
			}
			logger.Info("dataset checked", "identities", len(store), "sessions", store.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "db.json", "dataset file for the file sink")
	cmd.Flags().StringVar(&sinkKind, "sink", "file", "sink: file, redis or supabase")

	return cmd
}
