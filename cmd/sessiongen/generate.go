package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/creastat/sessiongen"
	"github.com/creastat/sessiongen/corpus"
	"github.com/creastat/sessiongen/logger"
	"github.com/creastat/sessiongen/pipeline"
	"github.com/creastat/sessiongen/session"
	"github.com/creastat/sessiongen/tokenizer"
)

func newGenerateCmd() *cobra.Command {
	var (
		input      string
		output     string
		sinkKind   string
		seed       uint64
		limit      int
		identities int
		encoding   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the session dataset from a JSONL corpus export",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sinkKind == string(session.SinkTypeMemory) {
				return fmt.Errorf("%w: the memory sink is discarded on exit", sessiongen.ErrInvalidStoreType)
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("limit") {
				cfg.Limit = limit
			}
			if cmd.Flags().Changed("identities") {
				cfg.Identities = identities
			}
			if cmd.Flags().Changed("encoding") {
				cfg.Encoding = encoding
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()

			counter, err := tokenizer.New(cfg.Encoding)
			if err != nil {
				return err
			}

			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("failed to open corpus: %w", err)
			}
			defer f.Close()

			// Open the sink first so connection problems surface before the run.
			sink, err := openSink(ctx, cfg, sinkKind, output)
			if err != nil {
				return err
			}
			defer sink.Close()

			res, err := pipeline.Run(ctx, pipeline.Options{
				Config:  cfg,
				Source:  corpus.NewJSONLSource(f),
				Counter: counter,
			})
			if err != nil {
				return err
			}

			if err := sink.Write(ctx, res.Store); err != nil {
				return fmt.Errorf("failed to persist dataset: %w", err)
			}
			logger.InfoContext(ctx, "dataset written", "sink", sinkKind, "output", output, "sessions", res.Store.Len(), "seed", res.Stats.Seed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "JSONL corpus export (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "db.json", "output file for the file sink")
	cmd.Flags().StringVar(&sinkKind, "sink", "file", "sink: file, redis or supabase")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum accepted conversations")
	cmd.Flags().IntVar(&identities, "identities", 0, "number of synthetic users")
	cmd.Flags().StringVar(&encoding, "encoding", "", "tiktoken encoding (BPE ranks are downloaded on first use and cached under TIKTOKEN_CACHE_DIR), or \"estimate\" to count offline")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
