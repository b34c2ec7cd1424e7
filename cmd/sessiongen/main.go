// Package main provides the sessiongen CLI entrypoint.
package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/creastat/sessiongen/config"
	"github.com/creastat/sessiongen/logger"
)

var (
	version    = "0.1.0"
	configPath string
	verbose    bool
	cfg        *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sessiongen",
		Short: "Synthesize a multi-user chat session dataset from a conversation corpus",
		Long: `sessiongen redistributes real conversations across synthetic users and
enriches each one with session metadata (timestamps, token counts, tags,
client), producing a user -> conversation_id -> session document.

  sessiongen generate --input corpus.jsonl        write db.json
  sessiongen list --user Alice                    show one user's sessions
  sessiongen check                                verify a generated dataset`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.SetVerbose(verbose)
			logger.DefaultLogger = logger.With("run_id", uuid.NewString())

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			return cfg.ApplyEnv()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file overriding run parameters")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every processed conversation")

	rootCmd.AddCommand(
		newGenerateCmd(),
		newListCmd(),
		newCheckCmd(),
	)
	return rootCmd
}
