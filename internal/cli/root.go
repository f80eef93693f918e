// Package cli implements the ekaksh command line: the HTTP server plus
// database maintenance commands.
package cli

import (
	"log/slog"
	"os"

	"github.com/msomdec/ekaksh/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	cfg        *config.Config
}

// NewRootCmd creates the root command. Running it without a subcommand
// starts the server.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	serveCmd := newServeCmd(opts)

	rootCmd := &cobra.Command{
		Use:   "ekaksh",
		Short: "Math and code assistant web application",
		Long: `ekaksh serves a small web application where registered users submit
math problems or code generation tasks to a delegated LLM assistant.

Configuration comes from environment variables (PORT, DATABASE_DRIVER,
JWT_SECRET, ASSISTANT_API_KEY, ...) and an optional YAML file.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			setupLogging(cfg.Log)
			return nil
		},
		RunE:         serveCmd.RunE,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newMigrateCmd(opts))
	rootCmd.AddCommand(newUseraddCmd(opts))

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cfg config.LogConfig) {
	logOpts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)
}
