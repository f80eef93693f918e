package cli

import (
	"fmt"
	"log/slog"

	"github.com/msomdec/ekaksh/internal/repository"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.cfg.ValidateDatabase(); err != nil {
				return err
			}

			store, err := repository.Open(cmd.Context(), opts.cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer store.DB.Close()

			if err := store.DB.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			slog.Info("database migrations applied", "driver", opts.cfg.Database.Driver)
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
