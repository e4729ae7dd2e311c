package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-ledger/library/shell/config"
)

func newMigrateCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the events table and its indexes in postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			cfg.Store = config.StorePostgres
			logger := newLogger(os.Stderr, cfg.LogLevel)

			store, err := openStore(cmd.Context(), cfg, logger, telemetry{})
			if err != nil {
				return err
			}
			defer store.close()

			if err = store.createSchema(cmd.Context()); err != nil {
				return err
			}

			logger.Info("schema created", "table", cfg.EventsTable)

			return nil
		},
	}
}
