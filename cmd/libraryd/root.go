package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-ledger/library/shell/config"
)

type rootFlags struct {
	httpAddr       string
	store          string
	postgresDSN    string
	postgresDriver string
	eventsTable    string
	logLevel       string
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:          "libraryd",
		Short:        "Library lending service backed by an event store",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.httpAddr, "addr", "", "HTTP listen address (env "+config.EnvHTTPAddr+")")
	root.PersistentFlags().StringVar(&flags.store, "store", "", "event store engine: memory or postgres (env "+config.EnvStore+")")
	root.PersistentFlags().StringVar(&flags.postgresDSN, "dsn", "", "postgres connection string (env "+config.EnvPostgresDSN+")")
	root.PersistentFlags().StringVar(&flags.postgresDriver, "driver", "", "postgres driver: pgx, sql or sqlx (env "+config.EnvPostgresDriver+")")
	root.PersistentFlags().StringVar(&flags.eventsTable, "events-table", "", "events table name (env "+config.EnvEventsTable+")")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (env "+config.EnvLogLevel+")")

	root.AddCommand(
		newServeCommand(flags),
		newMigrateCommand(flags),
		newCreateAdminCommand(flags),
	)

	return root
}

// loadConfig reads the environment and applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		return config.Config{}, err
	}

	changed := cmd.Flags().Changed

	if changed("addr") {
		cfg.HTTPAddr = flags.httpAddr
	}

	if changed("store") {
		cfg.Store = flags.store
	}

	if changed("dsn") {
		cfg.PostgresDSN = flags.postgresDSN
	}

	if changed("driver") {
		cfg.PostgresDriver = flags.postgresDriver
	}

	if changed("events-table") {
		cfg.EventsTable = flags.eventsTable
	}

	if changed("log-level") {
		if err = cfg.LogLevel.UnmarshalText([]byte(flags.logLevel)); err != nil {
			return config.Config{}, err
		}
	}

	return cfg, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
