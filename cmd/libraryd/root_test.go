package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell/config"
)

func Test_LoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	// arrange
	t.Setenv(config.EnvHTTPAddr, ":9000")
	t.Setenv(config.EnvStore, config.StorePostgres)
	t.Setenv(config.EnvPostgresDriver, config.DriverSQLX)

	var got config.Config
	flags := &rootFlags{}
	root := newRootCommand()
	root.SetArgs([]string{"show-config", "--addr", ":7000", "--log-level", "debug"})
	root.AddCommand(&cobra.Command{
		Use: "show-config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			flags.httpAddr, _ = cmd.Flags().GetString("addr")
			flags.logLevel, _ = cmd.Flags().GetString("log-level")
			got, err = loadConfig(cmd, flags)
			return err
		},
	})

	// act
	require.NoError(t, root.Execute())

	// assert
	assert.Equal(t, ":7000", got.HTTPAddr)
	assert.Equal(t, config.StorePostgres, got.Store)
	assert.Equal(t, config.DriverSQLX, got.PostgresDriver)
	assert.Equal(t, slog.LevelDebug, got.LogLevel)
}

func Test_OpenStore_Memory(t *testing.T) {
	cfg := config.Default()
	logger := newLogger(&bytes.Buffer{}, slog.LevelInfo)

	store, err := openStore(context.Background(), cfg, logger, telemetry{})
	require.NoError(t, err)
	defer store.close()

	assert.IsType(t, &memoryengine.EventStore{}, store.eventStore)
	assert.ErrorIs(t, store.createSchema(context.Background()), errSchemaNeedsPostgres)
}

func Test_OpenStore_Memory_ReportsThroughTheSlogCollector(t *testing.T) {
	// arrange
	cfg := config.Default()
	logs := &bytes.Buffer{}
	logger := newLogger(logs, slog.LevelDebug)
	obs := newTelemetry(logger)

	store, err := openStore(context.Background(), cfg, logger, obs)
	require.NoError(t, err)
	defer store.close()

	// act
	_, _, err = store.eventStore.Query(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)

	// assert
	assert.Contains(t, logs.String(), eventstore.MetricQueryDuration)
}

func Test_CreateAdminCommand(t *testing.T) {
	t.Setenv(config.EnvStore, config.StoreMemory)

	out := &bytes.Buffer{}
	root := newRootCommand()
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"create-admin", "--name", "Root", "--email", "root@example.com", "--password", "admin-pw"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "admin root@example.com created with id ")
}

func Test_CreateAdminCommand_RequiresEmail(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"create-admin", "--name", "Root", "--password", "pw"})

	assert.Error(t, root.Execute())
}
