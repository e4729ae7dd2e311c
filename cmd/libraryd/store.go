package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-lending-ledger/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-lending-ledger/eventstore/slogadapters"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell/config"
)

var errSchemaNeedsPostgres = errors.New("schema migration requires the postgres store")

// storeHandle is an opened event store together with its lifecycle functions.
type storeHandle struct {
	eventStore   shell.EventStore
	createSchema func(ctx context.Context) error
	close        func()
}

// telemetry holds the collectors handed to the engines and the ledger. The zero value reports nothing.
type telemetry struct {
	metrics eventstore.MetricsCollector
	tracing eventstore.TracingCollector
}

func newTelemetry(logger *slog.Logger) telemetry {
	return telemetry{
		metrics: slogadapters.NewMetricsCollector(logger),
		tracing: slogadapters.NewTracingCollector(logger),
	}
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger, obs telemetry) (storeHandle, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using the in-memory event store, all data is lost on shutdown")

		return storeHandle{
			eventStore:   memoryengine.NewEventStore(memoryengine.WithLogger(logger), memoryengine.WithMetrics(obs.metrics)),
			createSchema: func(context.Context) error { return errSchemaNeedsPostgres },
			close:        func() {},
		}, nil
	}

	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.EventsTable),
		postgresengine.WithLogger(logger),
		postgresengine.WithMetrics(obs.metrics),
		postgresengine.WithTracing(obs.tracing),
	}

	var (
		eventStore postgresengine.EventStore
		closeDB    func()
		err        error
	)

	switch cfg.PostgresDriver {
	case config.DriverPGX:
		pool, poolErr := config.PostgresPGXPool(ctx, cfg.PostgresDSN)
		if poolErr != nil {
			return storeHandle{}, fmt.Errorf("connecting to postgres: %w", poolErr)
		}
		closeDB = pool.Close
		eventStore, err = postgresengine.NewEventStoreFromPGXPool(pool, options...)

	case config.DriverSQL:
		db, dbErr := config.PostgresSQLDB(ctx, cfg.PostgresDSN)
		if dbErr != nil {
			return storeHandle{}, fmt.Errorf("connecting to postgres: %w", dbErr)
		}
		closeDB = func() { _ = db.Close() }
		eventStore, err = postgresengine.NewEventStoreFromSQLDB(db, options...)

	case config.DriverSQLX:
		db, dbErr := config.PostgresSQLX(ctx, cfg.PostgresDSN)
		if dbErr != nil {
			return storeHandle{}, fmt.Errorf("connecting to postgres: %w", dbErr)
		}
		closeDB = func() { _ = db.Close() }
		eventStore, err = postgresengine.NewEventStoreFromSQLX(db, options...)

	default:
		return storeHandle{}, errors.Join(config.ErrInvalidConfig, fmt.Errorf("unknown postgres driver %q", cfg.PostgresDriver))
	}

	if err != nil {
		closeDB()
		return storeHandle{}, err
	}

	logger.Info("connected to postgres", "driver", cfg.PostgresDriver, "table", cfg.EventsTable)

	return storeHandle{
		eventStore:   eventStore,
		createSchema: eventStore.CreateSchema,
		close:        closeDB,
	}, nil
}
