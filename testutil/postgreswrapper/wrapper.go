package postgreswrapper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell/config"
)

// Environment variables read by the wrapper.
const (
	EnvTestDSN    = "LIBRARY_TEST_POSTGRES_DSN"
	EnvTestDriver = "LIBRARY_TEST_POSTGRES_DRIVER"
)

// Wrapper holds an event store on its own table and the means to drop it again.
type Wrapper struct {
	EventStore postgresengine.EventStore
	TableName  string
	Driver     string

	exec  func(ctx context.Context, statement string) error
	close func()
}

// New opens the event store, creates a uniquely named table, and registers its removal with t.Cleanup.
func New(t testing.TB) *Wrapper {
	t.Helper()

	dsn := os.Getenv(EnvTestDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvTestDSN)
	}

	driver := strings.ToLower(os.Getenv(EnvTestDriver))
	if driver == "" {
		driver = config.DriverPGX
	}

	ctx := context.Background()
	w := &Wrapper{
		TableName: "events_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		Driver:    driver,
	}
	option := postgresengine.WithTableName(w.TableName)

	var err error

	switch driver {
	case config.DriverPGX:
		pool, poolErr := config.PostgresPGXPool(ctx, dsn)
		require.NoError(t, poolErr, "error connecting to postgres in test setup")
		w.close = pool.Close
		w.exec = func(ctx context.Context, statement string) error {
			_, execErr := pool.Exec(ctx, statement)
			return execErr
		}
		w.EventStore, err = postgresengine.NewEventStoreFromPGXPool(pool, option)

	case config.DriverSQL:
		db, dbErr := config.PostgresSQLDB(ctx, dsn)
		require.NoError(t, dbErr, "error connecting to postgres in test setup")
		w.close = func() { _ = db.Close() }
		w.exec = func(ctx context.Context, statement string) error {
			_, execErr := db.ExecContext(ctx, statement)
			return execErr
		}
		w.EventStore, err = postgresengine.NewEventStoreFromSQLDB(db, option)

	case config.DriverSQLX:
		db, dbErr := config.PostgresSQLX(ctx, dsn)
		require.NoError(t, dbErr, "error connecting to postgres in test setup")
		w.close = func() { _ = db.Close() }
		w.exec = func(ctx context.Context, statement string) error {
			_, execErr := db.ExecContext(ctx, statement)
			return execErr
		}
		w.EventStore, err = postgresengine.NewEventStoreFromSQLX(db, option)

	default:
		t.Fatalf("unsupported %s: %q", EnvTestDriver, driver)
	}

	require.NoError(t, err, "error creating the event store in test setup")
	require.NoError(t, w.EventStore.CreateSchema(ctx), "error creating the schema in test setup")

	t.Cleanup(func() {
		_ = w.exec(context.Background(), fmt.Sprintf("DROP TABLE IF EXISTS %s", w.TableName))
		w.close()
	})

	return w
}
