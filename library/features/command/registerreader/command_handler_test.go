package registerreader_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/registerreader"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
	"github.com/AntonStoeckl/library-lending-ledger/testutil/fixtures"
)

func registration(email string) core.Registration {
	return core.Registration{
		Name:                      "Ada Lovelace",
		Email:                     email,
		PasswordHash:              "hash",
		Role:                      core.RoleUser,
		VerificationCode:          "123456",
		VerificationCodeExpiresAt: fixtures.FakeClock.Add(10 * time.Minute),
	}
}

func Test_CommandHandler_Handle_RegistersWithNormalizedEmail(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := fixtures.NewEventStore()
	readerID := uuid.New()

	// act
	result, err := registerreader.NewCommandHandler(es).Handle(
		ctx,
		registerreader.BuildCommand(readerID, registration("  Ada@Example.COM "), fixtures.FakeClock),
	)

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	reader := core.ProjectReaderByEmail(fixtures.History(t, es), "ada@example.com")
	assert.True(t, reader.Registered)
	assert.Equal(t, readerID.String(), reader.ReaderID)
}

func Test_CommandHandler_Handle_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	es := fixtures.NewEventStore()
	handler := registerreader.NewCommandHandler(es)
	_, err := handler.Handle(ctx, registerreader.BuildCommand(uuid.New(), registration("ada@example.com"), fixtures.FakeClock))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, registerreader.BuildCommand(uuid.New(), registration("ADA@example.com"), fixtures.FakeClock))

	assert.ErrorIs(t, err, core.ErrEmailAlreadyRegistered)
	assert.Equal(t, 1, es.Len())
}

func Test_CommandHandler_Handle_SameReaderTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	es := fixtures.NewEventStore()
	handler := registerreader.NewCommandHandler(es)
	command := registerreader.BuildCommand(uuid.New(), registration("ada@example.com"), fixtures.FakeClock)
	_, err := handler.Handle(ctx, command)
	require.NoError(t, err)

	result, err := handler.Handle(ctx, command)

	require.NoError(t, err)
	assert.True(t, result.Idempotent)
}

func Test_CommandHandler_Handle_MissingFields(t *testing.T) {
	reg := registration("ada@example.com")
	reg.PasswordHash = ""

	_, err := registerreader.NewCommandHandler(fixtures.NewEventStore()).Handle(
		context.Background(),
		registerreader.BuildCommand(uuid.New(), reg, fixtures.FakeClock),
	)

	assert.ErrorIs(t, err, core.ErrAllFieldsRequired)
}

func Test_CommandHandler_Handle_ConcurrentRegistrationsOfSameEmail(t *testing.T) {
	// arrange
	const attempts = 10
	ctx := context.Background()
	es := fixtures.NewEventStore()
	handler := registerreader.NewCommandHandler(es, registerreader.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)))

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	// act
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := handler.Handle(ctx, registerreader.BuildCommand(uuid.New(), registration("ada@example.com"), fixtures.FakeClock))
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, es.Len())
}
