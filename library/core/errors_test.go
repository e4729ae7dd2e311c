package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

func Test_KindErrors_AreClassified(t *testing.T) {
	assert.ErrorIs(t, core.ErrBookNotFound, core.ErrNotFound)
	assert.ErrorIs(t, core.ErrNoCopiesAvailable, core.ErrConflict)
	assert.ErrorIs(t, core.ErrAlreadyBorrowed, core.ErrConflict)
	assert.ErrorIs(t, core.ErrNotBorrowed, core.ErrNotFound)
	assert.ErrorIs(t, core.ErrIncorrectPassword, core.ErrUnauthorized)
	assert.Equal(t, "No copies available", core.ErrNoCopiesAvailable.Error())

	joined := errors.Join(core.ErrUnavailable, errors.New("deadline exceeded"))
	assert.ErrorIs(t, joined, core.ErrUnavailable)
	assert.NotErrorIs(t, core.ErrAlreadyBorrowed, core.ErrNoCopiesAvailable)
}

func Test_MessageOf(t *testing.T) {
	msg, ok := core.MessageOf(errors.Join(core.ErrConflict, core.ErrAlreadyBorrowed))
	assert.True(t, ok)
	assert.Equal(t, "You already borrowed this book", msg)

	_, ok = core.MessageOf(errors.Join(core.ErrUnavailable, errors.New("connection reset")))
	assert.False(t, ok)
}
