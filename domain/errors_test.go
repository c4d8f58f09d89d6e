package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	err := ConflictError("already reacted")
	assert.True(t, errors.Is(err, ErrConflict))
	assert.True(t, IsClientError(err))
	assert.Equal(t, "already reacted", Message(err))

	cause := errors.New("connection reset")
	txErr := TransactionError(cause)
	assert.True(t, errors.Is(txErr, ErrTransaction))
	assert.True(t, errors.Is(txErr, cause))
	assert.False(t, IsClientError(txErr))

	assert.Same(t, err, TransactionError(err))
	assert.Nil(t, TransactionError(nil))
}
