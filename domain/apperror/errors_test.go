package apperror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"ytcurator/domain/apperror"
)

func TestKindOf_WrappedChain(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("get subscriptions: %w", apperror.Upstream(cause, "failed to list subscriptions"))

	assert.True(t, apperror.IsUpstream(err))
	assert.False(t, apperror.IsAuth(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "get subscriptions: failed to list subscriptions: connection reset", err.Error())
}

func TestErrNotAuthenticated(t *testing.T) {
	err := fmt.Errorf("ensure token: %w", apperror.ErrNotAuthenticated)

	assert.True(t, apperror.IsAuth(err))
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)
	assert.Equal(t, apperror.Kind(""), apperror.KindOf(errors.New("plain")))
}
