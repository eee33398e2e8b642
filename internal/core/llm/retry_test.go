package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("flaky")
		}
		return nil
	}

	err := retryWithBackoff(context.Background(), op, transient, 5, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		return errors.New("always failing")
	}

	err := retryWithBackoff(context.Background(), op, transient, 4, time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, 4, attempts)
	assert.Contains(t, err.Error(), "always failing")
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	bad := &googleapi.Error{Code: http.StatusBadRequest}
	op := func() error {
		attempts++
		return bad
	}

	err := retryWithBackoff(context.Background(), op, transient, 5, time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	op := func() error {
		attempts++
		cancel()
		return errors.New("flaky")
	}

	err := retryWithBackoff(ctx, op, transient, 5, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestTransientClassification(t *testing.T) {
	assert.True(t, transient(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.True(t, transient(&googleapi.Error{Code: http.StatusInternalServerError}))
	assert.True(t, transient(&googleapi.Error{Code: http.StatusBadGateway}))
	assert.True(t, transient(&googleapi.Error{Code: http.StatusServiceUnavailable}))

	assert.False(t, transient(&googleapi.Error{Code: http.StatusBadRequest}))
	assert.False(t, transient(&googleapi.Error{Code: http.StatusUnauthorized}))
	assert.False(t, transient(context.Canceled))

	// Unclassified errors are assumed transient.
	assert.True(t, transient(errors.New("connection reset by peer")))
}
