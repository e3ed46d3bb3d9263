package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return nil
		}, 3, time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after retries", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, 5, time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when attempts exhausted", func(t *testing.T) {
		calls := 0
		wantErr := errors.New("permanent")
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return wantErr
		}, 3, time.Millisecond)

		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, 3, calls)
	})

	t.Run("invalid max attempts", func(t *testing.T) {
		err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("cancelled before first attempt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return nil
		}, 3, time.Millisecond)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, calls)
	})

	t.Run("cancelled during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			cancel()
			return errors.New("transient")
		}, 3, time.Hour)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("delays grow exponentially", func(t *testing.T) {
		start := time.Now()
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return errors.New("transient")
		}, 3, 10*time.Millisecond)

		// Sleeps of 10ms and 20ms between the three attempts.
		elapsed := time.Since(start)
		assert.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
	})
}
