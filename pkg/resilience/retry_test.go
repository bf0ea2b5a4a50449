package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "flaky", fastConfig(4), func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_GivesUp(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Retry(context.Background(), "down", fastConfig(3), func() error {
		calls++
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestRetry_Permanent(t *testing.T) {
	bad := errors.New("bad credentials")
	calls := 0
	err := Retry(context.Background(), "auth", fastConfig(5), func() error {
		calls++
		return Permanent(bad)
	})
	assert.ErrorIs(t, err, bad)
	assert.Equal(t, 1, calls)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, "cancelled", RetryConfig{MaxAttempts: 3, InitialDelay: time.Hour}, func() error {
		return errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeDelay_Capped(t *testing.T) {
	cfg := withDefaults(RetryConfig{InitialDelay: time.Second, MaxDelay: 3 * time.Second, Multiplier: 10})
	assert.LessOrEqual(t, computeDelay(5, cfg), 3*time.Second)
	assert.Greater(t, computeDelay(1, cfg), time.Duration(0))
}
