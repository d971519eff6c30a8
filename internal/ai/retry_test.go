package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenerator(retry RetryConfig) *Generator {
	return &Generator{retry: retry}
}

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        2,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
		Timeout:           time.Second,
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	g := testGenerator(fastRetryConfig())

	attempts := 0
	err := g.retryWithBackoff(context.Background(), "test", func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("429 rate limit exceeded")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryGivesUpAfterMaxRetries(t *testing.T) {
	g := testGenerator(fastRetryConfig())

	attempts := 0
	err := g.retryWithBackoff(context.Background(), "test", func(ctx context.Context) error {
		attempts++
		return errors.New("503 service unavailable")
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts) // initial + 2 retries
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	g := testGenerator(fastRetryConfig())

	attempts := 0
	fatal := errors.New("401 unauthorized")
	err := g.retryWithBackoff(context.Background(), "test", func(ctx context.Context) error {
		attempts++
		return fatal
	})

	assert.Equal(t, fatal, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryRespectsCanceledContext(t *testing.T) {
	g := testGenerator(fastRetryConfig())
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := g.retryWithBackoff(ctx, "test", func(context.Context) error {
		attempts++
		cancel()
		return errors.New("429 rate limit exceeded")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryOpensCircuitBreaker(t *testing.T) {
	cfg := fastRetryConfig()
	g := testGenerator(cfg)
	g.breaker = NewCircuitBreaker(2, 1, time.Minute)

	err := g.retryWithBackoff(context.Background(), "test", func(context.Context) error {
		return errors.New("503 service unavailable")
	})
	require.Error(t, err)

	// two failures tripped the breaker mid-run; the next call fails fast
	assert.Equal(t, CircuitOpen, g.breaker.State())

	attempts := 0
	err = g.retryWithBackoff(context.Background(), "test", func(context.Context) error {
		attempts++
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, 0, attempts)
}

func TestCircuitBreakerLifecycle(t *testing.T) {
	cb := NewCircuitBreaker(2, 2, 30*time.Millisecond)

	require.NoError(t, cb.Allow())
	assert.Equal(t, CircuitClosed, cb.State())

	// failures below the threshold keep it closed, a success resets them
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	assert.Equal(t, CircuitClosed, cb.State())

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())
	assert.ErrorIs(t, cb.Allow(), ErrCircuitOpen)

	// after the open timeout the breaker probes in half-open
	time.Sleep(40 * time.Millisecond)
	require.NoError(t, cb.Allow())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	// one success isn't enough with a threshold of two
	cb.RecordSuccess()
	assert.Equal(t, CircuitHalfOpen, cb.State())
	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := NewCircuitBreaker(1, 1, 10*time.Millisecond)

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, cb.Allow())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())
}

func TestCircuitStateString(t *testing.T) {
	assert.Equal(t, "CLOSED", CircuitClosed.String())
	assert.Equal(t, "OPEN", CircuitOpen.String())
	assert.Equal(t, "HALF_OPEN", CircuitHalfOpen.String())
	assert.Equal(t, "UNKNOWN", CircuitState(99).String())
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err       error
		retryable bool
	}{
		{nil, false},
		{context.DeadlineExceeded, true},
		{errors.New("429 Too Many Requests"), true},
		{errors.New("rate limit exceeded, slow down"), true},
		{errors.New("500 internal server error"), true},
		{errors.New("overloaded_error: Overloaded"), true},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("read: connection reset by peer"), true},
		{errors.New("401 unauthorized"), false},
		{errors.New("400 invalid_request_error"), false},
		{errors.New("model not found"), false},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryableError(tt.err), fmt.Sprintf("error: %v", tt.err))
		})
	}
}
