package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerOpensAndHalfOpens(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newCircuitBreaker(3, time.Minute)
	b.now = func() time.Time { return now }

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		require.NoError(t, b.allow())
		b.record(boom)
	}

	failures, open := b.status()
	assert.Equal(t, 3, failures)
	assert.True(t, open)
	assert.Error(t, b.allow())

	now = now.Add(time.Minute)
	require.NoError(t, b.allow(), "cooldown elapsed")

	// one more failure while half-open re-opens immediately
	b.record(boom)
	_, open = b.status()
	assert.True(t, open)
	assert.Error(t, b.allow())

	now = now.Add(time.Minute)
	require.NoError(t, b.allow())
	b.record(nil)
	failures, open = b.status()
	assert.Zero(t, failures)
	assert.False(t, open)
}

func TestCircuitBreakerHalfOpenAdmitsOneCall(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newCircuitBreaker(1, time.Minute)
	b.now = func() time.Time { return now }

	b.record(errors.New("boom"))
	now = now.Add(time.Minute)

	require.NoError(t, b.allow())
	assert.Error(t, b.allow(), "second caller while the trial call is in flight")
	assert.Error(t, b.allow())

	b.record(nil)
	assert.NoError(t, b.allow())
	assert.NoError(t, b.allow())
}

func TestBackoffDelayIsCapped(t *testing.T) {
	for attempt := 1; attempt < 10; attempt++ {
		d := backoffDelay(time.Second, 4*time.Second, attempt)
		assert.Greater(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 5*time.Second)
	}
}
