package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

func fail(ctx context.Context) error { return errBackend }
func ok(ctx context.Context) error   { return nil }

func TestBreaker_StaysClosedBelowThreshold(t *testing.T) {
	b := New(Config{FailureThreshold: 3})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, b.Execute(ctx, fail), errBackend)
	}
	assert.Equal(t, StateClosed, b.State())

	// A success resets the consecutive-failure count.
	require.NoError(t, b.Execute(ctx, ok))
	for i := 0; i < 2; i++ {
		_ = b.Execute(ctx, fail)
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_OpensAtThreshold(t *testing.T) {
	b := New(Config{FailureThreshold: 3, OpenTimeout: time.Hour})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = b.Execute(ctx, fail)
	}
	assert.Equal(t, StateOpen, b.State())

	calls := 0
	err := b.Execute(ctx, func(ctx context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Zero(t, calls, "open circuit never invokes fn")
}

func TestBreaker_HalfOpenProbeAfterTimeout(t *testing.T) {
	b := New(Config{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 10 * time.Millisecond})
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	assert.Equal(t, StateOpen, b.State())

	time.Sleep(15 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Execute(ctx, ok))
	assert.Equal(t, StateHalfOpen, b.State(), "one success is not enough to close")

	require.NoError(t, b.Execute(ctx, ok))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := New(Config{FailureThreshold: 1, OpenTimeout: 10 * time.Millisecond})
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	time.Sleep(15 * time.Millisecond)
	require.Equal(t, StateHalfOpen, b.State())

	_ = b.Execute(ctx, fail)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_NotifiesStateChanges(t *testing.T) {
	type change struct{ from, to State }
	var changes []change

	b := New(Config{
		Name:             "cache",
		FailureThreshold: 1,
		OpenTimeout:      time.Hour,
		OnStateChange: func(name string, from, to State) {
			assert.Equal(t, "cache", name)
			changes = append(changes, change{from, to})
		},
	})

	_ = b.Execute(context.Background(), fail)
	require.Len(t, changes, 1)
	assert.Equal(t, change{StateClosed, StateOpen}, changes[0])
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
}
