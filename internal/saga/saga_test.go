package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRunner() *Runner {
	r := NewRunner(zap.NewNop())
	r.sleep = func(time.Duration) {} // no real waiting in tests
	return r
}

func TestExecute_AllStepsRunInOrder(t *testing.T) {
	var order []string
	r := newTestRunner()

	err := r.Execute(context.Background(), []Step{
		{Name: "first", Run: func(context.Context) error { order = append(order, "first"); return nil }},
		{Name: "second", Run: func(context.Context) error { order = append(order, "second"); return nil }},
		{Name: "third", Run: func(context.Context) error { order = append(order, "third"); return nil }},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestExecute_FailureCompensatesInReverse(t *testing.T) {
	var events []string
	r := newTestRunner()
	boom := errors.New("boom")

	err := r.Execute(context.Background(), []Step{
		{
			Name:       "a",
			Run:        func(context.Context) error { events = append(events, "run:a"); return nil },
			Compensate: func(context.Context) error { events = append(events, "undo:a"); return nil },
		},
		{
			Name:       "b",
			Run:        func(context.Context) error { events = append(events, "run:b"); return nil },
			Compensate: func(context.Context) error { events = append(events, "undo:b"); return nil },
		},
		{
			Name: "c",
			Run:  func(context.Context) error { return boom },
		},
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "c:")
	assert.Equal(t, []string{"run:a", "run:b", "undo:b", "undo:a"}, events)
}

func TestExecute_CompensationFailureDoesNotMaskOriginal(t *testing.T) {
	r := newTestRunner()
	boom := errors.New("boom")

	err := r.Execute(context.Background(), []Step{
		{
			Name:       "create",
			Run:        func(context.Context) error { return nil },
			Compensate: func(context.Context) error { return errors.New("undo failed") },
		},
		{Name: "fail", Run: func(context.Context) error { return boom }},
	})
	require.ErrorIs(t, err, boom)
}

func TestExecute_RetrySucceedsWithinAttempts(t *testing.T) {
	r := newTestRunner()
	calls := 0

	err := r.Execute(context.Background(), []Step{{
		Name:     "flaky",
		Attempts: 3,
		Backoff:  time.Millisecond,
		Run: func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		},
	}})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecute_RetryExhausted(t *testing.T) {
	r := newTestRunner()
	calls := 0
	boom := errors.New("still failing")

	err := r.Execute(context.Background(), []Step{{
		Name:     "flaky",
		Attempts: 3,
		Run:      func(context.Context) error { calls++; return boom },
	}})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestExecute_LinearBackoffDelays(t *testing.T) {
	r := NewRunner(zap.NewNop())
	var slept []time.Duration
	r.sleep = func(d time.Duration) { slept = append(slept, d) }

	_ = r.Execute(context.Background(), []Step{{
		Name:     "flaky",
		Attempts: 3,
		Backoff:  10 * time.Millisecond,
		Run:      func(context.Context) error { return errors.New("nope") },
	}})
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, slept)
}

func TestExecute_ContextCancelledStopsRetry(t *testing.T) {
	r := newTestRunner()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := r.Execute(ctx, []Step{{
		Name:     "flaky",
		Attempts: 5,
		Run: func(context.Context) error {
			calls++
			cancel()
			return errors.New("transient")
		},
	}})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
