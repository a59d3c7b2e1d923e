// Package saga runs ordered multi-record write sequences against a store
// that offers no cross-record transactions. Each step pairs an action
// with a compensation; on failure the completed steps' compensations run
// in reverse so partial writes do not linger.
package saga

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Step is one action in a sequence, with a best-effort undo.
// Compensate may be nil for steps that need no cleanup.
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error

	// Attempts > 1 enables bounded retry with linear backoff; a zero
	// value means a single attempt.
	Attempts int
	Backoff  time.Duration
}

// Runner executes sequences and logs compensation outcomes.
type Runner struct {
	log   *zap.Logger
	sleep func(time.Duration)
}

// Option configures a Runner.
type Option func(*Runner)

// WithSleep replaces the backoff sleep; tests pass a no-op.
func WithSleep(fn func(time.Duration)) Option {
	return func(r *Runner) {
		r.sleep = fn
	}
}

// NewRunner creates a Runner. A nil logger falls back to zap.NewNop.
func NewRunner(log *zap.Logger, opts ...Option) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{log: log, sleep: time.Sleep}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs steps strictly in order, each awaited before the next.
// On the first failure it compensates completed steps in reverse and
// returns the original error. Compensation failures are logged, never
// returned; the store is eventually cleaned up by hand if an undo fails.
func (r *Runner) Execute(ctx context.Context, steps []Step) error {
	var done []Step
	for _, step := range steps {
		if err := r.runStep(ctx, step); err != nil {
			r.compensate(ctx, done)
			return fmt.Errorf("%s: %w", step.Name, err)
		}
		done = append(done, step)
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, step Step) error {
	attempts := step.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 && step.Backoff > 0 {
			// Linear backoff: 1x, 2x, 3x...
			r.sleep(time.Duration(i) * step.Backoff)
		}
		if lastErr = step.Run(ctx); lastErr == nil {
			return nil
		}
		r.log.Warn("saga step failed",
			zap.String("step", step.Name),
			zap.Int("attempt", i+1),
			zap.Int("attempts", attempts),
			zap.Error(lastErr))
	}
	return lastErr
}

func (r *Runner) compensate(ctx context.Context, done []Step) {
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			r.log.Error("saga compensation failed",
				zap.String("step", step.Name),
				zap.Error(err))
		}
	}
}
