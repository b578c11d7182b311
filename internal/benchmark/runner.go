package benchmark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"
)

// State is the lifecycle state of one (descriptor, target) execution.
type State int

const (
	StatePending State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Transition is reported every time an execution changes state.
type Transition struct {
	Target    string
	Benchmark string
	From, To  State
	Err       error
}

// Runner executes descriptors for one target, strictly sequentially. A failing
// descriptor is recorded and the runner moves on to the next one.
type Runner struct {
	// Runs overrides each descriptor's default run count when > 0.
	Runs         int
	Now          func() time.Time
	Logger       *log.Logger
	OnTransition func(Transition)
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.New(io.Discard)
}

// RunsFor returns the run count used for a descriptor.
func (r *Runner) RunsFor(d Descriptor) int {
	if r.Runs > 0 {
		return r.Runs
	}
	return d.DefaultRuns
}

// Run executes descs against target and returns the suite. The error is non-nil when
// the context was cancelled (the suite then holds what completed before) or when the
// target produced no result at all (*TargetError).
func (r *Runner) Run(ctx context.Context, target Target, env Environment, descs []Descriptor) (*Suite, error) {
	suite := NewSuite(target.Name, env)
	logger := r.logger().With("terminal", target.Name)

	for _, d := range descs {
		if err := ctx.Err(); err != nil {
			return suite, err
		}
		r.transition(Transition{Target: target.Name, Benchmark: d.Name, From: StatePending, To: StateRunning})
		logger.Info("running benchmark", "benchmark", d.Name)

		runs := r.RunsFor(d)
		started := r.now()
		out, err := execute(ctx, d, target, runs)
		if err != nil {
			if ctx.Err() != nil {
				err = fmt.Errorf("abandoned: %w", ctx.Err())
			}
			suite.fail(d, err)
			r.transition(Transition{Target: target.Name, Benchmark: d.Name, From: StateRunning, To: StateFailed, Err: err})
			logger.Warn("benchmark failed", "benchmark", d.Name, "err", err)
			if ctx.Err() != nil {
				return suite, ctx.Err()
			}
			continue
		}

		suite.add(Result{
			Name:      d.Name,
			Category:  d.Category,
			Terminal:  target.Name,
			Timestamp: started,
			Runs:      runs,
			Metrics:   out.Metrics,
			RawData:   nonNil(slices.Clone(out.RawData)),
			Metadata:  nonNilMap(maps.Clone(out.Metadata)),
		})
		r.transition(Transition{Target: target.Name, Benchmark: d.Name, From: StateRunning, To: StateCompleted})
		logger.Debug("benchmark completed", "benchmark", d.Name, "elapsed", r.now().Sub(started).Round(time.Millisecond))
	}

	if len(descs) > 0 && len(suite.Results) == 0 {
		errs := make([]error, 0, len(suite.Failures))
		for _, f := range suite.Failures {
			errs = append(errs, fmt.Errorf("%s: %w", f.Name, f.Err))
		}
		return suite, &TargetError{Target: target.Name, Err: errors.Join(errs...)}
	}
	return suite, nil
}

// execute isolates executor panics so one broken benchmark cannot end the sweep.
func execute(ctx context.Context, d Descriptor, target Target, runs int) (out *Outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, fmt.Errorf("executor panic: %v", p)
		}
	}()
	out, err = d.Executor.Execute(ctx, target, runs)
	if err == nil && out == nil {
		err = errors.New("executor returned no outcome")
	}
	return out, err
}

func (r *Runner) transition(t Transition) {
	if r.OnTransition != nil {
		r.OnTransition(t)
	}
}

func nonNil(s []float64) []float64 {
	if s == nil {
		return []float64{}
	}
	return s
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
