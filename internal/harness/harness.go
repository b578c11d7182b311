// Package harness times repeated runs of an external command.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/moguls753/termbench/internal/benchmark"
)

const (
	DefaultTimeout = 60 * time.Second
	// waitDelay bounds how long Wait blocks on output pipes after a kill.
	waitDelay = 2 * time.Second
)

// Labels identify a measurement for logging and metrics.
type Labels struct {
	Target    string
	Benchmark string
	Case      string
}

// Invocation describes the command a measurement runs.
type Invocation struct {
	Argv []string
	// Payload, when non-nil, is written to a temporary file whose path is appended
	// to Argv. The file is removed when the measurement ends.
	Payload []byte
	// Repeat is the number of sequential launches timed as one sample (default 1).
	Repeat int
	Labels Labels
}

// Observer receives every timed run.
type Observer interface {
	ObserveRun(labels Labels, elapsed time.Duration, err error)
}

type Config struct {
	// Timeout bounds each sample; 0 means DefaultTimeout.
	Timeout time.Duration
	// MaxFailureFraction rejects a measurement whose failed/total ratio exceeds it.
	// A measurement with no successful run is always rejected.
	MaxFailureFraction float64
	// TempDir holds payload files; empty means os.TempDir.
	TempDir string
}

// Harness runs invocations sequentially and records wall-clock durations.
type Harness struct {
	cfg      Config
	observer Observer
	logger   *log.Logger
}

type Option func(*Harness)

// WithObserver reports every run to o.
func WithObserver(o Observer) Option {
	return func(h *Harness) { h.observer = o }
}

// WithLogger sets the logger for failed runs.
func WithLogger(l *log.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// New returns a harness. A zero Timeout uses DefaultTimeout.
func New(cfg Config, opts ...Option) *Harness {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxFailureFraction <= 0 || cfg.MaxFailureFraction > 1 {
		cfg.MaxFailureFraction = 1
	}
	h := &Harness{cfg: cfg, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Measurement is the outcome of timing one invocation several times.
type Measurement struct {
	// Samples are the durations of successful runs in milliseconds, in run order.
	Samples  []float64
	Total    int
	Failures []*benchmark.InvocationError
}

// Failed returns the number of failed runs.
func (m Measurement) Failed() int { return len(m.Failures) }

// Measure runs inv runs times. Failed runs are excluded from the samples and
// counted. It returns *benchmark.InsufficientSamplesError when too many runs failed,
// and the context error when ctx is cancelled.
func (h *Harness) Measure(ctx context.Context, inv Invocation, runs int) (Measurement, error) {
	var m Measurement
	if runs < 1 {
		return m, fmt.Errorf("measure %s: runs must be >= 1, got %d", inv.Labels.Case, runs)
	}
	if len(inv.Argv) == 0 {
		return m, fmt.Errorf("measure %s: empty command", inv.Labels.Case)
	}
	repeat := max(inv.Repeat, 1)

	argv := slices.Clone(inv.Argv)
	if inv.Payload != nil {
		path, cleanup, err := h.writePayload(inv.Payload)
		if err != nil {
			return m, fmt.Errorf("measure %s: %w", inv.Labels.Case, err)
		}
		defer cleanup()
		argv = append(argv, path)
	}

	for run := 1; run <= runs; run++ {
		if err := ctx.Err(); err != nil {
			return m, err
		}
		m.Total++
		elapsed, err := h.runOnce(ctx, run, argv, repeat)
		if h.observer != nil {
			h.observer.ObserveRun(inv.Labels, elapsed, err)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return m, ctxErr
			}
			var invErr *benchmark.InvocationError
			if !errors.As(err, &invErr) {
				invErr = &benchmark.InvocationError{Run: run, Argv: argv, ExitCode: -1, Err: err}
			}
			m.Failures = append(m.Failures, invErr)
			h.logger.Warn("run failed", "terminal", inv.Labels.Target, "benchmark", inv.Labels.Benchmark,
				"case", inv.Labels.Case, "err", invErr)
			continue
		}
		m.Samples = append(m.Samples, float64(elapsed)/float64(time.Millisecond))
	}

	failed := m.Failed()
	if len(m.Samples) == 0 || float64(failed)/float64(m.Total) > h.cfg.MaxFailureFraction {
		return m, &benchmark.InsufficientSamplesError{
			Case:   inv.Labels.Case,
			Failed: failed,
			Total:  m.Total,
			Last:   m.Failures[len(m.Failures)-1],
		}
	}
	return m, nil
}

// runOnce times repeat sequential launches of argv under one timeout.
func (h *Harness) runOnce(ctx context.Context, run int, argv []string, repeat int) (time.Duration, error) {
	runCtx, cancel := context.WithTimeout(ctx, h.cfg.Timeout)
	defer cancel()

	start := time.Now()
	for i := 0; i < repeat; i++ {
		cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
		cmd.WaitDelay = waitDelay

		if err := cmd.Run(); err != nil {
			invErr := &benchmark.InvocationError{Run: run, Argv: argv, ExitCode: -1, Err: err}
			var exitErr *exec.ExitError
			switch {
			case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
				invErr.TimedOut = true
			case errors.As(err, &exitErr):
				invErr.ExitCode = exitErr.ExitCode()
			}
			return time.Since(start), invErr
		}
	}
	return time.Since(start), nil
}

func (h *Harness) writePayload(payload []byte) (string, func(), error) {
	f, err := os.CreateTemp(h.cfg.TempDir, "termbench-*.payload")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create payload file: %w", err)
	}
	cleanup := func() { os.Remove(f.Name()) }

	if _, err := f.Write(payload); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write payload: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to close payload file: %w", err)
	}
	h.logger.Debug("payload written", "path", f.Name(), "size", benchmark.FormatBytes(int64(len(payload))))
	return f.Name(), cleanup, nil
}
