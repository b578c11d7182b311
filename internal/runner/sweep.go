// Package runner drives a benchmark sweep across terminals and persists its outputs.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/moguls753/termbench/internal/benchmark"
	"github.com/moguls753/termbench/internal/config"
	"github.com/moguls753/termbench/internal/display"
	"github.com/moguls753/termbench/internal/export"
	"github.com/moguls753/termbench/internal/harness"
	"github.com/moguls753/termbench/internal/telemetry"
)

// Factory builds the selected descriptors around a target's own harness.
type Factory func(h *harness.Harness) ([]benchmark.Descriptor, error)

// EnvironmentProber snapshots the host.
type EnvironmentProber interface {
	Environment(ctx context.Context, now time.Time) benchmark.Environment
}

// SuiteSaver records finished suites in a history store.
type SuiteSaver interface {
	SaveSuite(ctx context.Context, runID uuid.UUID, label string, suite *benchmark.Suite) (string, error)
}

// Sweep runs every selected benchmark against every target.
type Sweep struct {
	Config  *config.Config
	Factory Factory
	Ranker  display.Ranker
	Probe   EnvironmentProber
	Store   SuiteSaver // optional
	Metrics *telemetry.Metrics
	Logger  *log.Logger
	Now     func() time.Time
}

// Summary is the outcome of a sweep.
type Summary struct {
	RunID  uuid.UUID
	Suites []*benchmark.Suite
	Files  []string
	// Empty lists targets that produced no result at all.
	Empty []string
	// PersistErrors are output or store failures; they never discard results.
	PersistErrors []error
}

func (s *Sweep) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Sweep) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.New(io.Discard)
}

// Run executes the sweep.
//
// Per target it:
//   - creates a private harness and temporary payload directory
//   - runs the descriptors sequentially through a benchmark.Runner
//   - writes the Markdown report, plus JSON and CSV when enabled
//   - records the suite in the history store when one is configured
//
// Targets run concurrently up to Config.Parallel. When ctx is cancelled, suites that
// completed at least one benchmark are still persisted and ctx.Err() is returned.
func (s *Sweep) Run(ctx context.Context, targets []benchmark.Target) (*Summary, error) {
	cfg := s.Config
	logger := s.logger()
	started := s.now()
	summary := &Summary{RunID: uuid.New()}
	logger.Info("starting sweep", "run", summary.RunID, "terminals", len(targets))

	writer, err := export.NewWriter(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	if !cfg.NoClean {
		removed, err := export.Cleanup(cfg.OutputDir, cfg.SuiteLabel)
		if err != nil {
			logger.Warn("cleanup incomplete", "dir", cfg.OutputDir, "err", err)
		}
		if len(removed) > 0 {
			logger.Info("removed previous results", "count", len(removed))
		}
	}

	outcomes := make([]targetOutcome, len(targets))
	var g errgroup.Group
	g.SetLimit(max(cfg.Parallel, 1))
	for i, target := range targets {
		g.Go(func() error {
			outcomes[i] = s.runTarget(ctx, writer, summary.RunID, target)
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range outcomes {
		if o.suite == nil {
			summary.Empty = append(summary.Empty, targets[i].Name)
			summary.PersistErrors = append(summary.PersistErrors, o.errs...)
			continue
		}
		summary.Suites = append(summary.Suites, o.suite)
		summary.Files = append(summary.Files, o.files...)
		summary.PersistErrors = append(summary.PersistErrors, o.errs...)
		if len(o.suite.Results) == 0 {
			summary.Empty = append(summary.Empty, targets[i].Name)
		}
	}

	if cfg.Compare {
		if path, err := s.writeComparison(writer, summary.Suites, started); err != nil {
			summary.PersistErrors = append(summary.PersistErrors, err)
			logger.Warn("comparison not written", "err", err)
		} else if path != "" {
			summary.Files = append(summary.Files, path)
			logger.Info("saved comparison", "path", path)
		}
	}

	if s.Metrics != nil && cfg.Metrics.Textfile != "" {
		if err := s.Metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			perr := &benchmark.PersistenceError{Path: cfg.Metrics.Textfile, Err: err}
			summary.PersistErrors = append(summary.PersistErrors, perr)
			logger.Warn("metrics textfile not written", "err", perr)
		}
	}

	return summary, ctx.Err()
}

type targetOutcome struct {
	suite *benchmark.Suite
	files []string
	errs  []error
}

func (s *Sweep) runTarget(ctx context.Context, writer *export.Writer, runID uuid.UUID, target benchmark.Target) targetOutcome {
	cfg := s.Config
	logger := s.logger().With("terminal", target.Name)
	var out targetOutcome

	tmp, err := os.MkdirTemp("", "termbench-*")
	if err != nil {
		logger.Error("cannot create payload directory", "err", err)
		out.errs = append(out.errs, &benchmark.TargetError{Target: target.Name, Err: err})
		return out
	}
	defer os.RemoveAll(tmp)

	opts := []harness.Option{harness.WithLogger(s.logger())}
	if s.Metrics != nil {
		opts = append(opts, harness.WithObserver(s.Metrics))
	}
	h := harness.New(harness.Config{
		Timeout:            cfg.Timeout,
		MaxFailureFraction: cfg.MaxFailureFraction,
		TempDir:            tmp,
	}, opts...)

	descs, err := s.Factory(h)
	if err != nil {
		logger.Error("cannot build benchmarks", "err", err)
		out.errs = append(out.errs, &benchmark.TargetError{Target: target.Name, Err: err})
		return out
	}

	r := &benchmark.Runner{Runs: cfg.Runs, Logger: logger, Now: s.Now}
	if s.Metrics != nil {
		r.OnTransition = s.Metrics.ObserveTransition
	}
	env := s.Probe.Environment(ctx, s.now())
	suite, err := r.Run(ctx, target, env, descs)
	out.suite = suite

	var targetErr *benchmark.TargetError
	switch {
	case errors.As(err, &targetErr):
		logger.Warn("terminal produced no results", "err", targetErr.Err)
		return out
	case err != nil:
		logger.Warn("terminal interrupted", "completed", len(suite.Results))
	}
	if len(suite.Results) == 0 {
		return out
	}

	// outputs are written even when the sweep was cancelled
	persistCtx := context.WithoutCancel(ctx)
	out.files, out.errs = s.persist(persistCtx, writer, runID, suite)
	return out
}

func (s *Sweep) persist(ctx context.Context, writer *export.Writer, runID uuid.UUID, suite *benchmark.Suite) ([]string, []error) {
	cfg := s.Config
	logger := s.logger().With("terminal", suite.Terminal)
	var files []string
	var errs []error

	record := func(paths []string, err error) {
		files = append(files, paths...)
		for _, p := range paths {
			logger.Info("saved", "path", p)
		}
		if err != nil {
			logger.Warn("output not written", "err", err)
			errs = append(errs, err)
		}
	}

	name := export.FileName(suite.Terminal, cfg.SuiteLabel, suite.Timestamp, "", "md")
	path, err := writer.WriteString(name, display.Report(suite, s.Ranker))
	record(nonEmpty(path), err)

	if cfg.JSON {
		path, err := writer.WriteJSON(suite, cfg.SuiteLabel)
		record(nonEmpty(path), err)
	}
	if cfg.CSV {
		record(writer.WriteCSV(suite, cfg.SuiteLabel))
	}

	if s.Store != nil {
		id, err := s.Store.SaveSuite(ctx, runID, cfg.SuiteLabel, suite)
		if err != nil {
			perr := &benchmark.PersistenceError{Path: "store", Err: err}
			logger.Warn("suite not stored", "err", perr)
			errs = append(errs, perr)
		} else {
			logger.Debug("stored suite", "id", id)
		}
	}
	return files, errs
}

func (s *Sweep) writeComparison(writer *export.Writer, suites []*benchmark.Suite, started time.Time) (string, error) {
	withResults := 0
	for _, suite := range suites {
		if len(suite.Results) > 0 {
			withResults++
		}
	}
	if withResults < 2 {
		s.logger().Warn("comparison needs at least two terminals with results", "terminals", withResults)
		return "", nil
	}
	// terminals without results keep their column so their cells show as missing
	table := display.BuildComparison(suites, s.Ranker)
	path, err := writer.WriteString(export.ComparisonName(s.Config.SuiteLabel, started), display.Comparison(table, started))
	if err != nil {
		return "", fmt.Errorf("comparison: %w", err)
	}
	return path, nil
}

func nonEmpty(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path}
}
