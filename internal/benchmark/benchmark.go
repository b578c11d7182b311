// Package benchmark holds the measurement data model (metric sets, results, suites),
// the benchmark registry and the per-target runner.
package benchmark

import (
	"context"
	"fmt"
)

// Target is a terminal under test and the display command that consumes payloads.
type Target struct {
	Name    string
	Command []string
	// Processes are process-name patterns used by resource benchmarks.
	Processes []string
}

// Outcome is what an executor produces for one target.
type Outcome struct {
	Metrics  MetricSet
	RawData  []float64
	Metadata map[string]string
}

// Executor runs one benchmark against a target. runs is the requested run count.
type Executor interface {
	Execute(ctx context.Context, target Target, runs int) (*Outcome, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, target Target, runs int) (*Outcome, error)

func (f ExecutorFunc) Execute(ctx context.Context, target Target, runs int) (*Outcome, error) {
	return f(ctx, target, runs)
}

// Descriptor is the static description of a runnable benchmark.
type Descriptor struct {
	Name        string
	Category    string
	Description string
	DefaultRuns int
	Executor    Executor
}

func (d Descriptor) validate() error {
	switch {
	case d.Name == "":
		return fmt.Errorf("descriptor without name")
	case d.Category == "":
		return fmt.Errorf("descriptor %s: empty category", d.Name)
	case d.DefaultRuns < 1:
		return fmt.Errorf("descriptor %s: default runs must be >= 1", d.Name)
	case d.Executor == nil:
		return fmt.Errorf("descriptor %s: nil executor", d.Name)
	}
	return nil
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
