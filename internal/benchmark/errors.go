package benchmark

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoBenchmarks is returned when a selection leaves nothing to run.
var ErrNoBenchmarks = errors.New("no valid benchmarks selected")

// UnknownBenchmarkError reports a selection token that matched no benchmark or category.
type UnknownBenchmarkError struct {
	Name string
}

func (e *UnknownBenchmarkError) Error() string {
	return fmt.Sprintf("unknown benchmark or category: %s", e.Name)
}

// UnknownCategoryError reports a category filter that matched nothing.
type UnknownCategoryError struct {
	Category string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category: %s", e.Category)
}

// InvocationError is a single external command run that did not complete successfully.
type InvocationError struct {
	Run      int
	Argv     []string
	ExitCode int // -1 when the process never started or was killed
	TimedOut bool
	Err      error
}

func (e *InvocationError) Error() string {
	cmd := strings.Join(e.Argv, " ")
	switch {
	case e.TimedOut:
		return fmt.Sprintf("run %d: %s: timed out", e.Run, cmd)
	case e.ExitCode > 0:
		return fmt.Sprintf("run %d: %s: exit status %d", e.Run, cmd, e.ExitCode)
	}
	return fmt.Sprintf("run %d: %s: %v", e.Run, cmd, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// InsufficientSamplesError means too many runs of a measurement failed to summarize it.
type InsufficientSamplesError struct {
	Case   string
	Failed int
	Total  int
	Last   error
}

func (e *InsufficientSamplesError) Error() string {
	msg := fmt.Sprintf("%s: %d/%d runs failed", e.Case, e.Failed, e.Total)
	if e.Last != nil {
		msg += fmt.Sprintf(" (last: %v)", e.Last)
	}
	return msg
}

func (e *InsufficientSamplesError) Unwrap() error { return e.Last }

// PersistenceError means an output document could not be written.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// TargetError means a target produced no results at all.
type TargetError struct {
	Target string
	Err    error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("target %s: %v", e.Target, e.Err)
}

func (e *TargetError) Unwrap() error { return e.Err }
