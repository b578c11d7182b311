// Package export persists suites and documents to the output directory.
package export

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/moguls753/termbench/internal/benchmark"
)

// TimestampFormat is the timestamp embedded in output file names.
const TimestampFormat = "20060102_150405"

// SummaryFile is a legacy summary document removed by Cleanup.
const SummaryFile = "BENCHMARK_SUMMARY.md"

var resultExts = []string{".md", ".json", ".csv"}

// FileName returns "{target}_{label}_{timestamp}{suffix}.{ext}".
func FileName(target, label string, ts time.Time, suffix, ext string) string {
	return fmt.Sprintf("%s_%s_%s%s.%s", target, label, ts.Format(TimestampFormat), suffix, ext)
}

// ComparisonName returns "comparison_{label}_{timestamp}.md".
func ComparisonName(label string, ts time.Time) string {
	return FileName("comparison", label, ts, "", "md")
}

// Writer creates output files in Dir. Files are never overwritten: when a name is
// taken a ULID is appended to it.
type Writer struct {
	Dir string
}

// NewWriter creates dir when missing.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &benchmark.PersistenceError{Path: dir, Err: err}
	}
	return &Writer{Dir: dir}, nil
}

// WriteFile creates name exclusively and fills it with write. It returns the path
// actually written. Errors are *benchmark.PersistenceError.
func (w *Writer) WriteFile(name string, write func(io.Writer) error) (string, error) {
	f, err := w.create(name)
	if err != nil {
		return "", &benchmark.PersistenceError{Path: filepath.Join(w.Dir, name), Err: err}
	}
	path := f.Name()

	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", &benchmark.PersistenceError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", &benchmark.PersistenceError{Path: path, Err: err}
	}
	return path, nil
}

// WriteString writes a rendered document.
func (w *Writer) WriteString(name, doc string) (string, error) {
	return w.WriteFile(name, func(out io.Writer) error {
		_, err := io.WriteString(out, doc)
		return err
	})
}

func (w *Writer) create(name string) (*os.File, error) {
	path := filepath.Join(w.Dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if !errors.Is(err, fs.ErrExist) {
		return f, err
	}
	ext := filepath.Ext(name)
	unique := strings.TrimSuffix(name, ext) + "_" + ulid.Make().String() + ext
	return os.OpenFile(filepath.Join(w.Dir, unique), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

// Cleanup removes earlier result files for label from dir and returns the removed
// paths. Only names of the form "{prefix}_{label}_{timestamp}..." with a result
// extension, and the legacy summary file, are touched.
func Cleanup(dir, label string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var removed []string
	var errs []error
	for _, e := range entries {
		if !e.Type().IsRegular() || !IsResultFile(e.Name(), label) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, path)
	}
	return removed, errors.Join(errs...)
}

// IsResultFile reports whether name is an output file of a run labelled label.
func IsResultFile(name, label string) bool {
	if name == SummaryFile {
		return true
	}
	ext := filepath.Ext(name)
	known := false
	for _, e := range resultExts {
		known = known || ext == e
	}
	if !known {
		return false
	}

	marker := "_" + label + "_"
	i := strings.LastIndex(name, marker)
	if i <= 0 {
		return false
	}
	rest := name[i+len(marker):]
	if len(rest) < len(TimestampFormat) {
		return false
	}
	_, err := time.Parse(TimestampFormat, rest[:len(TimestampFormat)])
	return err == nil
}
