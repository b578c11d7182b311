// Package catalog defines the built-in terminal benchmarks.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/moguls753/termbench/internal/benchmark"
	"github.com/moguls753/termbench/internal/benchmark/statistics"
	"github.com/moguls753/termbench/internal/harness"
	"github.com/moguls753/termbench/internal/workload"
)

const (
	defaultRuns        = 5
	defaultLatencyRuns = 100
	defaultCPUInterval = 500 * time.Millisecond
)

// Prober reports resource usage of running processes.
type Prober interface {
	ProcessMemoryMB(ctx context.Context, pattern string) (mb float64, ok bool, err error)
	CPUPercent(ctx context.Context, interval time.Duration) (float64, error)
}

// Catalog builds descriptors whose executors share one harness.
type Catalog struct {
	harness     *harness.Harness
	prober      Prober
	cpuInterval time.Duration
}

type Option func(*Catalog)

// WithCPUInterval sets the sampling window of the cpu_usage benchmark.
func WithCPUInterval(d time.Duration) Option {
	return func(c *Catalog) { c.cpuInterval = d }
}

// New builds a catalog whose executors measure through h. A nil h is enough for listing.
func New(h *harness.Harness, p Prober, opts ...Option) *Catalog {
	c := &Catalog{harness: h, prober: p, cpuInterval: defaultCPUInterval}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns a registry holding every built-in benchmark.
func (c *Catalog) Registry() (*benchmark.Registry, error) {
	return benchmark.NewRegistry(c.Descriptors()...)
}

// subCase is one timed measurement inside a benchmark.
type subCase struct {
	name string
	// invoke builds the invocation; payload generation happens here, lazily.
	invoke func(t benchmark.Target, src *workload.Source) harness.Invocation
	shape  []metricFunc
	// summary replaces shape with the full statistics summary of the samples.
	summary bool
	// flat merges the metrics into the top level instead of a named group.
	flat bool
	// raw keeps the samples as the result's raw data.
	raw bool
}

func (c *Catalog) descriptor(name, category, description string, runs int, cases ...subCase) benchmark.Descriptor {
	return benchmark.Descriptor{
		Name:        name,
		Category:    category,
		Description: description,
		DefaultRuns: runs,
		Executor: benchmark.ExecutorFunc(func(ctx context.Context, target benchmark.Target, runs int) (*benchmark.Outcome, error) {
			return c.runCases(ctx, target, name, runs, cases)
		}),
	}
}

// runCases measures every sub-case. Failed sub-cases are reported in metadata; the
// benchmark fails only when none succeeded.
func (c *Catalog) runCases(ctx context.Context, target benchmark.Target, bench string, runs int, cases []subCase) (*benchmark.Outcome, error) {
	b := benchmark.NewMetricSetBuilder()
	out := &benchmark.Outcome{Metadata: map[string]string{}}
	var (
		failedCases []string
		errs        []error
		failedRuns  int
	)

	for _, sc := range cases {
		inv := sc.invoke(target, workload.New(bench+"/"+sc.name))
		inv.Labels = harness.Labels{Target: target.Name, Benchmark: bench, Case: sc.name}

		m, err := c.harness.Measure(ctx, inv, runs)
		failedRuns += m.Failed()
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			failedCases = append(failedCases, sc.name)
			errs = append(errs, err)
			continue
		}

		metrics, err := sc.metrics(inv.Payload, m.Samples)
		if err != nil {
			failedCases = append(failedCases, sc.name)
			errs = append(errs, err)
			continue
		}
		if sc.flat {
			merge(b, metrics)
		} else {
			b.AddGroup(sc.name, metrics)
		}
		if sc.raw {
			out.RawData = m.Samples
		}
	}

	if len(failedCases) == len(cases) {
		return nil, errors.Join(errs...)
	}
	if len(failedCases) > 0 {
		out.Metadata["failed_cases"] = strings.Join(failedCases, ",")
	}
	if failedRuns > 0 {
		out.Metadata["failed_runs"] = strconv.Itoa(failedRuns)
	}
	out.Metrics = b.Build()
	return out, nil
}

func (sc subCase) metrics(payload []byte, samples []float64) (benchmark.MetricSet, error) {
	if sc.summary {
		s, err := statistics.Summarize(samples)
		if err != nil {
			return benchmark.MetricSet{}, err
		}
		return s.MetricSet("ms"), nil
	}
	b := benchmark.NewMetricSetBuilder()
	for _, f := range sc.shape {
		f(b, payload, samples)
	}
	return b.Build(), nil
}

func merge(b *benchmark.MetricSetBuilder, m benchmark.MetricSet) {
	for _, e := range m.Entries() {
		if e.Group != nil {
			b.AddGroup(e.Name, *e.Group)
		} else {
			b.Add(e.Name, e.Value)
		}
	}
}

// display feeds a generated payload to the target's display command.
func display(gen func(src *workload.Source) string) func(benchmark.Target, *workload.Source) harness.Invocation {
	return func(t benchmark.Target, src *workload.Source) harness.Invocation {
		return harness.Invocation{Argv: t.Command, Payload: []byte(gen(src))}
	}
}

func static(s func() string) func(*workload.Source) string {
	return func(*workload.Source) string { return s() }
}

func command(argv ...string) func(benchmark.Target, *workload.Source) harness.Invocation {
	return func(benchmark.Target, *workload.Source) harness.Invocation {
		return harness.Invocation{Argv: argv}
	}
}

// metricFunc appends metrics derived from a payload and its timing samples (ms).
type metricFunc func(b *benchmark.MetricSetBuilder, payload []byte, samples []float64)

// perSecond is false when no positive duration was measured.
func perSecond(units, ms float64) (float64, bool) {
	if ms <= 0 {
		return 0, false
	}
	return units / (ms / 1000), true
}

func rates(units float64, samples []float64) ([]float64, bool) {
	out := make([]float64, len(samples))
	for i, ms := range samples {
		r, ok := perSecond(units, ms)
		if !ok {
			return nil, false
		}
		out[i] = r
	}
	return out, len(out) > 0
}

func timeMean(b *benchmark.MetricSetBuilder, _ []byte, samples []float64) {
	b.AddFloat("time_ms_mean", statistics.Mean(samples))
}

func timeStdev(b *benchmark.MetricSetBuilder, _ []byte, samples []float64) {
	b.AddFloat("time_ms_stdev", statistics.StdDev(samples))
}

func chars(b *benchmark.MetricSetBuilder, payload []byte, _ []float64) {
	b.AddInt("chars", int64(utf8.RuneCount(payload)))
}

func byteCount(b *benchmark.MetricSetBuilder, payload []byte, _ []float64) {
	b.AddInt("bytes", int64(len(payload)))
}

func lineCount(b *benchmark.MetricSetBuilder, payload []byte, _ []float64) {
	b.AddInt("lines", int64(bytes.Count(payload, []byte{'\n'})))
}

func charsPerSec(b *benchmark.MetricSetBuilder, payload []byte, samples []float64) {
	if r, ok := perSecond(float64(utf8.RuneCount(payload)), statistics.Mean(samples)); ok {
		b.AddFloat("chars_per_sec", r)
	}
}

func sequences(b *benchmark.MetricSetBuilder, payload []byte, _ []float64) {
	b.AddInt("sequences", int64(workload.EscapeCount(string(payload))))
}

func sequencesPerSec(b *benchmark.MetricSetBuilder, payload []byte, samples []float64) {
	n := workload.EscapeCount(string(payload))
	if r, ok := perSecond(float64(n), statistics.Mean(samples)); ok {
		b.AddFloat("sequences_per_sec", r)
	}
}

// rate reports mean and stdev of units/second under the given metric prefix.
func rate(prefix string, units float64) metricFunc {
	return func(b *benchmark.MetricSetBuilder, _ []byte, samples []float64) {
		r, ok := rates(units, samples)
		if !ok {
			return
		}
		b.AddFloat(prefix+"_mean", statistics.Mean(r))
		b.AddFloat(prefix+"_stdev", statistics.StdDev(r))
	}
}
