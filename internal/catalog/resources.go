package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/moguls753/termbench/internal/benchmark"
	"github.com/moguls753/termbench/internal/benchmark/statistics"
	"github.com/moguls753/termbench/internal/harness"
	"github.com/moguls753/termbench/internal/workload"
)

const cpuPayloadSize = 10 << 20

// memoryUsage reports the resident memory of the target's processes.
func (c *Catalog) memoryUsage() benchmark.Descriptor {
	return benchmark.Descriptor{
		Name:        "memory_usage",
		Category:    categoryResources,
		Description: "Resident memory of the terminal processes",
		DefaultRuns: defaultRuns,
		Executor: benchmark.ExecutorFunc(func(ctx context.Context, target benchmark.Target, _ int) (*benchmark.Outcome, error) {
			if c.prober == nil {
				return nil, errors.New("no process prober configured")
			}
			patterns := target.Processes
			if len(patterns) == 0 {
				patterns = []string{target.Name}
			}

			procs := benchmark.NewMetricSetBuilder()
			var errs []error
			for _, pattern := range patterns {
				mb, ok, err := c.prober.ProcessMemoryMB(ctx, pattern)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", pattern, err))
					continue
				}
				if ok {
					procs.AddGroup(pattern, benchmark.NewMetricSetBuilder().AddFloat("memory_mb", mb).Build())
				}
			}
			found := procs.Build()
			if found.IsEmpty() {
				errs = append(errs, fmt.Errorf("no running process matches %s", strings.Join(patterns, ", ")))
				return nil, errors.Join(errs...)
			}
			return &benchmark.Outcome{
				Metrics: benchmark.NewMetricSetBuilder().AddGroup("processes", found).Build(),
			}, nil
		}),
	}
}

// cpuUsage samples system CPU utilisation before and after a 10 MB output.
func (c *Catalog) cpuUsage() benchmark.Descriptor {
	const name = "cpu_usage"
	return benchmark.Descriptor{
		Name:        name,
		Category:    categoryResources,
		Description: "System CPU before and after a 10 MB output",
		DefaultRuns: 1,
		Executor: benchmark.ExecutorFunc(func(ctx context.Context, target benchmark.Target, runs int) (*benchmark.Outcome, error) {
			if c.prober == nil {
				return nil, errors.New("no process prober configured")
			}
			before, err := c.prober.CPUPercent(ctx, c.cpuInterval)
			if err != nil {
				return nil, err
			}

			inv := harness.Invocation{
				Argv:    target.Command,
				Payload: workload.New(name).RandomASCII(cpuPayloadSize),
				Labels:  harness.Labels{Target: target.Name, Benchmark: name, Case: "output"},
			}
			m, err := c.harness.Measure(ctx, inv, runs)
			if err != nil {
				return nil, err
			}

			after, err := c.prober.CPUPercent(ctx, c.cpuInterval)
			if err != nil {
				return nil, err
			}
			return &benchmark.Outcome{
				Metrics: benchmark.NewMetricSetBuilder().
					AddFloat("cpu_before_percent", before).
					AddFloat("cpu_after_percent", after).
					AddFloat("output_time_ms", statistics.Mean(m.Samples)).
					Build(),
				RawData: m.Samples,
			}, nil
		}),
	}
}
