package display

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moguls753/termbench/internal/benchmark"
)

type order []string

func (o order) Order(name string) int {
	for i, n := range o {
		if n == name {
			return i
		}
	}
	return -1
}

var when = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func result(terminal, category, name string, m benchmark.MetricSet, raw ...float64) benchmark.Result {
	return benchmark.Result{Name: name, Category: category, Terminal: terminal, Timestamp: when, Runs: len(raw), Metrics: m, RawData: raw}
}

func floats(kv ...any) benchmark.MetricSet {
	b := benchmark.NewMetricSetBuilder()
	for i := 0; i < len(kv); i += 2 {
		b.AddFloat(kv[i].(string), kv[i+1].(float64))
	}
	return b.Build()
}

func suite(terminal string, results ...benchmark.Result) *benchmark.Suite {
	s := benchmark.NewSuite(terminal, benchmark.Environment{
		Host: "bench-host", OSInfo: "Linux 6.1", CPUInfo: "Test CPU", MemoryGB: 15.6, Timestamp: when,
	})
	s.Results = append(s.Results, results...)
	return s
}

func TestReport(t *testing.T) {
	echo := benchmark.NewMetricSetBuilder().AddFloat("mean", 1.23456).AddText("unit", "ms").Build()
	s := suite("kitty",
		result("kitty", "throughput", "throughput_lines", floats("lines_per_sec_mean", 1000.0)),
		result("kitty", "latency", "latency_echo", benchmark.NewMetricSetBuilder().AddGroup("echo", echo).Build()),
		result("kitty", "throughput", "throughput_raw", floats("time_ms_mean", 2.0)),
	)
	s.Results[1].Metadata = map[string]string{"failed_runs": "2", "failed_cases": "printf_1chars"}
	s.Failures = []benchmark.Failure{{Name: "memory_usage", Category: "resources", Err: errors.New("no running process")}}

	doc := Report(s, order{"throughput_raw", "throughput_lines", "latency_echo"})

	assert.True(t, strings.HasPrefix(doc, "# Comprehensive Terminal Benchmark Report\n"))
	assert.Contains(t, doc, "- **Terminal:** kitty\n")
	assert.Contains(t, doc, "- **Memory:** 15.6 GB\n")
	assert.Contains(t, doc, "- **Date:** 2024-05-06T07:08:09Z\n")
	assert.Contains(t, doc, "**echo:**\n  - mean: 1.235\n  - unit: ms\n")
	assert.Contains(t, doc, "*Metadata:*\n- failed_cases: printf_1chars\n- failed_runs: 2\n")
	assert.Contains(t, doc, "## Failed Benchmarks\n\n- **memory_usage** (resources): no running process\n")

	// categories sorted; registration order inside a category
	latency := strings.Index(doc, "## Latency Benchmarks")
	throughput := strings.Index(doc, "## Throughput Benchmarks")
	raw := strings.Index(doc, "### throughput_raw")
	lines := strings.Index(doc, "### throughput_lines")
	require.Positive(t, latency)
	assert.Less(t, latency, throughput)
	assert.Less(t, throughput, raw)
	assert.Less(t, raw, lines)
}

func TestReportWithoutRanker(t *testing.T) {
	s := suite("wezterm",
		result("wezterm", "special", "powerline", floats("chars", 10.0)),
		result("wezterm", "special", "braille", floats("chars", 256.0)),
	)
	doc := Report(s, nil)
	assert.Less(t, strings.Index(doc, "### powerline"), strings.Index(doc, "### braille"))
	assert.NotContains(t, doc, "Failed Benchmarks")
}

func TestBuildComparisonMissingCells(t *testing.T) {
	a := suite("alacritty",
		result("alacritty", "unicode", "unicode_cjk", floats("chars", 100.0, "time_ms_mean", 4.5)),
		result("alacritty", "ansi", "ansi_colors", floats("sequences", 12.0)),
	)
	b := suite("kitty",
		result("kitty", "unicode", "unicode_cjk", floats("chars", 100.0, "chars_per_sec", 22222.2222)),
	)

	table := BuildComparison([]*benchmark.Suite{a, b}, nil)
	assert.Equal(t, []string{"alacritty", "kitty"}, table.Targets)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "ansi_colors", table.Rows[0].Name)
	assert.Equal(t, []string{"chars", "time_ms_mean", "chars_per_sec"}, table.Rows[1].Names)

	_, ok := table.Rows[0].Cell("kitty", "sequences")
	assert.False(t, ok)

	doc := Comparison(table, when)
	assert.Contains(t, doc, "**Generated:** 2024-05-06T07:08:09Z")
	assert.Contains(t, doc, "- **kitty** (Linux 6.1)")
	assert.Contains(t, doc, "## Ansi: ansi_colors\n\n| Metric | alacritty | kitty |\n|--------| ------ | ------ |\n| sequences | 12.00 | N/A |\n")
	assert.Contains(t, doc, "| time_ms_mean | 4.50 | N/A |\n")
	assert.Contains(t, doc, "| chars_per_sec | N/A | 22222.22 |\n")
	assert.NotContains(t, doc, "Statistical Comparisons")
}

func TestComparisonRowOrderUsesRanker(t *testing.T) {
	a := suite("a",
		result("a", "special", "braille", floats("x", 1.0)),
		result("a", "special", "box_drawing", floats("x", 1.0)),
	)
	table := BuildComparison([]*benchmark.Suite{a}, order{"box_drawing", "braille"})
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "box_drawing", table.Rows[0].Name)

	table = BuildComparison([]*benchmark.Suite{a}, order{"braille", "box_drawing"})
	assert.Equal(t, "braille", table.Rows[0].Name)
}

func TestComparisonSignificance(t *testing.T) {
	fast := []float64{10, 11, 12, 10, 11, 12, 10, 11}
	slow := []float64{20, 21, 22, 20, 21, 22, 20, 21}
	a := suite("a", result("a", "latency", "latency_echo", floats("mean", 11.0), fast...))
	b := suite("b", result("b", "latency", "latency_echo", floats("mean", 21.0), slow...))
	c := suite("c", result("c", "latency", "latency_echo", floats("mean", 11.0)))

	doc := Comparison(BuildComparison([]*benchmark.Suite{c, a, b}, nil), when)
	assert.Contains(t, doc, "## Statistical Comparisons\n\n### latency_echo (vs a)\n")
	assert.Contains(t, doc, "| a vs b | +90.9% |")
	assert.Contains(t, doc, "| 7.7% / 4.0% | No | No overlap |")
	assert.NotContains(t, doc, "vs c")
}

func newRegistry(t *testing.T) *benchmark.Registry {
	t.Helper()
	noop := benchmark.ExecutorFunc(func(context.Context, benchmark.Target, int) (*benchmark.Outcome, error) {
		return &benchmark.Outcome{}, nil
	})
	reg, err := benchmark.NewRegistry(
		benchmark.Descriptor{Name: "throughput_raw", Category: "throughput", Description: "Raw ASCII", DefaultRuns: 5, Executor: noop},
		benchmark.Descriptor{Name: "latency_echo", Category: "latency", Description: "Echo round trip", DefaultRuns: 100, Executor: noop},
		benchmark.Descriptor{Name: "throughput_lines", Category: "throughput", Description: "Lines", DefaultRuns: 5, Executor: noop},
	)
	require.NoError(t, err)
	return reg
}

func TestList(t *testing.T) {
	reg := newRegistry(t)

	out, err := List(reg, "")
	require.NoError(t, err)
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "Echo round trip")
	assert.Less(t, strings.Index(out, "latency_echo"), strings.Index(out, "throughput_lines"))
	assert.Less(t, strings.Index(out, "throughput_lines"), strings.Index(out, "throughput_raw"))

	out, err = List(reg, "latency")
	require.NoError(t, err)
	assert.NotContains(t, out, "throughput_raw")

	_, err = List(reg, "nope")
	var unknown *benchmark.UnknownCategoryError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Category)
}

func TestSummary(t *testing.T) {
	s := suite("kitty", result("kitty", "special", "braille", floats("chars", 1.0)))
	s.Failures = []benchmark.Failure{{Name: "memory_usage", Category: "resources", Err: errors.New("x")}}

	out := Summary([]*benchmark.Suite{s})
	assert.Contains(t, out, "TERMINAL")
	assert.Contains(t, out, "kitty")
	assert.Contains(t, out, "memory_usage")
}
