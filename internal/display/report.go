// Package display renders suites as Markdown documents and console tables.
package display

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/moguls753/termbench/internal/benchmark"
)

const (
	// Missing marks a comparison cell for a benchmark or metric a target did not produce.
	Missing = "N/A"
	// Separator joins nested metric names.
	Separator = "/"

	reportPrecision     = 3
	comparisonPrecision = 2
)

// Ranker gives the registration position of a benchmark name, -1 when unknown.
type Ranker interface {
	Order(name string) int
}

// Report renders one suite: categories sorted by name, results within a category in
// registration order, nested metric groups flattened one level.
func Report(suite *benchmark.Suite, ranker Ranker) string {
	var b strings.Builder
	b.WriteString("# Comprehensive Terminal Benchmark Report\n\n")
	b.WriteString("## System Information\n")
	fmt.Fprintf(&b, "- **Terminal:** %s\n", suite.Terminal)
	fmt.Fprintf(&b, "- **Host:** %s\n", suite.Host)
	fmt.Fprintf(&b, "- **OS:** %s\n", suite.OSInfo)
	fmt.Fprintf(&b, "- **CPU:** %s\n", suite.CPUInfo)
	fmt.Fprintf(&b, "- **Memory:** %.1f GB\n", suite.MemoryGB)
	fmt.Fprintf(&b, "- **Date:** %s\n\n", suite.Timestamp.Format(time.RFC3339))

	for _, category := range categories(suite.Results) {
		fmt.Fprintf(&b, "## %s Benchmarks\n\n", title(category))
		for _, r := range inCategory(suite.Results, category, ranker) {
			fmt.Fprintf(&b, "### %s\n\n", r.Name)
			writeMetrics(&b, r.Metrics)
			if len(r.Metadata) > 0 {
				writeMetadata(&b, r.Metadata)
			}
			b.WriteString("\n")
		}
	}

	if len(suite.Failures) > 0 {
		b.WriteString("## Failed Benchmarks\n\n")
		for _, f := range suite.Failures {
			fmt.Fprintf(&b, "- **%s** (%s): %v\n", f.Name, f.Category, f.Err)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeMetrics(b *strings.Builder, m benchmark.MetricSet) {
	for _, e := range m.Entries() {
		if e.Group == nil {
			fmt.Fprintf(b, "- %s: %s\n", e.Name, e.Value.Format(reportPrecision))
			continue
		}
		fmt.Fprintf(b, "**%s:**\n", e.Name)
		for _, f := range e.Group.Flatten(Separator) {
			fmt.Fprintf(b, "  - %s: %s\n", f.Name, f.Value.Format(reportPrecision))
		}
	}
}

func writeMetadata(b *strings.Builder, md map[string]string) {
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	b.WriteString("\n*Metadata:*\n")
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %s\n", k, md[k])
	}
}

func categories(results []benchmark.Result) []string {
	var cats []string
	for _, r := range results {
		if !slices.Contains(cats, r.Category) {
			cats = append(cats, r.Category)
		}
	}
	slices.Sort(cats)
	return cats
}

func inCategory(results []benchmark.Result, category string, ranker Ranker) []benchmark.Result {
	var out []benchmark.Result
	for _, r := range results {
		if r.Category == category {
			out = append(out, r)
		}
	}
	if ranker != nil {
		slices.SortStableFunc(out, func(a, b benchmark.Result) int {
			return compareRank(ranker.Order(a.Name), ranker.Order(b.Name))
		})
	}
	return out
}

// compareRank orders known positions first; unknown names (-1) keep their order at the end.
func compareRank(a, b int) int {
	switch {
	case a < 0 && b < 0:
		return 0
	case a < 0:
		return 1
	case b < 0:
		return -1
	}
	return cmp.Compare(a, b)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
