package display

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/moguls753/termbench/internal/benchmark"
	"github.com/moguls753/termbench/internal/benchmark/statistics"
)

// ComparisonKey identifies a benchmark across suites.
type ComparisonKey struct {
	Category string
	Name     string
}

// ComparisonRow joins one benchmark across targets. A target that did not produce the
// benchmark has no entry in Metrics.
type ComparisonRow struct {
	ComparisonKey
	Metrics map[string]benchmark.MetricSet
	Raw     map[string][]float64
	// Names is the union of flattened metric names, in first-seen order.
	Names []string
}

// Cell returns the value of a flattened metric for a target.
func (r ComparisonRow) Cell(target, metric string) (benchmark.Value, bool) {
	m, ok := r.Metrics[target]
	if !ok {
		return benchmark.Value{}, false
	}
	return m.Lookup(metric, Separator)
}

// ComparisonTable is a read-only join of several suites.
type ComparisonTable struct {
	Targets []string
	// OSInfo per target, for the document header.
	OSInfo map[string]string
	Rows   []ComparisonRow
}

// BuildComparison joins suites by (category, benchmark name). Rows are ordered by
// category, then by registration order when ranker is non-nil, else by name.
func BuildComparison(suites []*benchmark.Suite, ranker Ranker) ComparisonTable {
	t := ComparisonTable{OSInfo: make(map[string]string)}
	rows := make(map[ComparisonKey]*ComparisonRow)

	for _, s := range suites {
		if !slices.Contains(t.Targets, s.Terminal) {
			t.Targets = append(t.Targets, s.Terminal)
		}
		t.OSInfo[s.Terminal] = s.OSInfo
		for _, r := range s.Results {
			key := ComparisonKey{Category: r.Category, Name: r.Name}
			row, ok := rows[key]
			if !ok {
				row = &ComparisonRow{
					ComparisonKey: key,
					Metrics:       make(map[string]benchmark.MetricSet),
					Raw:           make(map[string][]float64),
				}
				rows[key] = row
			}
			row.Metrics[s.Terminal] = r.Metrics
			if len(r.RawData) > 0 {
				row.Raw[s.Terminal] = r.RawData
			}
		}
	}

	for _, row := range rows {
		for _, target := range t.Targets {
			m, ok := row.Metrics[target]
			if !ok {
				continue
			}
			for _, f := range m.Flatten(Separator) {
				if !slices.Contains(row.Names, f.Name) {
					row.Names = append(row.Names, f.Name)
				}
			}
		}
		t.Rows = append(t.Rows, *row)
	}

	slices.SortFunc(t.Rows, func(a, b ComparisonRow) int {
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		if ranker != nil {
			if c := compareRank(ranker.Order(a.Name), ranker.Order(b.Name)); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return t
}

// Comparison renders the table as a Markdown document. Cells a target did not produce
// show Missing, never zero.
func Comparison(t ComparisonTable, generated time.Time) string {
	var b strings.Builder
	b.WriteString("# Comprehensive Terminal Benchmark Comparison\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", generated.Format(time.RFC3339))
	b.WriteString("## Terminals Compared\n\n")
	for _, target := range t.Targets {
		fmt.Fprintf(&b, "- **%s** (%s)\n", target, t.OSInfo[target])
	}
	b.WriteString("\n")

	for _, row := range t.Rows {
		fmt.Fprintf(&b, "## %s: %s\n\n", title(row.Category), row.Name)
		fmt.Fprintf(&b, "| Metric | %s |\n", strings.Join(t.Targets, " | "))
		fmt.Fprintf(&b, "|--------|%s|\n", strings.Repeat(" ------ |", len(t.Targets)))
		for _, name := range row.Names {
			cells := make([]string, len(t.Targets))
			for i, target := range t.Targets {
				cells[i] = Missing
				if v, ok := row.Cell(target, name); ok {
					cells[i] = v.Format(comparisonPrecision)
				}
			}
			fmt.Fprintf(&b, "| %s | %s |\n", name, strings.Join(cells, " | "))
		}
		b.WriteString("\n")
	}

	writeSignificance(&b, t)
	return b.String()
}

// writeSignificance compares the raw samples of every target against the first target
// that has them.
func writeSignificance(b *strings.Builder, t ComparisonTable) {
	var header bool
	for _, row := range t.Rows {
		var baseline string
		var others []string
		for _, target := range t.Targets {
			if _, ok := row.Raw[target]; !ok {
				continue
			}
			if baseline == "" {
				baseline = target
			} else {
				others = append(others, target)
			}
		}
		if len(others) == 0 {
			continue
		}
		if !header {
			b.WriteString("## Statistical Comparisons\n\n")
			header = true
		}

		fmt.Fprintf(b, "### %s (vs %s)\n\n", row.Name, baseline)
		b.WriteString("| Comparison | Median Diff | p-value | CV | Overlap? | Significant? |\n")
		b.WriteString("|------------|-------------|---------|----|----------|--------------|\n")
		for _, target := range others {
			c := statistics.Compare(row.Raw[baseline], row.Raw[target])
			overlap := "No"
			if c.HasOverlap {
				overlap = "Yes"
			}
			fmt.Fprintf(b, "| %s vs %s | %+.1f%% | %.4f | %.1f%% / %.1f%% | %s | %s |\n",
				baseline, target, c.MedianDiffPct, c.PValue, c.BaselineCV, c.OtherCV, overlap, c.Significance())
		}
		b.WriteString("\n")
	}
}
