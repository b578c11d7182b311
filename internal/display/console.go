package display

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/moguls753/termbench/internal/benchmark"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	categoryStyle = cellStyle.Foreground(lipgloss.Color("214"))
	failedStyle   = cellStyle.Foreground(lipgloss.Color("196"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Lister is the part of the registry needed to print it.
type Lister interface {
	Categories() []string
	Category(category string) []benchmark.Descriptor
}

// List renders the benchmarks grouped by sorted category, names sorted within a
// category. A non-empty category restricts the listing; an unknown one is an
// *benchmark.UnknownCategoryError.
func List(reg Lister, category string) (string, error) {
	cats := reg.Categories()
	if category != "" {
		if len(reg.Category(category)) == 0 {
			return "", &benchmark.UnknownCategoryError{Category: category}
		}
		cats = []string{category}
	}

	var rows [][]string
	for _, cat := range cats {
		descs := reg.Category(cat)
		names := make([]string, 0, len(descs))
		byName := make(map[string]benchmark.Descriptor, len(descs))
		for _, d := range descs {
			names = append(names, d.Name)
			byName[d.Name] = d
		}
		slices.Sort(names)
		for i, name := range names {
			label := ""
			if i == 0 {
				label = cat
			}
			d := byName[name]
			rows = append(rows, []string{label, name, fmt.Sprint(d.DefaultRuns), d.Description})
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("CATEGORY", "BENCHMARK", "RUNS", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return categoryStyle
			}
			return cellStyle
		})
	return t.String(), nil
}

// Summary renders one line per suite with its completed and failed counts.
func Summary(suites []*benchmark.Suite) string {
	rows := make([][]string, 0, len(suites))
	for _, s := range suites {
		failed := make([]string, 0, len(s.Failures))
		for _, f := range s.Failures {
			failed = append(failed, f.Name)
		}
		rows = append(rows, []string{
			s.Terminal,
			fmt.Sprint(len(s.Results)),
			fmt.Sprint(len(s.Failures)),
			strings.Join(failed, ", "),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("TERMINAL", "COMPLETED", "FAILED", "FAILED BENCHMARKS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2 && rows[row][2] != "0":
				return failedStyle
			}
			return cellStyle
		})
	return t.String()
}
