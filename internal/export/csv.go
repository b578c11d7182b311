package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/moguls753/termbench/internal/benchmark"
)

// MetricSeparator joins nested metric names in CSV output.
const MetricSeparator = "/"

// WriteMetricsCSV writes one row per flattened metric of every result.
func WriteMetricsCSV(w io.Writer, suite *benchmark.Suite) error {
	writer := csv.NewWriter(w)

	header := []string{"Terminal", "Category", "Benchmark", "Metric", "Value"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range suite.Results {
		for _, m := range r.Metrics.Flatten(MetricSeparator) {
			row := []string{r.Terminal, r.Category, r.Name, m.Name, m.Value.Format(-1)}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteRawCSV exports the raw samples (all individual runs) of every result that has them.
func WriteRawCSV(w io.Writer, suite *benchmark.Suite) error {
	writer := csv.NewWriter(w)

	// Determine max number of runs
	maxRuns := 0
	for _, r := range suite.Results {
		maxRuns = max(maxRuns, len(r.RawData))
	}

	// Header row: Terminal, Benchmark, Run1, Run2, ..., RunN
	header := []string{"Terminal", "Benchmark"}
	for i := 1; i <= maxRuns; i++ {
		header = append(header, fmt.Sprintf("Run%d", i))
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range suite.Results {
		if len(r.RawData) == 0 {
			continue
		}
		row := []string{r.Terminal, r.Name}
		for _, val := range r.RawData {
			row = append(row, fmt.Sprintf("%.3f", val))
		}
		// Pad with empty strings if this benchmark has fewer runs
		for len(row) < len(header) {
			row = append(row, "")
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSV persists the metrics and raw samples as two CSV files and returns their paths.
func (w *Writer) WriteCSV(suite *benchmark.Suite, label string) ([]string, error) {
	metrics, err := w.WriteFile(FileName(suite.Terminal, label, suite.Timestamp, "", "csv"), func(out io.Writer) error {
		return WriteMetricsCSV(out, suite)
	})
	if err != nil {
		return nil, err
	}
	raw, err := w.WriteFile(FileName(suite.Terminal, label, suite.Timestamp, "_raw", "csv"), func(out io.Writer) error {
		return WriteRawCSV(out, suite)
	})
	if err != nil {
		return []string{metrics}, err
	}
	return []string{metrics, raw}, nil
}
