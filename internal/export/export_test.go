package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moguls753/termbench/internal/benchmark"
)

var stamp = time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC)

func testSuite() *benchmark.Suite {
	s := benchmark.NewSuite("kitty", benchmark.Environment{
		Host: "host", OSInfo: "Linux 6.1 (kernel 6.1.0, amd64)", CPUInfo: "CPU", MemoryGB: 31.2, Timestamp: stamp,
	})
	echo := benchmark.NewMetricSetBuilder().AddFloat("mean", 0.8).AddText("unit", "ms").Build()
	s.Results = append(s.Results,
		benchmark.Result{
			Name: "latency_echo", Category: "latency", Terminal: "kitty", Timestamp: stamp, Runs: 3,
			Metrics:  benchmark.NewMetricSetBuilder().AddGroup("echo", echo).Build(),
			RawData:  []float64{0.7, 0.8, 0.9},
			Metadata: map[string]string{},
		},
		benchmark.Result{
			Name: "box_drawing", Category: "special", Terminal: "kitty", Timestamp: stamp, Runs: 2,
			Metrics:  benchmark.NewMetricSetBuilder().AddInt("chars", 500).AddFloat("time_ms_mean", 3).Build(),
			RawData:  []float64{3, 3},
			Metadata: map[string]string{"failed_runs": "1"},
		},
	)
	return s
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "kitty_comprehensive_20240301_140509.json", FileName("kitty", "comprehensive", stamp, "", "json"))
	assert.Equal(t, "kitty_comprehensive_20240301_140509_raw.csv", FileName("kitty", "comprehensive", stamp, "_raw", "csv"))
	assert.Equal(t, "comparison_comprehensive_20240301_140509.md", ComparisonName("comprehensive", stamp))
}

func TestJSONRoundTrip(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)
	in := testSuite()

	path, err := w.WriteJSON(in, "comprehensive")
	require.NoError(t, err)
	assert.Equal(t, "kitty_comprehensive_20240301_140509.json", filepath.Base(path))

	out, err := LoadSuite(path)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out, cmpopts.IgnoreFields(benchmark.Suite{}, "Failures")); diff != "" {
		t.Errorf("suite mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeSuiteSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeSuite(&buf, testSuite()))
	doc := buf.String()
	for _, key := range []string{`"terminal": "kitty"`, `"os_info"`, `"memory_gb": 31.2`, `"raw_data"`, `"runs": 3`, `"failed_runs": "1"`} {
		assert.Contains(t, doc, key)
	}
	assert.NotContains(t, doc, `<`)
}

func TestWriteFileNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	first, err := w.WriteString("kitty_x_20240301_140509.md", "first")
	require.NoError(t, err)
	second, err := w.WriteString("kitty_x_20240301_140509.md", "second")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	assert.True(t, strings.HasPrefix(filepath.Base(second), "kitty_x_20240301_140509_"))
	assert.Equal(t, ".md", filepath.Ext(second))

	got, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))
	got, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestWriteFileRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	_, err = w.WriteFile("broken.md", func(io.Writer) error {
		return errors.New("render failed")
	})
	var perr *benchmark.PersistenceError
	require.ErrorAs(t, err, &perr)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCleanupOnlyRemovesResults(t *testing.T) {
	dir := t.TempDir()
	keep := []string{
		"notes.md",
		"kitty_comprehensive_notes.md",
		"kitty_other_20240301_140509.md",
		"kitty_comprehensive_20240301_140509.txt",
		"README",
	}
	remove := []string{
		"kitty_comprehensive_20240301_140509.md",
		"kitty_comprehensive_20240301_140509.json",
		"kitty_comprehensive_20240301_140509_raw.csv",
		"comparison_comprehensive_20240301_140509.md",
		"kitty_comprehensive_20240301_140509_01HV7Z6ZQ4K8M7M1X0Q5F1J9ZB.md",
		SummaryFile,
	}
	for _, name := range append(append([]string{}, keep...), remove...) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "kitty_comprehensive_20240301_140509.md.d"), 0o755))

	removed, err := Cleanup(dir, "comprehensive")
	require.NoError(t, err)
	assert.Len(t, removed, len(remove))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var left []string
	for _, e := range entries {
		if !e.IsDir() {
			left = append(left, e.Name())
		}
	}
	assert.ElementsMatch(t, keep, left)
}

func TestCleanupMissingDir(t *testing.T) {
	removed, err := Cleanup(filepath.Join(t.TempDir(), "absent"), "comprehensive")
	assert.NoError(t, err)
	assert.Empty(t, removed)
}

func TestCSV(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	paths, err := w.WriteCSV(testSuite(), "comprehensive")
	require.NoError(t, err)
	require.Len(t, paths, 2)

	rows := readCSV(t, paths[0])
	assert.Equal(t, []string{"Terminal", "Category", "Benchmark", "Metric", "Value"}, rows[0])
	assert.Contains(t, rows, []string{"kitty", "latency", "latency_echo", "echo/mean", "0.8"})
	assert.Contains(t, rows, []string{"kitty", "special", "box_drawing", "chars", "500"})

	raw := readCSV(t, paths[1])
	assert.Equal(t, []string{"Terminal", "Benchmark", "Run1", "Run2", "Run3"}, raw[0])
	assert.Equal(t, []string{"kitty", "latency_echo", "0.700", "0.800", "0.900"}, raw[1])
	assert.Equal(t, []string{"kitty", "box_drawing", "3.000", "3.000", ""}, raw[2])
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
