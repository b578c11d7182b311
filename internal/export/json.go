package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/moguls753/termbench/internal/benchmark"
)

// EncodeSuite writes the suite in the persisted JSON schema.
func EncodeSuite(w io.Writer, suite *benchmark.Suite) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(suite); err != nil {
		return fmt.Errorf("failed to encode suite: %w", err)
	}
	return nil
}

// DecodeSuite reads a suite written by EncodeSuite.
func DecodeSuite(r io.Reader) (*benchmark.Suite, error) {
	var suite benchmark.Suite
	if err := json.NewDecoder(r).Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to decode suite: %w", err)
	}
	return &suite, nil
}

// LoadSuite reads a suite from a JSON file.
func LoadSuite(path string) (*benchmark.Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open suite: %w", err)
	}
	defer f.Close()
	return DecodeSuite(f)
}

// WriteJSON persists the suite as "{target}_{label}_{timestamp}.json".
func (w *Writer) WriteJSON(suite *benchmark.Suite, label string) (string, error) {
	name := FileName(suite.Terminal, label, suite.Timestamp, "", "json")
	return w.WriteFile(name, func(out io.Writer) error {
		return EncodeSuite(out, suite)
	})
}
