package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestList(t *testing.T) {
	code, out, _ := runCLI(t, "--list")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "throughput_raw")
	assert.Contains(t, out, "latency_echo")
}

func TestListCategory(t *testing.T) {
	code, out, _ := runCLI(t, "--list", "--benchmark", "unicode")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "unicode_cjk")
	assert.NotContains(t, out, "throughput_raw")
}

func TestListUnknownCategory(t *testing.T) {
	code, _, stderr := runCLI(t, "--list", "--benchmark", "nope")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "nothing to list")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"--frobnicate"}},
		{name: "positional argument", args: []string{"kitty"}},
		{name: "negative runs", args: []string{"--runs", "-1"}},
		{name: "bad label", args: []string{"--label", "a/b"}},
		{name: "terminal outside output dir", args: []string{"--terminal", "../x"}},
		{name: "compare one terminal", args: []string{"--compare", "--terminal", "kitty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestNoValidBenchmarks(t *testing.T) {
	code, _, stderr := runCLI(t, "--terminal", "kitty", "--benchmark", "zzz")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "zzz")
}

func TestRunWritesReport(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	code, out, stderr := runCLI(t, "--terminal", "kitty", "--benchmark", "braille", "--runs", "2", "--json", "--output", "results")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, "kitty")

	entries, err := os.ReadDir("results")
	require.NoError(t, err)
	var exts []string
	for _, e := range entries {
		assert.True(t, strings.HasPrefix(e.Name(), "kitty_comprehensive_"), e.Name())
		exts = append(exts, filepath.Ext(e.Name()))
	}
	assert.ElementsMatch(t, []string{".md", ".json"}, exts)
}

func TestInterruptedExitCode(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := execute(ctx, []string{"--terminal", "kitty", "--benchmark", "braille"}, &stdout, &stderr)
	assert.Equal(t, exitInterrupted, code)
}
