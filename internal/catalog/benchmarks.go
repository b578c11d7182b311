package catalog

import (
	"fmt"
	"strings"

	"github.com/moguls753/termbench/internal/benchmark"
	"github.com/moguls753/termbench/internal/harness"
	"github.com/moguls753/termbench/internal/workload"
)

const (
	categoryThroughput = "throughput"
	categoryLatency    = "latency"
	categoryUnicode    = "unicode"
	categoryANSI       = "ansi"
	categorySpecial    = "special"
	categorySimulation = "simulation"
	categoryResources  = "resources"
)

// Descriptors returns the built-in benchmarks in registration order.
func (c *Catalog) Descriptors() []benchmark.Descriptor {
	return []benchmark.Descriptor{
		c.descriptor("throughput_raw", categoryThroughput, "Raw ASCII throughput at 1-50 MB", defaultRuns, throughputRaw()...),
		c.descriptor("throughput_lines", categoryThroughput, "Line throughput at 1k-100k lines", defaultRuns, throughputLines()...),
		c.descriptor("throughput_varied", categoryThroughput, "10k lines of varied length", defaultRuns,
			subCase{
				name:   "varied_lines_10k",
				invoke: display(func(src *workload.Source) string { return src.VariedLines(10000) }),
				shape:  []metricFunc{timeMean, timeStdev},
				raw:    true,
			}),

		c.descriptor("latency_echo", categoryLatency, "Process round trip of echo and printf", defaultLatencyRuns, latencyEcho()...),
		c.descriptor("latency_sequential", categoryLatency, "10 sequential 'true' commands", defaultRuns,
			subCase{
				name:   "sequential",
				invoke: func(benchmark.Target, *workload.Source) harness.Invocation {
					return harness.Invocation{Argv: []string{"true"}, Repeat: 10}
				},
				summary: true,
				flat:    true,
				raw:     true,
			}),

		c.descriptor("unicode_emoji", categoryUnicode, "Emoji: basic, variation selectors, ZWJ, skin tones, flags", defaultRuns,
			emoji("basic", workload.EmojiBasic),
			emoji("variation_selectors", workload.EmojiVariationSelectors),
			emoji("zwj_sequences", workload.EmojiZWJ),
			emoji("skin_tones", workload.EmojiSkinTones),
			emoji("flags", workload.EmojiFlags),
		),
		c.descriptor("unicode_cjk", categoryUnicode, "Chinese, Japanese and Korean text", defaultRuns,
			single("cjk", static(workload.CJK), chars, byteCount, timeMean, charsPerSec)),
		c.descriptor("unicode_surrogate", categoryUnicode, "Characters outside the BMP", defaultRuns,
			single("surrogate_pairs", static(workload.SurrogatePairs), chars, byteCount, timeMean, charsPerSec)),
		c.descriptor("unicode_combining", categoryUnicode, "Combining diacritics and grapheme clusters", defaultRuns,
			subCase{name: "combining_diacritics", invoke: display(static(workload.CombiningCharacters)), shape: []metricFunc{chars, byteCount, timeMean}},
			subCase{name: "grapheme_clusters", invoke: display(static(workload.GraphemeClusters)), shape: []metricFunc{chars, byteCount, timeMean}},
		),

		c.descriptor("ansi_colors", categoryANSI, "16, 256 and truecolor SGR sequences", defaultRuns,
			ansiColors("16_colors", static(workload.ANSI16Colors)),
			ansiColors("256_colors", static(workload.ANSI256Colors)),
			ansiColors("truecolor", func(src *workload.Source) string { return src.ANSITruecolor() }),
		),
		c.descriptor("ansi_attributes", categoryANSI, "Text attributes and their combinations", defaultRuns,
			single("attributes", static(workload.ANSIAttributes), sequences, timeMean)),
		c.descriptor("ansi_cursor", categoryANSI, "Cursor movement and scroll regions", defaultRuns,
			subCase{
				name:   "cursor_movements",
				invoke: display(func(src *workload.Source) string { return src.ANSICursorMovements() }),
				shape:  []metricFunc{sequences, timeMean},
			},
			subCase{name: "scroll_regions", invoke: display(static(workload.ANSIScrollRegions)), shape: []metricFunc{sequences, timeMean}},
		),

		c.descriptor("box_drawing", categorySpecial, "Light, heavy, double and rounded boxes", defaultRuns,
			single("box_drawing", static(workload.BoxDrawing), chars, timeMean)),
		c.descriptor("block_elements", categorySpecial, "Shades and block elements", defaultRuns,
			single("block_elements", func(src *workload.Source) string { return src.BlockElements() }, chars, timeMean)),
		c.descriptor("powerline", categorySpecial, "Powerline and Nerd Font glyphs", defaultRuns,
			single("powerline", static(workload.Powerline), chars, timeMean)),
		c.descriptor("braille", categorySpecial, "All 256 braille patterns", defaultRuns,
			single("braille", static(workload.Braille), chars, timeMean)),
		c.descriptor("math_symbols", categorySpecial, "Mathematical operators", defaultRuns,
			single("math_symbols", static(workload.MathSymbols), chars, timeMean)),

		c.descriptor("simulation_compiler", categorySimulation, "Compiler diagnostics", defaultRuns,
			single("compiler_output", func(src *workload.Source) string { return src.CompilerOutput() }, lineCount, byteCount, timeMean)),
		c.descriptor("simulation_logs", categorySimulation, "Colored application log", defaultRuns,
			single("log_output", func(src *workload.Source) string { return src.LogOutput() }, lineCount, byteCount, timeMean)),
		c.descriptor("simulation_git_diff", categorySimulation, "Colored git diff", defaultRuns,
			single("git_diff", func(src *workload.Source) string { return src.GitDiff() }, lineCount, byteCount, timeMean)),
		c.descriptor("simulation_htop", categorySimulation, "htop-like process table", defaultRuns,
			single("htop_simulation", func(src *workload.Source) string { return src.Htop() }, lineCount, byteCount, timeMean)),
		c.descriptor("simulation_vim", categorySimulation, "Syntax-highlighted editor screen", defaultRuns,
			single("vim_simulation", func(src *workload.Source) string { return src.VimScreen() }, lineCount, byteCount, timeMean)),
		c.descriptor("simulation_progress", categorySimulation, "Carriage-return progress bars", defaultRuns,
			single("progress_bars", static(workload.ProgressBars), lineCount, byteCount, timeMean)),
		c.descriptor("simulation_mixed", categorySimulation, "Interleaved mix of the simulations", defaultRuns,
			single("mixed_workload", func(src *workload.Source) string { return src.Mixed() }, byteCount, timeMean)),

		c.memoryUsage(),
		c.cpuUsage(),
	}
}

// single is a benchmark's only sub-case; its samples are kept as raw data.
func single(name string, gen func(*workload.Source) string, shape ...metricFunc) subCase {
	return subCase{name: name, invoke: display(gen), shape: shape, raw: true}
}

func emoji(name string, gen func() string) subCase {
	return subCase{
		name:   name,
		invoke: display(static(gen)),
		shape:  []metricFunc{chars, byteCount, timeMean, timeStdev, charsPerSec},
	}
}

func ansiColors(name string, gen func(*workload.Source) string) subCase {
	return subCase{name: name, invoke: display(gen), shape: []metricFunc{sequences, timeMean, sequencesPerSec}}
}

func throughputRaw() []subCase {
	var cases []subCase
	for _, mb := range []int{1, 5, 10, 25, 50} {
		cases = append(cases, subCase{
			name:   fmt.Sprintf("%dMB", mb),
			invoke: func(t benchmark.Target, src *workload.Source) harness.Invocation {
				return harness.Invocation{Argv: t.Command, Payload: src.RandomASCII(mb << 20)}
			},
			shape: []metricFunc{rate("throughput_mbps", float64(mb)), timeMean},
		})
	}
	return cases
}

func throughputLines() []subCase {
	var cases []subCase
	for _, n := range []int{1000, 5000, 10000, 50000, 100000} {
		cases = append(cases, subCase{
			name:   fmt.Sprintf("%d_lines", n),
			invoke: display(static(func() string { return workload.Lines(n, 80) })),
			shape:  []metricFunc{rate("lines_per_sec", float64(n)), timeMean},
		})
	}
	return cases
}

func latencyEcho() []subCase {
	cases := []subCase{{name: "echo", invoke: command("echo", "x"), summary: true, raw: true}}
	for _, size := range []int{1, 10, 80, 200} {
		cases = append(cases, subCase{
			name:    fmt.Sprintf("printf_%dchars", size),
			invoke:  command("printf", "%s", strings.Repeat("x", size)),
			summary: true,
		})
	}
	return cases
}
