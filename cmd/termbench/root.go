package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/moguls753/termbench/internal/benchmark"
	"github.com/moguls753/termbench/internal/catalog"
	"github.com/moguls753/termbench/internal/config"
	"github.com/moguls753/termbench/internal/display"
	"github.com/moguls753/termbench/internal/harness"
	"github.com/moguls753/termbench/internal/runner"
	"github.com/moguls753/termbench/internal/store"
	"github.com/moguls753/termbench/internal/sysinfo"
	"github.com/moguls753/termbench/internal/telemetry"
)

type options struct {
	cfgFile string
	list    bool
	verbose bool
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = []struct{ flag, key string }{
	{"terminal", "terminals"},
	{"benchmark", "benchmarks"},
	{"output", "output_dir"},
	{"runs", "runs"},
	{"json", "json"},
	{"csv", "csv"},
	{"compare", "compare"},
	{"no-clean", "no_clean"},
	{"parallel", "parallel"},
	{"timeout", "timeout"},
	{"label", "suite_label"},
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	var opts options

	cmd := &cobra.Command{
		Use:   "termbench",
		Short: "Benchmark terminal emulator throughput, latency and rendering",
		Long: `termbench pipes generated payloads (bulk text, unicode, ANSI sequences and
simulated application output) through each terminal's display command, times every
run and writes a Markdown report per terminal, with optional JSON, CSV and a
side-by-side comparison.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), v, opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addFlags(cmd.Flags(), &opts)
	for _, fk := range flagKeys {
		if err := v.BindPFlag(fk.key, cmd.Flags().Lookup(fk.flag)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func addFlags(f *pflag.FlagSet, opts *options) {
	f.StringSliceP("terminal", "t", nil, "terminals to benchmark: all or a comma list (default all)")
	f.StringSliceP("benchmark", "b", nil, "benchmarks to run: all, a category or a comma list of names (default all)")
	f.StringP("output", "o", "benchmark_results", "output directory")
	f.IntP("runs", "r", 0, "runs per test (0 uses each benchmark's default)")
	f.Bool("json", false, "also write JSON results")
	f.Bool("csv", false, "also write CSV metrics and raw runs")
	f.Bool("compare", false, "write a comparison document (needs at least two terminals)")
	f.Bool("no-clean", false, "keep result files from previous runs")
	f.Int("parallel", 1, "terminals benchmarked concurrently")
	f.Duration("timeout", harness.DefaultTimeout, "timeout of a single invocation")
	f.String("label", "comprehensive", "suite label used in file names")
	f.BoolVar(&opts.list, "list", false, "list available benchmarks by category")
	f.StringVar(&opts.cfgFile, "config", "", "config file (default ./termbench.yaml or ~/.config/termbench/termbench.yaml)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
}

func run(ctx context.Context, v *viper.Viper, opts options, stdout, stderr io.Writer) error {
	cfg, err := config.Load(v, opts.cfgFile)
	if err != nil {
		return &ExitError{Code: exitUsage, Err: err}
	}
	level := cfg.Log.Level
	if opts.verbose {
		level = "debug"
	}
	logger, err := telemetry.NewLogger(stderr, level)
	if err != nil {
		return &ExitError{Code: exitUsage, Err: err}
	}
	probe := sysinfo.New(logger)

	reg, err := catalog.New(nil, probe).Registry()
	if err != nil {
		return &ExitError{Code: exitFailure, Err: err}
	}
	if opts.list {
		return list(reg, cfg.Benchmarks, logger, stdout)
	}

	sel := reg.Select(cfg.Benchmarks)
	for _, err := range sel.Errors() {
		logger.Warn("skipping selection", "err", err)
	}
	if len(sel.Descriptors) == 0 {
		return &ExitError{Code: exitFailure, Err: benchmark.ErrNoBenchmarks}
	}
	selected := make([]string, 0, len(sel.Descriptors))
	for _, d := range sel.Descriptors {
		selected = append(selected, d.Name)
	}

	names := cfg.TargetNames(sysinfo.DetectTerminals)
	if len(names) == 0 {
		return &ExitError{Code: exitFailure, Err: errors.New("no terminal detected; select one with --terminal")}
	}
	if cfg.Compare && len(names) < 2 {
		return &ExitError{Code: exitUsage, Err: errors.New("--compare needs at least two terminals")}
	}
	targets := make([]benchmark.Target, 0, len(names))
	for _, name := range names {
		targets = append(targets, cfg.Target(name))
	}
	logger.Info("selected", "terminals", strings.Join(names, ","), "benchmarks", len(selected))

	sweep := &runner.Sweep{
		Config:  cfg,
		Factory: selectedFactory(probe, selected),
		Ranker:  reg,
		Probe:   probe,
		Metrics: telemetry.NewMetrics(),
		Logger:  logger,
	}
	if cfg.Store.Driver != "" {
		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return &ExitError{Code: exitFailure, Err: err}
		}
		defer st.Close()
		sweep.Store = st
	}

	summary, err := sweep.Run(ctx, targets)
	if summary != nil {
		fmt.Fprintln(stdout, display.Summary(summary.Suites))
	}
	switch {
	case errors.Is(err, context.Canceled):
		return &ExitError{Code: exitInterrupted, Err: errors.New("interrupted; partial results were saved")}
	case err != nil:
		return &ExitError{Code: exitFailure, Err: err}
	case len(summary.Empty) > 0:
		return &ExitError{Code: exitFailure, Err: fmt.Errorf("no results for: %s", strings.Join(summary.Empty, ", "))}
	}
	return nil
}

// selectedFactory rebuilds the catalog around each target's harness and keeps the
// benchmarks chosen up front, in registration order.
func selectedFactory(probe catalog.Prober, names []string) runner.Factory {
	return func(h *harness.Harness) ([]benchmark.Descriptor, error) {
		reg, err := catalog.New(h, probe).Registry()
		if err != nil {
			return nil, err
		}
		descs := make([]benchmark.Descriptor, 0, len(names))
		for _, name := range names {
			d, ok := reg.Lookup(name)
			if !ok {
				return nil, &benchmark.UnknownBenchmarkError{Name: name}
			}
			descs = append(descs, d)
		}
		return descs, nil
	}
}

func list(reg *benchmark.Registry, tokens []string, logger *log.Logger, stdout io.Writer) error {
	category := ""
	if len(tokens) == 1 && tokens[0] != benchmark.SelectAll {
		category = tokens[0]
	}
	out, err := display.List(reg, category)
	var unknown *benchmark.UnknownCategoryError
	if errors.As(err, &unknown) {
		logger.Warn("nothing to list", "err", err, "categories", strings.Join(reg.Categories(), ","))
		return &ExitError{Code: exitFailure}
	}
	if err != nil {
		return &ExitError{Code: exitFailure, Err: err}
	}
	fmt.Fprintln(stdout, out)
	return nil
}
