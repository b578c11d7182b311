// Package config loads termbench settings from .env, a YAML file, TERMBENCH_*
// environment variables and bound command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/moguls753/termbench/internal/benchmark"
	"github.com/moguls753/termbench/internal/harness"
	"github.com/moguls753/termbench/internal/sysinfo"
)

const (
	EnvPrefix = "TERMBENCH"
	// SelectAll selects every configured or detected terminal.
	SelectAll = "all"
)

type TargetConfig struct {
	Command   []string `mapstructure:"command"`
	Processes []string `mapstructure:"processes"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Terminals          []string                `mapstructure:"terminals"`
	Benchmarks         []string                `mapstructure:"benchmarks"`
	OutputDir          string                  `mapstructure:"output_dir"`
	Runs               int                     `mapstructure:"runs"`
	Timeout            time.Duration           `mapstructure:"timeout"`
	MaxFailureFraction float64                 `mapstructure:"max_failure_fraction"`
	SuiteLabel         string                  `mapstructure:"suite_label"`
	Parallel           int                     `mapstructure:"parallel"`
	JSON               bool                    `mapstructure:"json"`
	CSV                bool                    `mapstructure:"csv"`
	Compare            bool                    `mapstructure:"compare"`
	NoClean            bool                    `mapstructure:"no_clean"`
	DefaultCommand     []string                `mapstructure:"default_command"`
	Targets            map[string]TargetConfig `mapstructure:"targets"`
	Store              StoreConfig             `mapstructure:"store"`
	Metrics            MetricsConfig           `mapstructure:"metrics"`
	Log                LogConfig               `mapstructure:"log"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("terminals", []string{SelectAll})
	v.SetDefault("benchmarks", []string{benchmark.SelectAll})
	v.SetDefault("output_dir", "benchmark_results")
	v.SetDefault("runs", 0)
	v.SetDefault("timeout", harness.DefaultTimeout)
	v.SetDefault("max_failure_fraction", 1.0)
	v.SetDefault("suite_label", "comprehensive")
	v.SetDefault("parallel", 1)
	v.SetDefault("json", false)
	v.SetDefault("csv", false)
	v.SetDefault("compare", false)
	v.SetDefault("no_clean", false)
	v.SetDefault("default_command", []string{"cat"})
	v.SetDefault("store.driver", "")
	v.SetDefault("store.dsn", "")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.level", "info")
}

// Load reads the configuration into v and validates it. cfgFile, when set, must
// exist; otherwise termbench.yaml is looked up in the working directory and in
// $HOME/.config/termbench.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("termbench")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "termbench"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Terminals = splitList(cfg.Terminals)
	cfg.Benchmarks = splitList(cfg.Benchmarks)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidationError lists every invalid setting.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

var labelPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// namePattern keeps terminal names usable as file name prefixes inside output_dir.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(c.Terminals) == 0 {
		add("no terminal selected")
	}
	if len(c.Benchmarks) == 0 {
		add("no benchmark selected")
	}
	if c.OutputDir == "" {
		add("output_dir is empty")
	}
	if c.Runs < 0 {
		add("runs must be >= 0, got %d", c.Runs)
	}
	if c.Timeout <= 0 {
		add("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxFailureFraction <= 0 || c.MaxFailureFraction > 1 {
		add("max_failure_fraction must be in (0, 1], got %g", c.MaxFailureFraction)
	}
	if !labelPattern.MatchString(c.SuiteLabel) {
		add("suite_label %q must match %s", c.SuiteLabel, labelPattern)
	}
	if c.Parallel < 1 {
		add("parallel must be >= 1, got %d", c.Parallel)
	}
	if len(c.DefaultCommand) == 0 {
		add("default_command is empty")
	}
	for _, name := range c.Terminals {
		if name != SelectAll && !namePattern.MatchString(name) {
			add("terminal %q: name must match %s", name, namePattern)
		}
	}
	for name, t := range c.Targets {
		if !namePattern.MatchString(name) {
			add("target %q: name must match %s", name, namePattern)
		}
		if len(t.Command) == 0 && len(c.DefaultCommand) == 0 {
			add("target %q: no command", name)
		}
	}
	switch c.Store.Driver {
	case "":
	case "postgres", "sqlite":
		if c.Store.DSN == "" {
			add("store.dsn is required for driver %s", c.Store.Driver)
		}
	default:
		add("store.driver %q is not one of postgres, sqlite", c.Store.Driver)
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		add("log.level %q is not one of %s", c.Log.Level, strings.Join(logLevels, ", "))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// TargetNames resolves the terminal selection. "all" means every configured target,
// or the detected emulators when none is configured.
func (c *Config) TargetNames(detect func() []string) []string {
	if !slices.Contains(c.Terminals, SelectAll) {
		return slices.Clone(c.Terminals)
	}
	if len(c.Targets) > 0 {
		names := make([]string, 0, len(c.Targets))
		for name := range c.Targets {
			names = append(names, name)
		}
		slices.Sort(names)
		return names
	}
	return detect()
}

// Target returns the display command and process patterns for a terminal.
func (c *Config) Target(name string) benchmark.Target {
	t := benchmark.Target{Name: name, Command: slices.Clone(c.DefaultCommand)}
	if tc, ok := c.Targets[name]; ok {
		if len(tc.Command) > 0 {
			t.Command = slices.Clone(tc.Command)
		}
		t.Processes = slices.Clone(tc.Processes)
	}
	if len(t.Processes) == 0 {
		t.Processes = sysinfo.DefaultProcesses(name)
	}
	return t
}

// splitList accepts both repeated values and comma-separated tokens.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, tok := range strings.Split(item, ",") {
			if tok = strings.TrimSpace(tok); tok != "" && !slices.Contains(out, tok) {
				out = append(out, tok)
			}
		}
	}
	return out
}
