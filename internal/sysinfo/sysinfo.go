// Package sysinfo reads host facts and per-process resource usage.
package sysinfo

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/moguls753/termbench/internal/benchmark"
)

const unknown = "Unknown"

// Probe queries the local host through gopsutil.
type Probe struct {
	logger *log.Logger
}

// New returns a host probe.
func New(logger *log.Logger) *Probe {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Probe{logger: logger}
}

// Environment snapshots the host. Individual lookups that fail degrade to
// "Unknown" instead of failing the snapshot.
func (p *Probe) Environment(ctx context.Context, now time.Time) benchmark.Environment {
	env := benchmark.Environment{
		Host:      unknown,
		OSInfo:    unknown,
		CPUInfo:   unknown,
		Timestamp: now,
	}

	if info, err := host.InfoWithContext(ctx); err != nil {
		p.logger.Warn("failed to read host info", "err", err)
	} else {
		env.Host = info.Hostname
		env.OSInfo = osInfo(info)
	}

	if cpus, err := cpu.InfoWithContext(ctx); err != nil {
		p.logger.Warn("failed to read cpu info", "err", err)
	} else if len(cpus) > 0 && cpus[0].ModelName != "" {
		env.CPUInfo = cpus[0].ModelName
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		p.logger.Warn("failed to read memory info", "err", err)
	} else {
		env.MemoryGB = float64(vm.Total) / (1 << 30)
	}
	return env
}

func osInfo(info *host.InfoStat) string {
	parts := []string{info.Platform, info.PlatformVersion}
	if info.Platform == "" {
		parts = []string{info.OS}
	}
	s := strings.TrimSpace(strings.Join(parts, " "))
	if info.KernelVersion != "" {
		s += fmt.Sprintf(" (kernel %s, %s)", info.KernelVersion, info.KernelArch)
	}
	return s
}

// ProcessMemoryMB returns the resident set size in MiB of the first process whose
// name contains pattern, case-insensitively. ok is false when nothing matches.
func (p *Probe) ProcessMemoryMB(ctx context.Context, pattern string) (mb float64, ok bool, err error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("list processes: %w", err)
	}
	needle := strings.ToLower(pattern)
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil || !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		info, err := proc.MemoryInfoWithContext(ctx)
		if err != nil {
			// exited or not readable; keep looking
			continue
		}
		return float64(info.RSS) / (1 << 20), true, nil
	}
	return 0, false, nil
}

// CPUPercent samples total CPU utilisation over interval.
func (p *Probe) CPUPercent(ctx context.Context, interval time.Duration) (float64, error) {
	pct, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		return 0, fmt.Errorf("sample cpu: %w", err)
	}
	if len(pct) == 0 {
		return 0, fmt.Errorf("sample cpu: no data")
	}
	return pct[0], nil
}

// emulator is a terminal that can be found on PATH or as a macOS app bundle.
type emulator struct {
	name   string
	binary string
	apps   []string
}

var emulators = []emulator{
	{name: "iterm2", apps: []string{"/Applications/iTerm.app"}},
	{name: "terminal", apps: []string{"/System/Applications/Utilities/Terminal.app"}},
	{name: "alacritty", binary: "alacritty", apps: []string{"/Applications/Alacritty.app"}},
	{name: "kitty", binary: "kitty", apps: []string{"/Applications/kitty.app"}},
	{name: "wezterm", binary: "wezterm", apps: []string{"/Applications/WezTerm.app"}},
}

// DetectTerminals lists the installed terminal emulators.
func DetectTerminals() []string {
	var found []string
	for _, e := range emulators {
		if e.installed() {
			found = append(found, e.name)
		}
	}
	return found
}

func (e emulator) installed() bool {
	if e.binary != "" {
		if _, err := exec.LookPath(e.binary); err == nil {
			return true
		}
	}
	for _, app := range e.apps {
		if _, err := os.Stat(app); err == nil {
			return true
		}
	}
	return false
}

// DefaultProcesses returns the process-name patterns that identify a terminal.
func DefaultProcesses(terminal string) []string {
	switch strings.ToLower(terminal) {
	case "bossterm":
		return []string{"java", "BossTerm"}
	case "iterm2":
		return []string{"iTerm2"}
	case "terminal":
		return []string{"Terminal"}
	}
	return []string{terminal}
}
