package workload

import (
	"fmt"
	"strings"
)

// CompilerOutput simulates compiler diagnostics with colored severities.
func (s *Source) CompilerOutput() string {
	files := []string{"main.cpp", "utils.h", "config.cpp", "network.cpp", "database.h"}
	severities := []struct{ sev, msg string }{
		{"\033[31merror" + reset, "undeclared identifier"},
		{"\033[33mwarning" + reset, "unused variable"},
		{"\033[34mnote" + reset, "in expansion of macro"},
		{"\033[31merror" + reset, "no matching function"},
		{"\033[33mwarning" + reset, "implicit conversion"},
	}
	var b strings.Builder
	for range 500 {
		line := s.between(1, 500)
		sev := choice(s, severities)
		fmt.Fprintf(&b, "%s:%d:%d: %s: %s '%c'\n", choice(s, files), line, s.between(1, 80), sev.sev, sev.msg, s.pick(lowercase))
		fmt.Fprintf(&b, "   %d |     int x = undefined_var;\n", line)
		b.WriteString("     |             ^~~~~~~~~~~~~\n")
	}
	return b.String()
}

// LogOutput simulates a colored application log.
func (s *Source) LogOutput() string {
	levels := []struct{ color, level string }{
		{"\033[37m", "DEBUG"},
		{"\033[32m", "INFO"},
		{"\033[33m", "WARN"},
		{"\033[31m", "ERROR"},
		{"\033[35m", "FATAL"},
	}
	modules := []string{"server", "database", "auth", "api", "cache", "queue", "worker"}
	messages := []string{
		"Request processed successfully",
		"Connection established",
		"Cache miss for key",
		"Retrying operation",
		"Timeout exceeded",
		"Invalid input received",
		"Resource not found",
		"Permission denied",
		"Rate limit exceeded",
		"Internal error occurred",
	}
	var b strings.Builder
	for range 1000 {
		lvl := choice(s, levels)
		ts := fmt.Sprintf("2024-01-%02d %02d:%02d:%02d.%03d",
			s.between(1, 31), s.rng.IntN(24), s.rng.IntN(60), s.rng.IntN(60), s.rng.IntN(1000))
		fmt.Fprintf(&b, "%s[%s] [%-5s] [%-8s] %s"+reset+"\n", lvl.color, ts, lvl.level, choice(s, modules), choice(s, messages))
	}
	return b.String()
}

// GitDiff simulates colored `git diff` output over 20 files.
func (s *Source) GitDiff() string {
	var b strings.Builder
	for file := range 20 {
		fmt.Fprintf(&b, "\033[1mdiff --git a/file%d.py b/file%d.py"+reset+"\n", file, file)
		b.WriteString("index abc1234..def5678 100644\n")
		fmt.Fprintf(&b, "--- a/file%d.py\n+++ b/file%d.py\n", file, file)
		for hunk := range s.between(1, 5) {
			start := s.between(1, 100)
			fmt.Fprintf(&b, "\033[36m@@ -%d,10 +%d,12 @@"+reset+" def function_%d():\n", start, start, hunk)
			for line := range s.between(5, 15) {
				switch choice(s, []byte{' ', '-', '+', ' ', ' '}) {
				case '-':
					fmt.Fprintf(&b, "\033[31m-    old_code_line_%d = value"+reset+"\n", line)
				case '+':
					fmt.Fprintf(&b, "\033[32m+    new_code_line_%d = better_value"+reset+"\n", line)
				default:
					fmt.Fprintf(&b, "     unchanged_line_%d\n", line)
				}
			}
		}
	}
	return b.String()
}

// ProgressBars simulates carriage-return driven progress bars.
func ProgressBars() string {
	var b strings.Builder
	for task := 1; task <= 10; task++ {
		for pct := 0; pct <= 100; pct += 2 {
			filled := pct / 2
			fmt.Fprintf(&b, "\rTask %d/10: [%s%s] %3d%%", task, strings.Repeat("█", filled), strings.Repeat("░", 50-filled), pct)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Htop simulates an htop-like screen.
func (s *Source) Htop() string {
	var b strings.Builder
	for cpu := range 8 {
		usage := s.rng.IntN(101)
		bars := usage / 5
		fmt.Fprintf(&b, "CPU%d [\033[32m%s"+reset+"%s] %3d%%\n", cpu, strings.Repeat("|", bars), strings.Repeat(" ", 20-bars), usage)
	}
	fmt.Fprintf(&b, "\nMem: %dM/%dM\n\n", s.between(4000, 12000), 16000)
	fmt.Fprintf(&b, "\033[7m%7s %-8s %5s %5s %-40s"+reset+"\n", "PID", "USER", "CPU%", "MEM%", "COMMAND")
	users := []string{"root", "user", "www-data", "postgres", "redis"}
	cmds := []string{"python3", "node", "java", "nginx", "postgres", "redis-server", "chrome", "code"}
	for range 50 {
		fmt.Fprintf(&b, "%7d %-8s %5.1f %5.1f %-40s\n", s.between(1000, 99999), choice(s, users),
			s.rng.Float64()*100, s.rng.Float64()*20, choice(s, cmds))
	}
	return strings.Repeat(b.String(), 10)
}

// VimScreen simulates a syntax-highlighted editor screen.
func (s *Source) VimScreen() string {
	var b strings.Builder
	for i := range 100 {
		fmt.Fprintf(&b, "\033[33m%4d"+reset+" ", i+1)
		switch i % 10 {
		case 0:
			fmt.Fprintf(&b, "\033[35mdef"+reset+" \033[33mfunction_%d"+reset+"():", i/10)
		case 1:
			b.WriteString("    \033[32m\"\"\"Docstring for function\"\"\"" + reset)
		case 9:
			b.WriteString("    \033[35mreturn" + reset + " result")
		default:
			fmt.Fprintf(&b, "    x = \033[36m%d"+reset, s.rng.IntN(101))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\033[7m NORMAL | main.py | ln %d, col %d "+reset+"\n", s.between(1, 100), s.between(1, 80))
	return strings.Repeat(b.String(), 5)
}

// Mixed interleaves slices of the other simulations in a shuffled order.
func (s *Source) Mixed() string {
	parts := []string{
		prefix(s.CompilerOutput(), 2000),
		prefix(s.LogOutput(), 2000),
		prefix(s.GitDiff(), 2000),
		prefix(s.VimScreen(), 2000),
		prefix(BoxDrawing(), 1000),
		prefix(EmojiBasic(), 500),
		prefix(CJK(), 500),
	}
	s.rng.Shuffle(len(parts), func(i, j int) { parts[i], parts[j] = parts[j], parts[i] })
	return strings.Join(parts, "\n")
}

// prefix returns the first n characters (runes) of text.
func prefix(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}
