package workload

import (
	"fmt"
	"strings"
)

const reset = "\033[0m"

// ANSI16Colors combines every basic foreground with every background.
func ANSI16Colors() string {
	var b strings.Builder
	for fg := 30; fg < 38; fg++ {
		for bg := 40; bg < 48; bg++ {
			fmt.Fprintf(&b, "\033[%d;%dm█"+reset, fg, bg)
		}
	}
	for fg := 90; fg < 98; fg++ {
		for bg := 100; bg < 108; bg++ {
			fmt.Fprintf(&b, "\033[%d;%dm█"+reset, fg, bg)
		}
	}
	return strings.Repeat(b.String(), 20)
}

// ANSI256Colors prints one cell per palette index.
func ANSI256Colors() string {
	var b strings.Builder
	for i := range 256 {
		fmt.Fprintf(&b, "\033[38;5;%dm█"+reset, i)
	}
	for i := range 256 {
		fmt.Fprintf(&b, "\033[48;5;%dm "+reset, i)
	}
	return strings.Repeat(b.String(), 10)
}

// ANSITruecolor sweeps 24-bit gradients plus random RGB cells.
func (s *Source) ANSITruecolor() string {
	var b strings.Builder
	for v := 0; v < 256; v += 8 {
		fmt.Fprintf(&b, "\033[38;2;%d;0;0m█"+reset, v)
	}
	for v := 0; v < 256; v += 8 {
		fmt.Fprintf(&b, "\033[38;2;0;%d;0m█"+reset, v)
	}
	for v := 0; v < 256; v += 8 {
		fmt.Fprintf(&b, "\033[38;2;0;0;%dm█"+reset, v)
	}
	for range 500 {
		fmt.Fprintf(&b, "\033[38;2;%d;%d;%dm█"+reset, s.rng.IntN(256), s.rng.IntN(256), s.rng.IntN(256))
	}
	return strings.Repeat(b.String(), 5)
}

// ANSIAttributes shows each SGR text attribute.
func ANSIAttributes() string {
	attrs := []struct{ code, name string }{
		{"\033[1m", "Bold"},
		{"\033[2m", "Dim"},
		{"\033[3m", "Italic"},
		{"\033[4m", "Underline"},
		{"\033[5m", "Blink"},
		{"\033[7m", "Reverse"},
		{"\033[8m", "Hidden"},
		{"\033[9m", "Strikethrough"},
		{"\033[21m", "Double underline"},
		{"\033[53m", "Overline"},
		{"\033[1;3m", "Bold+Italic"},
		{"\033[1;4m", "Bold+Underline"},
		{"\033[3;4m", "Italic+Underline"},
		{"\033[1;3;4m", "Bold+Italic+Underline"},
	}
	var b strings.Builder
	for _, a := range attrs {
		b.WriteString(a.code + a.name + reset + " ")
	}
	return strings.Repeat(b.String(), 100)
}

// ANSICursorMovements moves the cursor by random relative offsets.
func (s *Source) ANSICursorMovements() string {
	var b strings.Builder
	for range 100 {
		fmt.Fprintf(&b, "\033[%dAX", s.between(1, 5))
		fmt.Fprintf(&b, "\033[%dBY", s.between(1, 5))
		fmt.Fprintf(&b, "\033[%dCZ", s.between(1, 10))
		fmt.Fprintf(&b, "\033[%dDW", s.between(1, 10))
	}
	return b.String()
}

// ANSIScrollRegions sets scroll margins and scrolls inside them.
func ANSIScrollRegions() string {
	var b strings.Builder
	for i := range 50 {
		fmt.Fprintf(&b, "\033[%d;%dr", i+1, i+20)
		fmt.Fprintf(&b, "\033[%dH", i+10)
		fmt.Fprintf(&b, "Line %d\n", i)
		b.WriteString("\033[S\033[T")
	}
	b.WriteString("\033[r")
	return b.String()
}

// EscapeCount counts ESC bytes, i.e. the number of control sequences.
func EscapeCount(payload string) int {
	return strings.Count(payload, "\033")
}
