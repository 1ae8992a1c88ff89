package diff

import (
	"fmt"
	"strings"
)

// Options control how the preview is rendered.
// If Color is true, removed/added lines are wrapped with ANSI colors.
// Limit caps the number of changed lines shown; 0 means no limit.
type Options struct {
	Color bool
	Limit int
}

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

// Lines returns the 1-based numbers of lines that differ between before and
// after. Both are split on "\n" with a trailing "\r" ignored, so a pure
// line-ending conversion reports no changes.
func Lines(before, after string) []int {
	bl, al := split(before), split(after)
	n := max(len(bl), len(al))
	var out []int
	for i := 0; i < n; i++ {
		if at(bl, i) != at(al, i) {
			out = append(out, i+1)
		}
	}
	return out
}

// Preview renders a per-line "-"/"+" listing of changed lines, each pair
// headed by its line number. Unchanged lines are elided. It returns the
// empty string when nothing changed.
func Preview(before, after string, opts Options) string {
	changed := Lines(before, after)
	if len(changed) == 0 {
		return ""
	}
	bl, al := split(before), split(after)

	colorize := func(prefix, line, color string) string {
		if !opts.Color {
			return prefix + line
		}
		return color + prefix + line + ansiReset
	}

	var b strings.Builder
	for i, n := range changed {
		if opts.Limit > 0 && i == opts.Limit {
			fmt.Fprintf(&b, "... %d more changed lines\n", len(changed)-i)
			break
		}
		fmt.Fprintf(&b, "@@ line %d\n", n)
		if n <= len(bl) {
			b.WriteString(colorize("-", bl[n-1], ansiRed))
			b.WriteByte('\n')
		}
		if n <= len(al) {
			b.WriteString(colorize("+", al[n-1], ansiGreen))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func split(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func at(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
