package animation

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Fixed 1-based line positions of the JMA-family header.
const (
	nodeCountLine = 6
	firstNodeLine = 8
	linesPerNode  = 3
)

// ErrMalformed is wrapped by Result.Warning when the document has no usable
// node count. It is a warning, not a failure: the text comes back untouched.
var ErrMalformed = errors.New("malformed animation document")

// Result is the outcome of rewriting a single document.
type Result struct {
	Text      string
	Renamed   int
	NodeCount int
	// Warning is non-nil when the document was returned unchanged because
	// line 6 did not hold a positive node count.
	Warning error
}

// SplitLines splits text on "\n", dropping a "\r" that precedes it.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ParseNodeCount reads the node count from line 6.
func ParseNodeCount(lines []string) (int, error) {
	if len(lines) < nodeCountLine {
		return 0, errors.Wrapf(ErrMalformed, "%d lines, node count expected on line %d", len(lines), nodeCountLine)
	}
	raw := strings.TrimSpace(lines[nodeCountLine-1])
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformed, "node count %q is not a number", raw)
	}
	if n <= 0 {
		return 0, errors.Wrapf(ErrMalformed, "node count %d is not positive", n)
	}
	return n, nil
}

// nodeSpan returns the 0-based half-open range of node record lines,
// clipped to the lines actually present.
func nodeSpan(count, available int) (start, end int) {
	start = firstNodeLine - 1
	if available <= start {
		return start, start
	}
	if count > (available-start)/linesPerNode {
		return start, available
	}
	return start, start + count*linesPerNode
}

// Rewrite inserts prefix and a single space before every non-empty node name.
// Header lines, hierarchy index lines and keyframe data are copied verbatim.
// It performs no I/O and returns identical output for identical input.
func Rewrite(raw, prefix string) Result {
	lines := SplitLines(raw)
	count, err := ParseNodeCount(lines)
	if err != nil {
		return Result{Text: raw, Warning: err}
	}

	res := Result{NodeCount: count}
	start, end := nodeSpan(count, len(lines))
	for i := start; i < end; i += linesPerNode {
		name := strings.TrimSpace(lines[i])
		if name == "" {
			continue
		}
		lines[i] = prefix + " " + name
		res.Renamed++
	}
	res.Text = strings.Join(lines, "\n")
	return res
}

// NodeNames returns the trimmed node names of a well-formed document in file
// order. Empty name lines are reported as empty strings.
func NodeNames(raw string) ([]string, error) {
	lines := SplitLines(raw)
	count, err := ParseNodeCount(lines)
	if err != nil {
		return nil, err
	}
	start, end := nodeSpan(count, len(lines))
	names := make([]string, 0, count)
	for i := start; i < end; i += linesPerNode {
		names = append(names, strings.TrimSpace(lines[i]))
	}
	return names, nil
}
