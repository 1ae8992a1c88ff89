package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile creates a file with given content, making parent directories if needed.
// It returns the absolute path to the created file.
func WriteFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	p := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	return abs
}

// Node is one node record: a name and its two hierarchy indices.
type Node struct {
	Name    string
	Child   int
	Sibling int
}

// Document renders a minimal animation export with the given nodes and
// keyframe lines, joined with "\n" and ending in a newline.
func Document(nodes []Node, keyframes ...string) string {
	lines := []string{
		"16392",        // version
		"3",            // frame count
		"30",           // frame rate
		"1",            // actor index
		"unnamedActor", // actor names
		fmt.Sprint(len(nodes)),
		"-1053478153", // checksum
	}
	for _, n := range nodes {
		lines = append(lines, n.Name, fmt.Sprint(n.Child), fmt.Sprint(n.Sibling))
	}
	lines = append(lines, keyframes...)
	return strings.Join(lines, "\n") + "\n"
}
