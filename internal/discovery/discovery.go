package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DefaultExtensions are the text animation export types recognized by default.
var DefaultExtensions = []string{".JMA", ".JMM", ".JMO", ".JMR", ".JMT", ".JMW", ".JMZ"}

// Selector defines which files in a folder are selected for processing.
// Extensions match case-insensitively, with or without a leading dot.
// Exclude holds filepath.Match patterns tested against the base name.
type Selector struct {
	Extensions []string
	Exclude    []string
}

// Discover returns the base names of regular files directly inside dir whose
// extension is recognized by sel, deduplicated and sorted. Subfolders are not
// entered. It prints nothing and is deterministic in its output ordering.
func Discover(dir string, sel Selector) ([]string, error) {
	exts := normalize(sel.Extensions)
	if len(exts) == 0 {
		return nil, errors.New("discovery: no extensions to match")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "discovery: read %s", dir)
	}

	resultSet := make(map[string]struct{})
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if _, ok := exts[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		if excluded(name, sel.Exclude) {
			continue
		}
		resultSet[name] = struct{}{}
	}

	names := make([]string, 0, len(resultSet))
	for n := range resultSet {
		names = append(names, n)
	}
	// Deterministic order
	sort.Strings(names)
	return names, nil
}

// IsDir reports whether path exists and is a directory. A missing path is
// not an error; any other stat failure is.
func IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "discovery: stat %s", path)
	}
	return info.IsDir(), nil
}

// --- internals ---

func normalize(exts []string) map[string]struct{} {
	out := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		out["."+strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}
	return out
}

// filepath.Match returns error for malformed patterns; treat that as non-match here.
func excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
