package processor

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"jmaprefix/internal/animation"
)

type Result struct {
	Before    string
	After     string
	Renamed   int
	NodeCount int
	// Warning is set for a malformed document; After equals Before then.
	Warning error
}

// Changed reports whether the rewrite produced different bytes.
func (r Result) Changed() bool { return r.Before != r.After }

// PrefixFile reads the file, prefixes its node names in memory and returns a
// Result. It does NOT write anything to disk. A malformed document is logged
// as a warning on log and is not an error.
func PrefixFile(path, prefix string, log zerolog.Logger) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errors.Wrap(err, "read")
	}
	// quick binary check
	if bytes.IndexByte(data, 0x00) >= 0 {
		return Result{}, errors.Errorf("binary content in %s", filepath.Base(path))
	}

	before := string(data)
	res := animation.Rewrite(before, prefix)
	if res.Warning != nil {
		log.Warn().
			Str("file", filepath.Base(path)).
			Err(res.Warning).
			Msg("node count unreadable, file copied unchanged")
	}
	return Result{
		Before:    before,
		After:     res.Text,
		Renamed:   res.Renamed,
		NodeCount: res.NodeCount,
		Warning:   res.Warning,
	}, nil
}
