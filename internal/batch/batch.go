// Package batch runs the node prefixer over every recognized animation file
// in a folder, one file at a time, and tallies the outcome.
package batch

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"jmaprefix/internal/apply"
	"jmaprefix/internal/diff"
	"jmaprefix/internal/discovery"
	"jmaprefix/internal/processor"
)

// Setup failures returned by Run. Per-file failures never surface as errors.
var (
	ErrInputMissing = errors.New("input folder not found")
	ErrOutputDir    = errors.New("output folder unavailable")
)

type Options struct {
	InputDir   string
	OutputDir  string
	Prefix     string
	Extensions []string
	Exclude    []string
	// DryRun computes every rewrite and a preview but writes nothing,
	// not even the output folder.
	DryRun bool
	Backup bool
	Color  bool
	Log    zerolog.Logger
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Name       string
	OutputPath string
	Renamed    int
	Malformed  bool
	// Preview holds the changed lines in dry-run mode.
	Preview string
	Err     error
}

// Summary accumulates FileResults.
type Summary struct {
	Found     int
	Processed int
	Renamed   int
	Malformed int
	Failed    []string
}

// Add records one finished file.
func (s *Summary) Add(r FileResult) {
	if r.Err != nil {
		s.Failed = append(s.Failed, r.Name)
		return
	}
	s.Processed++
	s.Renamed += r.Renamed
	if r.Malformed {
		s.Malformed++
	}
}

// Reporter receives progress events in processing order.
type Reporter interface {
	Found(dir string, names []string)
	OutputReady(dir string, created bool)
	FileDone(r FileResult)
}

type nopReporter struct{}

func (nopReporter) Found(string, []string)   {}
func (nopReporter) OutputReady(string, bool) {}
func (nopReporter) FileDone(FileResult)      {}

// Run processes the input folder. It returns an error only for setup
// failures (ErrInputMissing, ErrOutputDir, or an unreadable input folder);
// a folder with no recognized files yields a zero Summary and no writes.
func Run(opts Options, rep Reporter) (Summary, error) {
	if rep == nil {
		rep = nopReporter{}
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = discovery.DefaultExtensions
	}

	ok, err := discovery.IsDir(opts.InputDir)
	if err != nil {
		return Summary{}, err
	}
	if !ok {
		return Summary{}, errors.Wrap(ErrInputMissing, opts.InputDir)
	}

	names, err := discovery.Discover(opts.InputDir, discovery.Selector{Extensions: exts, Exclude: opts.Exclude})
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Found: len(names)}
	rep.Found(opts.InputDir, names)
	if len(names) == 0 {
		return sum, nil
	}

	if !opts.DryRun {
		created, err := apply.EnsureDir(opts.OutputDir)
		if err != nil {
			return sum, errors.Wrapf(ErrOutputDir, "%s: %v", opts.OutputDir, err)
		}
		if created {
			opts.Log.Debug().Str("dir", opts.OutputDir).Msg("created output folder")
		}
		rep.OutputReady(opts.OutputDir, created)
	}

	for _, name := range names {
		r := processFile(opts, name)
		sum.Add(r)
		rep.FileDone(r)
	}
	return sum, nil
}

func processFile(opts Options, name string) FileResult {
	log := opts.Log.With().Str("file", name).Logger()
	r := FileResult{Name: name, OutputPath: filepath.Join(opts.OutputDir, name)}

	res, err := processor.PrefixFile(filepath.Join(opts.InputDir, name), opts.Prefix, opts.Log)
	if err != nil {
		r.Err = err
		log.Error().Err(err).Msg("skipping file")
		return r
	}
	r.Renamed = res.Renamed
	r.Malformed = res.Warning != nil

	if opts.DryRun {
		r.Preview = diff.Preview(res.Before, res.After, diff.Options{Color: opts.Color})
		return r
	}
	if err := apply.WriteAtomic(r.OutputPath, []byte(res.After), apply.Options{Backup: opts.Backup}); err != nil {
		r.Err = errors.Wrap(err, "write")
		log.Error().Err(r.Err).Msg("skipping file")
		return r
	}
	log.Debug().Int("renamed", r.Renamed).Str("output", r.OutputPath).Msg("converted")
	return r
}
