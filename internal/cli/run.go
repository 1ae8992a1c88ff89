package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"jmaprefix/internal/batch"
	"jmaprefix/internal/discovery"
)

const usageLine = "Usage: jmaprefix [flags] <prefix>"

type Config struct {
	Prefix     string
	InputDir   string
	OutputDir  string
	Extensions []string
	Exclude    []string
	DryRun     bool
	Backup     bool
	NoColor    bool
	LogLevel   string
}

func newFlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("jmaprefix", pflag.ContinueOnError)
	fs.Usage = func() {}
	fs.SortFlags = false

	fs.StringVar(&cfg.InputDir, "input", "animations", "Folder holding the animation files")
	fs.StringVar(&cfg.OutputDir, "output", "converted", "Folder for converted files (created if missing)")
	fs.StringSliceVar(&cfg.Extensions, "ext", discovery.DefaultExtensions, "Recognized file extensions (case-insensitive)")
	fs.StringSliceVar(&cfg.Exclude, "exclude", nil, "File name globs to skip (e.g. \"*_old.*\")")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview renamed nodes without writing anything")
	fs.BoolVar(&cfg.Backup, "backup", false, "Back up existing output files before overwriting")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable ANSI colors in output")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	return fs
}

func parseArgs(args []string) (Config, *pflag.FlagSet, error) {
	var cfg Config
	fs := newFlagSet(&cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, fs, err
	}

	switch fs.NArg() {
	case 0:
		return cfg, fs, errors.New("missing prefix argument")
	case 1:
		cfg.Prefix = fs.Arg(0)
	default:
		return cfg, fs, errors.Errorf("expected one prefix argument, got %d", fs.NArg())
	}
	return cfg, fs, nil
}

func usage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(w, usageLine)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Prefixes every node name in the text animation files found in the")
	fmt.Fprintln(w, "input folder and writes the results to the output folder.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Example: jmaprefix bip01")
	fmt.Fprintln(w)
	fmt.Fprint(w, fs.FlagUsages())
}

func newLogger(w io.Writer, cfg Config) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return zerolog.Nop(), errors.Wrap(err, "--log-level")
	}
	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      cfg.NoColor,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(out).Level(lvl), nil
}

// Run executes the CLI with the provided args and writers, returning the exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	cfg, fs, err := parseArgs(args)
	if errors.Is(err, pflag.ErrHelp) {
		usage(stdout, fs)
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n\n", err)
		usage(stderr, fs)
		return 1
	}

	log, err := newLogger(stderr, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	rep := newConsole(stdout, cfg)
	rep.Header()

	sum, err := batch.Run(batch.Options{
		InputDir:   cfg.InputDir,
		OutputDir:  cfg.OutputDir,
		Prefix:     cfg.Prefix,
		Extensions: cfg.Extensions,
		Exclude:    cfg.Exclude,
		DryRun:     cfg.DryRun,
		Backup:     cfg.Backup,
		Color:      !cfg.NoColor,
		Log:        log,
	}, rep)
	switch {
	case errors.Is(err, batch.ErrInputMissing):
		fmt.Fprintf(stderr, "error: input folder %q not found; create it and put the animation files inside\n", cfg.InputDir)
		return 1
	case errors.Is(err, batch.ErrOutputDir):
		fmt.Fprintf(stderr, "error: cannot use output folder: %v\n", err)
		return 1
	case err != nil:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if sum.Found == 0 {
		rep.NoFiles()
		return 0
	}
	rep.Summary(sum)
	return 0
}
