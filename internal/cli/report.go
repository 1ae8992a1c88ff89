package cli

import (
	"fmt"
	"io"
	"strings"

	"jmaprefix/internal/batch"
)

const rule = "========================================"

// console prints the human-readable run report. It implements batch.Reporter.
type console struct {
	w   io.Writer
	cfg Config
}

func newConsole(w io.Writer, cfg Config) *console {
	return &console{w: w, cfg: cfg}
}

func (c *console) Header() {
	fmt.Fprintln(c.w, rule)
	fmt.Fprintln(c.w, " Animation node prefixer")
	fmt.Fprintln(c.w, rule)
	fmt.Fprintf(c.w, "Prefix: %q\n", c.cfg.Prefix)
	if c.cfg.DryRun {
		fmt.Fprintln(c.w, "Dry run: nothing will be written")
	}
}

func (c *console) Found(dir string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(c.w, "Found %d animation file(s) in %s\n", len(names), dir)
}

func (c *console) OutputReady(dir string, created bool) {
	if created {
		fmt.Fprintf(c.w, "Output folder: %s (created)\n", dir)
		return
	}
	fmt.Fprintf(c.w, "Output folder: %s (exists)\n", dir)
}

func (c *console) FileDone(r batch.FileResult) {
	if r.Err != nil {
		fmt.Fprintf(c.w, "  ERROR %s: %v\n", r.Name, r.Err)
		return
	}
	note := ""
	if r.Malformed {
		note = " (node count unreadable, copied unchanged)"
	}
	if c.cfg.DryRun {
		fmt.Fprintf(c.w, "  %s: %d bones would be renamed%s\n", r.Name, r.Renamed, note)
		for _, l := range strings.SplitAfter(r.Preview, "\n") {
			if l != "" {
				fmt.Fprint(c.w, "    "+l)
			}
		}
		return
	}
	fmt.Fprintf(c.w, "  %s: %d bones renamed%s -> %s\n", r.Name, r.Renamed, note, r.OutputPath)
}

func (c *console) NoFiles() {
	fmt.Fprintf(c.w, "No animation files (%s) found in %s; nothing to do\n",
		strings.Join(c.cfg.Extensions, ", "), c.cfg.InputDir)
}

func (c *console) Summary(s batch.Summary) {
	fmt.Fprintln(c.w, rule)
	fmt.Fprintf(c.w, "Files processed: %d/%d\n", s.Processed, s.Found)
	fmt.Fprintf(c.w, "Total bones renamed: %d\n", s.Renamed)
	if s.Malformed > 0 {
		fmt.Fprintf(c.w, "Copied unchanged (unreadable node count): %d\n", s.Malformed)
	}
	if len(s.Failed) > 0 {
		fmt.Fprintln(c.w, "Failed files:")
		for _, f := range s.Failed {
			fmt.Fprintf(c.w, "  - %s\n", f)
		}
	}
	fmt.Fprintln(c.w, rule)
}
