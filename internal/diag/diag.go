// Package diag prints dltq's per-file and end-of-run diagnostics to
// stderr, styled with lipgloss for colored, terminal-aware status text.
package diag

import (
	"fmt"
	"io"

	"github.com/mabhi256/dltq/internal/dlt"
	"github.com/mabhi256/dltq/utils"
)

// Reporter accumulates per-file counters across a run, printing a line to
// w (normally os.Stderr) as each file is reported and the totals when
// PrintSummary is called.
type Reporter struct {
	w     io.Writer
	quiet bool
	files []dlt.FileResult
}

// New returns a Reporter writing to w. When quiet is true, PrintSummary is
// a no-op and File only records counters for later inspection.
func New(w io.Writer, quiet bool) *Reporter {
	return &Reporter{w: w, quiet: quiet}
}

// File records one input file's RunFile result and, unless quiet, prints a
// one-line summary for it.
func (r *Reporter) File(path string, res dlt.FileResult) {
	r.files = append(r.files, res)
	if r.quiet {
		return
	}
	line := utils.MutedStyle.Render(path+":") + fmt.Sprintf(" read %d, matched %d", res.Read, res.Matched)
	if res.Skipped > 0 {
		line += utils.WarningStyle.Render(fmt.Sprintf(" (%d record(s) skipped)", res.Skipped))
	}
	if res.Truncated {
		line += utils.CriticalStyle.Render(" (truncated, file ended early)")
	}
	fmt.Fprintln(r.w, line)
}

// ConfigError reports a fatal configuration problem before any file has
// been processed.
func (r *Reporter) ConfigError(err error) {
	fmt.Fprintln(r.w, utils.CriticalStyle.Render("config error: ")+err.Error())
}

// PrintSummary renders the totals across every file reported so far.
func (r *Reporter) PrintSummary() {
	if r.quiet {
		return
	}
	var read, matched, skipped int
	var anyTruncated bool
	for _, f := range r.files {
		read += f.Read
		matched += f.Matched
		skipped += f.Skipped
		anyTruncated = anyTruncated || f.Truncated
	}
	summary := fmt.Sprintf("%d file(s), %d message(s) read, %d matched, %d skipped", len(r.files), read, matched, skipped)
	if anyTruncated {
		summary = utils.WarningStyle.Render(summary + " (some files ended early)")
	} else {
		summary = utils.GoodStyle.Render(summary)
	}
	fmt.Fprintln(r.w, summary)
}
