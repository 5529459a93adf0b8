package dlt

import (
	"fmt"

	"github.com/mabhi256/dltq/internal/dlt/filter"
	"github.com/mabhi256/dltq/internal/dlt/output"
)

// Block pairs a compiled filter with the output descriptor its matches are
// rendered to. The driver evaluates every block against every message of
// every input file, so one run can project the same file to several
// independent outputs.
type Block struct {
	Name   string
	Filter *filter.Set
	Out    *output.Descriptor
}

// FileResult summarizes one input file's pass through every block.
type FileResult struct {
	Read      int
	Skipped   int // error-tagged records, whether resynced past or ending the file
	Matched   int
	Truncated bool // the file ended on an unrecoverable framing error
}

// RunFile iterates buf once and, for every surviving message, evaluates it
// against each block in order, writing a rendered line to any block whose
// filter passes. It never mutates blocks and never closes their sinks —
// the caller owns sink lifetime across multiple files.
func RunFile(buf []byte, blocks []Block) (FileResult, error) {
	var res FileResult
	it := NewIterator(buf)
	for {
		msg, err, ok := it.Next()
		if err != nil {
			res.Skipped++
			if !ok {
				res.Truncated = true
				break
			}
			continue
		}
		if !ok {
			break
		}
		res.Read++

		matchedThis := false
		for _, b := range blocks {
			pass, captures := b.Filter.Evaluate(msg)
			if !pass {
				continue
			}
			matchedThis = true
			line := output.Render(msg, captures, b.Out.Fields, b.Out.Delimiter)
			if err := b.Out.Sink.WriteLine(line); err != nil {
				return res, fmt.Errorf("dlt: writing output for block %q: %w", b.Name, err)
			}
		}
		if matchedThis {
			res.Matched++
		}
	}
	return res, nil
}
