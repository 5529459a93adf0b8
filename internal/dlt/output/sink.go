package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Sink receives one rendered line per surviving message.
type Sink interface {
	WriteLine(line string) error
	Close() error
}

// ValidDelimiter reports whether b is one of the delimiters dltq permits:
// comma, semicolon, space, tab, colon, pipe.
func ValidDelimiter(b byte) bool {
	switch b {
	case ',', ';', ' ', '\t', ':', '|':
		return true
	default:
		return false
	}
}

// stdoutSink writes one line per message to standard output.
type stdoutSink struct {
	w *bufio.Writer
}

// NewStdout returns a Sink that writes to os.Stdout.
func NewStdout() Sink {
	return &stdoutSink{w: bufio.NewWriter(os.Stdout)}
}

func (s *stdoutSink) WriteLine(line string) error {
	_, err := fmt.Fprintln(s.w, line)
	return err
}

func (s *stdoutSink) Close() error {
	return s.w.Flush()
}

// csvSink writes one line per message to a file, truncating or creating it
// on first write. The file is opened lazily so a filter block that never
// matches anything never touches the filesystem.
type csvSink struct {
	path string
	file *os.File
	w    *bufio.Writer
}

// NewCsv returns a Sink that lazily opens path for writing on first
// WriteLine.
func NewCsv(path string) Sink {
	return &csvSink{path: path}
}

func (s *csvSink) ensureOpen() error {
	if s.file != nil {
		return nil
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("dlt: opening csv output %q: %w", s.path, err)
	}
	s.file = f
	s.w = bufio.NewWriter(f)
	return nil
}

func (s *csvSink) WriteLine(line string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(s.w, line)
	return err
}

func (s *csvSink) Close() error {
	if s.file == nil {
		return nil
	}
	if err := s.w.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

var _ io.Closer = (*csvSink)(nil)
