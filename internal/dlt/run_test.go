package dlt_test

import (
	"testing"

	"github.com/mabhi256/dltq/internal/dlt"
	"github.com/mabhi256/dltq/internal/dlt/filter"
	"github.com/mabhi256/dltq/internal/dlt/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink is an in-memory output.Sink for assertions without touching
// the filesystem or stdout.
type captureSink struct {
	lines []string
	closed bool
}

func (s *captureSink) WriteLine(line string) error {
	s.lines = append(s.lines, line)
	return nil
}

func (s *captureSink) Close() error {
	s.closed = true
	return nil
}

func strp(s string) *string { return &s }

func TestRunFile_EcuFilterRejects(t *testing.T) {
	buf := scenario2() // ECU1/APP1/CON1, payload "hello"
	set, err := filter.New(strp("ECU9"), nil, nil, nil)
	require.NoError(t, err)
	sink := &captureSink{}
	fields, err := output.ParseFields("payload", ',')
	require.NoError(t, err)

	res, err := dlt.RunFile(buf, []dlt.Block{
		{Name: "b1", Filter: set, Out: &output.Descriptor{Sink: sink, Fields: fields, Delimiter: ','}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Read)
	assert.Equal(t, 0, res.Matched)
	assert.Empty(t, sink.lines)
}

func TestRunFile_PatternMatchWithNamedCapture(t *testing.T) {
	buf := buildMessage(msgOpts{
		ecu: "ECU1", bigEndian: true, extended: true, verbose: true,
		appID: "APP1", ctxID: "CON1", argCount: 1,
		args: [][]byte{stringArg(true, "id=42")},
	})
	set, err := filter.New(nil, nil, nil, []string{`id=(?P<n>\d+)`})
	require.NoError(t, err)
	sink := &captureSink{}
	fields, err := output.ParseFields("<n>", ',')
	require.NoError(t, err)

	res, err := dlt.RunFile(buf, []dlt.Block{
		{Name: "b1", Filter: set, Out: &output.Descriptor{Sink: sink, Fields: fields, Delimiter: ','}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Matched)
	require.Len(t, sink.lines, 1)
	assert.Equal(t, "42", sink.lines[0])
}

func TestRunFile_TruncatedTrailingBytesCountsSkippedAndTruncated(t *testing.T) {
	buf := append(scenario2(), []byte{1, 2, 3, 4, 5, 6, 7}...)
	set, err := filter.New(nil, nil, nil, nil)
	require.NoError(t, err)
	sink := &captureSink{}
	fields, err := output.ParseFields("payload", ',')
	require.NoError(t, err)

	res, err := dlt.RunFile(buf, []dlt.Block{
		{Name: "b1", Filter: set, Out: &output.Descriptor{Sink: sink, Fields: fields, Delimiter: ','}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Read)
	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, 1, res.Skipped)
	assert.True(t, res.Truncated)
}

func TestRunFile_MultipleBlocksIndependentOutputs(t *testing.T) {
	buf := scenario2()
	matchAll, err := filter.New(nil, nil, nil, nil)
	require.NoError(t, err)
	rejectAll, err := filter.New(strp("NOPE"), nil, nil, nil)
	require.NoError(t, err)

	sinkA := &captureSink{}
	sinkB := &captureSink{}
	fields, err := output.ParseFields("app", ',')
	require.NoError(t, err)

	res, err := dlt.RunFile(buf, []dlt.Block{
		{Name: "a", Filter: matchAll, Out: &output.Descriptor{Sink: sinkA, Fields: fields, Delimiter: ','}},
		{Name: "b", Filter: rejectAll, Out: &output.Descriptor{Sink: sinkB, Fields: fields, Delimiter: ','}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, []string{"APP1"}, sinkA.lines)
	assert.Empty(t, sinkB.lines)
}
