package dlt

import "fmt"

// Iterator produces a lazy sequence of Messages from a borrowed byte
// buffer, advancing one record at a time. It is not restartable: a
// pull-style Next() over an offset into an already-resident slice, rather
// than a loop that reads until io.EOF from a stream.
type Iterator struct {
	cur *Cursor
}

// NewIterator returns an Iterator over buf, starting at offset 0.
func NewIterator(buf []byte) *Iterator {
	return &Iterator{cur: New(buf)}
}

// Done reports whether the iterator has reached the end of the buffer.
func (it *Iterator) Done() bool { return it.cur.Remaining() == 0 }

// Next decodes and returns the next message.
//
// Return shape, matching the "error-tagged message, seek-if-possible,
// else terminate" rule: an error before standard_start + msg_length is
// known (bad storage magic, or the standard header itself is truncated)
// is unrecoverable for this buffer — Next moves the iterator to the end of
// the buffer (so Done reports true) and returns (nil, err, false). An error discovered once msg_length is known
// (truncated extended header, truncated/unsupported payload) still lets
// the iterator reposition itself at standard_start + msg_length before
// returning — Next returns (nil, err, true) and the caller may call Next
// again. Clean end of input is (nil, nil, false).
func (it *Iterator) Next() (*Message, error, bool) {
	if it.Done() {
		return nil, nil, false
	}

	storage, err := ReadStorageHeader(it.cur)
	if err != nil {
		it.cur.SetPos(len(it.cur.buf))
		return nil, err, false
	}

	standardStart := it.cur.Pos()
	standard, err := ReadStandardHeader(it.cur)
	if err != nil {
		it.cur.SetPos(len(it.cur.buf))
		return nil, err, false
	}

	// From here, standard_start + msg_length is known: any failure below
	// can still resync to the next record instead of terminating the file.
	resync := func(err error) (*Message, error, bool) {
		it.cur.SetPos(standardStart + int(standard.MsgLength))
		return nil, err, true
	}

	msg := &Message{Storage: storage, Standard: standard}

	var payloadSize int
	if standard.HasExtendedHeader() {
		ext, err := ReadExtendedHeader(it.cur)
		if err != nil {
			return resync(err)
		}
		msg.Extended = &ext

		payloadSize = int(standard.MsgLength) - standard.HeaderLen() - extendedHeaderSize
		if payloadSize < 0 {
			return resync(fmt.Errorf("%w: msg_length too small for headers", ErrTruncated))
		}

		if ext.IsVerbose() {
			args, err := decodeArguments(it.cur, standard.ByteOrder(), int(ext.ArgCount))
			if err != nil {
				return resync(err)
			}
			msg.Args = args
		} else {
			v, err := decodeNonVerbose(it.cur, standard.ByteOrder(), payloadSize)
			if err != nil {
				return resync(err)
			}
			msg.Args = []Value{v}
		}
	} else {
		payloadSize = int(standard.MsgLength) - standard.HeaderLen()
		if payloadSize < 0 {
			return resync(fmt.Errorf("%w: msg_length too small for standard header", ErrTruncated))
		}
		v, err := decodeNonVerbose(it.cur, standard.ByteOrder(), payloadSize)
		if err != nil {
			return resync(err)
		}
		msg.Args = []Value{v}
	}

	// msg_length is the authoritative record-advance quantity: land exactly
	// on standard_start + msg_length regardless of how many payload bytes
	// argument decoding consumed.
	it.cur.SetPos(standardStart + int(standard.MsgLength))

	return msg, nil, true
}
