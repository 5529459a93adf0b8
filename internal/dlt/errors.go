package dlt

import "errors"

// Sentinel error kinds surfaced by the cursor, header and payload decoders.
// Callers compare with errors.Is; the iterator wraps these with positional
// context before handing a tagged message back to the driver.
var (
	// ErrTruncated means the buffer ended before a record could be fully read.
	ErrTruncated = errors.New("dlt: truncated record")
	// ErrBadMagic means the storage header's 4-byte pattern did not match.
	ErrBadMagic = errors.New("dlt: bad storage header magic")
	// ErrUnsupportedType means a payload argument's type-info could not be decoded.
	ErrUnsupportedType = errors.New("dlt: unsupported argument type")
	// ErrInvalidUTF8 means identifier or string bytes were not valid UTF-8.
	ErrInvalidUTF8 = errors.New("dlt: invalid utf-8")
	// ErrConfigError means a filter or output descriptor failed
	// validation before any message processing began.
	ErrConfigError = errors.New("dlt: configuration error")
)
