package dlt

// ValueKind discriminates the closed sum type of decoded payload argument
// values. Unsupported is first-class so message decoding can continue
// across partial type support instead of failing the whole message.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindSInt
	KindUInt
	KindString
	KindTraceInfo
	KindNonVerbose
	KindUnsupported
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindSInt:
		return "SInt"
	case KindUInt:
		return "UInt"
	case KindString:
		return "String"
	case KindTraceInfo:
		return "TraceInfo"
	case KindNonVerbose:
		return "NonVerbose"
	default:
		return "Unsupported"
	}
}

// Value is a single decoded payload argument. Only the fields relevant to
// Kind are populated. String/TraceInfo values are copies of their
// NUL-trimmed bytes, bounded by the argument's length; NonVerboseBytes is a
// subslice of the underlying buffer, which must outlive the Message.
type Value struct {
	Kind ValueKind

	Bool bool

	// SInt/UInt carry the widened value for widths up to 64 bits; Width
	// records the original TYLE-selected bit width (8, 16, 32, 64, 128).
	// 128-bit values additionally populate SInt128/UInt128.
	SInt    int64
	UInt    uint64
	SInt128 Int128
	UInt128 UInt128
	Width   int

	// Str holds the decoded text for KindString and KindTraceInfo.
	Str string

	// NonVerboseID and NonVerboseBytes hold a non-verbose message's opaque
	// payload: a 4-byte message id followed by the raw remainder.
	NonVerboseID    uint32
	NonVerboseBytes []byte

	// UnsupportedReason names why a KindUnsupported value could not be
	// decoded (float/array/raw/struct, or an undefined TYLE).
	UnsupportedReason string
}
