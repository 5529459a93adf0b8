package dlt

// Message aggregates one fully parsed DLT record: the mandatory storage and
// standard headers, the optional extended header, and the decoded argument
// list. Non-verbose payload bytes borrow from the buffer the Iterator was
// built over, so a Message must not outlive that buffer; string arguments
// are copied out of it.
type Message struct {
	Storage  StorageHeader
	Standard StandardHeader
	Extended *ExtendedHeader // nil when the standard header has no extended header
	Args     []Value
}

// HasExtended reports whether the extended header was present.
func (m *Message) HasExtended() bool { return m.Extended != nil }

// ResolvedEcuID returns the standard header's ECU id and whether it was
// present. It deliberately does not fall back to the storage header's ECU
// (always present) the way output rendering does — see output.Render —
// since the EcuId filter predicate requires the standard header's optional
// field specifically, the same as AppId/ContextId require the extended
// header.
func (m *Message) ResolvedEcuID() (string, bool) {
	if m.Standard.HasEcuID() {
		return m.Standard.EcuID, true
	}
	return "", false
}

// AppID returns the extended header's application id, if present.
func (m *Message) AppID() (string, bool) {
	if m.Extended == nil {
		return "", false
	}
	return m.Extended.AppID, true
}

// ContextID returns the extended header's context id, if present.
func (m *Message) ContextID() (string, bool) {
	if m.Extended == nil {
		return "", false
	}
	return m.Extended.ContextID, true
}

// StringArgs returns the payload arguments decoded as strings, in argument
// order, skipping non-string values — used by both the pattern predicate
// and the Payload output field.
func (m *Message) StringArgs() []string {
	var out []string
	for _, a := range m.Args {
		if a.Kind == KindString {
			out = append(out, a.Str)
		}
	}
	return out
}
