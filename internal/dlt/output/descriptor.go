// Package output renders a matched message into a single delimited output
// line and writes it to the configured sink.
package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mabhi256/dltq/internal/dlt"
)

// FieldKind names one column of a projected output line.
type FieldKind int

const (
	FieldEcu FieldKind = iota
	FieldApp
	FieldCtx
	FieldTime
	FieldTimestamp
	FieldPayload
	FieldCapture
)

// Field is one entry in an output descriptor's field list. CaptureName is
// only meaningful when Kind == FieldCapture.
type Field struct {
	Kind        FieldKind
	CaptureName string
}

// ParseFields splits a format string on delimiter into recognized field
// names: ecu, app, ctx, time, timestamp, payload, or <name> for a named
// capture. An unrecognized name is a fatal configuration error.
func ParseFields(format string, delimiter byte) ([]Field, error) {
	names := strings.Split(format, string(delimiter))
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, err := parseField(name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func parseField(name string) (Field, error) {
	switch name {
	case "ecu":
		return Field{Kind: FieldEcu}, nil
	case "app":
		return Field{Kind: FieldApp}, nil
	case "ctx":
		return Field{Kind: FieldCtx}, nil
	case "time":
		return Field{Kind: FieldTime}, nil
	case "timestamp":
		return Field{Kind: FieldTimestamp}, nil
	case "payload":
		return Field{Kind: FieldPayload}, nil
	}
	if strings.HasPrefix(name, "<") && strings.HasSuffix(name, ">") && len(name) > 2 {
		return Field{Kind: FieldCapture, CaptureName: name[1 : len(name)-1]}, nil
	}
	return Field{}, fmt.Errorf("%w: unrecognized output field %q", dlt.ErrConfigError, name)
}

// ValidateCaptureFields rejects a field list if any Capture(name) field
// references a name that no configured pattern declares — a fatal
// configuration error surfaced before any message decoding begins.
func ValidateCaptureFields(fields []Field, declaredNames []string) error {
	declared := make(map[string]bool, len(declaredNames))
	for _, n := range declaredNames {
		declared[n] = true
	}
	for _, f := range fields {
		if f.Kind == FieldCapture && !declared[f.CaptureName] {
			return fmt.Errorf("%w: no pattern declares capture %q", dlt.ErrConfigError, f.CaptureName)
		}
	}
	return nil
}

// Descriptor pairs a sink with the ordered field list and delimiter used to
// render each surviving message into a line.
type Descriptor struct {
	Sink      Sink
	Fields    []Field
	Delimiter byte
}

// Render composes one output line for msg. captures is the capture-group
// bundle list returned by filter.Set.Evaluate; it may be nil.
func Render(msg *dlt.Message, captures []map[string]string, fields []Field, delimiter byte) string {
	var sb strings.Builder
	for _, f := range fields {
		sb.WriteString(renderField(msg, captures, f, delimiter))
		sb.WriteByte(delimiter)
	}
	return strings.TrimSuffix(sb.String(), string(delimiter))
}

func renderField(msg *dlt.Message, captures []map[string]string, f Field, delimiter byte) string {
	switch f.Kind {
	case FieldEcu:
		if v, ok := msg.ResolvedEcuID(); ok {
			return v
		}
		if msg.Storage.Ecu != "" {
			return msg.Storage.Ecu
		}
		return "none"
	case FieldApp:
		if v, ok := msg.AppID(); ok {
			return v
		}
		return "none"
	case FieldCtx:
		if v, ok := msg.ContextID(); ok {
			return v
		}
		return "none"
	case FieldTime:
		return fmt.Sprintf("%d.%06d", msg.Storage.Sec, msg.Storage.Usec)
	case FieldTimestamp:
		if msg.Standard.HasTimestamp() {
			return strconv.FormatUint(uint64(msg.Standard.Timestamp), 10)
		}
		return "none"
	case FieldPayload:
		return strings.Join(msg.StringArgs(), string(delimiter))
	case FieldCapture:
		var vals []string
		for _, bundle := range captures {
			if v, ok := bundle[f.CaptureName]; ok {
				vals = append(vals, v)
			}
		}
		return strings.Join(vals, string(delimiter))
	default:
		return ""
	}
}
