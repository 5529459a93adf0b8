package dlt_test

import "encoding/binary"

// fixed4 truncates s or pads it with trailing NULs to a 4-byte identifier field.
func fixed4(s string) []byte {
	b := make([]byte, 4)
	copy(b, s)
	return b
}

type msgOpts struct {
	ecu        string // storage header ECU
	stdEcu     string // standard header's optional ECU field; empty means omitted
	bigEndian  bool
	extended   bool
	verbose    bool
	appID      string
	ctxID      string
	args       [][]byte // pre-encoded verbose arguments, concatenated
	argCount   int
	nonVerbose []byte // message id (4 bytes) + raw bytes, used when !verbose
}

// buildMessage returns the bytes of one complete DLT record per opts.
func buildMessage(o msgOpts) []byte {
	var standard []byte
	htyp := byte(0)
	if o.bigEndian {
		htyp |= 0x02
	}
	if o.extended {
		htyp |= 0x01
	}
	if o.stdEcu != "" {
		htyp |= 0x04
	}

	var conditional []byte
	if o.stdEcu != "" {
		conditional = append(conditional, fixed4(o.stdEcu)...)
	}

	var extAndPayload []byte
	if o.extended {
		msin := byte(0)
		if o.verbose {
			msin |= 0x01
		}
		argCount := byte(o.argCount)
		ext := append([]byte{msin, argCount}, fixed4(o.appID)...)
		ext = append(ext, fixed4(o.ctxID)...)
		extAndPayload = append(extAndPayload, ext...)

		if o.verbose {
			for _, a := range o.args {
				extAndPayload = append(extAndPayload, a...)
			}
		} else {
			extAndPayload = append(extAndPayload, o.nonVerbose...)
		}
	} else {
		extAndPayload = append(extAndPayload, o.nonVerbose...)
	}

	headerLen := 4 // htyp + counter + msglength
	standard = []byte{htyp, 0x00, 0x00, 0x00}
	msgLength := headerLen + len(conditional) + len(extAndPayload)
	binary.BigEndian.PutUint16(standard[2:4], uint16(msgLength))
	standard = append(standard, conditional...)
	standard = append(standard, extAndPayload...)

	storage := append([]byte{0x44, 0x4C, 0x54, 0x01}, 0, 0, 0, 0)
	storage = append(storage, 0, 0, 0, 0)
	storage = append(storage, fixed4(o.ecu)...)

	return append(storage, standard...)
}

// u32Arg encodes a verbose UInt argument with a 32-bit length class.
func u32Arg(order bool, v uint32) []byte {
	typeInfo := uint32(0x00000040 | 3) // UINT bit + TYLE=32bit
	b := make([]byte, 8)
	putU32(order, b[0:4], typeInfo)
	putU32(order, b[4:8], v)
	return b
}

// stringArg encodes a verbose STRG argument (length-prefixed, NUL-terminated).
func stringArg(order bool, s string) []byte {
	payload := append([]byte(s), 0x00)
	typeInfo := uint32(0x00000200) // STRG bit, TYLE undefined for strings
	b := make([]byte, 4)
	putU32(order, b, typeInfo)
	lenField := make([]byte, 2)
	putU16(order, lenField, uint16(len(payload)))
	out := append(b, lenField...)
	out = append(out, payload...)
	return out
}

func putU32(bigEndian bool, b []byte, v uint32) {
	if bigEndian {
		binary.BigEndian.PutUint32(b, v)
	} else {
		binary.LittleEndian.PutUint32(b, v)
	}
}

func putU16(bigEndian bool, b []byte, v uint16) {
	if bigEndian {
		binary.BigEndian.PutUint16(b, v)
	} else {
		binary.LittleEndian.PutUint16(b, v)
	}
}
