package dlt

import "fmt"

// DLT storage header magic: "DLT\x01".
var storageMagic = [4]byte{0x44, 0x4C, 0x54, 0x01}

const (
	storageHeaderSize  = 16
	extendedHeaderSize = 10
)

// StorageHeader is the fixed 16-byte prefix written by the storage layer
// ahead of every standard-header record: a magic pattern, a wall-clock
// timestamp, and the ECU that emitted the record.
type StorageHeader struct {
	Sec  uint32
	Usec uint32
	Ecu  string
}

// ReadStorageHeader advances the cursor past the 16-byte storage header.
// It fails with ErrBadMagic if the leading 4 bytes are not "DLT\x01".
func ReadStorageHeader(c *Cursor) (StorageHeader, error) {
	magic, err := c.take4()
	if err != nil {
		return StorageHeader{}, err
	}
	if magic != storageMagic {
		return StorageHeader{}, fmt.Errorf("%w: got %x", ErrBadMagic, magic)
	}

	sec, err := c.ReadU32(BigEndian)
	if err != nil {
		return StorageHeader{}, err
	}
	usec, err := c.ReadU32(BigEndian)
	if err != nil {
		return StorageHeader{}, err
	}
	ecu, err := c.ReadFixedASCII(4)
	if err != nil {
		return StorageHeader{}, err
	}

	return StorageHeader{Sec: sec, Usec: usec, Ecu: ecu}, nil
}

// take4 reads the 4-byte magic pattern without the UTF-8 validation that
// ReadFixedASCII applies, since a mismatch is reported as ErrBadMagic
// rather than ErrInvalidUTF8.
func (c *Cursor) take4() ([4]byte, error) {
	var out [4]byte
	b, err := c.take(4)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// HTYP flag bits, standard header byte 0.
const (
	htypExtendedHeader = 0x01
	htypMSBFirst       = 0x02
	htypEcuID          = 0x04
	htypSessionID      = 0x08
	htypTimestamp      = 0x10
	htypVersionMask    = 0xE0
)

// StandardHeader is the fixed 4-byte prefix plus the conditional fields
// selected by HTYP: ECU id, session id, timestamp, in that order.
type StandardHeader struct {
	Htyp      uint8
	Counter   uint8
	MsgLength uint16

	EcuID     string // zero value if !HasEcuID()
	SessionID uint32 // zero value if !HasSessionID()
	Timestamp uint32 // zero value if !HasTimestamp()

	// headerLen is the number of bytes this header itself occupied,
	// used by the iterator to derive payload_size. Not part of the wire
	// format.
	headerLen int
}

func (h StandardHeader) HasExtendedHeader() bool { return h.Htyp&htypExtendedHeader != 0 }
func (h StandardHeader) IsBigEndian() bool       { return h.Htyp&htypMSBFirst != 0 }
func (h StandardHeader) HasEcuID() bool          { return h.Htyp&htypEcuID != 0 }
func (h StandardHeader) HasSessionID() bool      { return h.Htyp&htypSessionID != 0 }
func (h StandardHeader) HasTimestamp() bool      { return h.Htyp&htypTimestamp != 0 }
func (h StandardHeader) Version() uint8          { return (h.Htyp & htypVersionMask) >> 5 }

// ByteOrder returns the payload byte order selected by HTYP bit 1.
func (h StandardHeader) ByteOrder() ByteOrder {
	if h.IsBigEndian() {
		return BigEndian
	}
	return LittleEndian
}

// HeaderLen returns the number of bytes this standard header consumed,
// including whichever conditional fields HTYP selected.
func (h StandardHeader) HeaderLen() int { return h.headerLen }

// ReadStandardHeader reads HTYP, the message counter, the total message
// length, then the conditional fields HTYP selects, in wire order.
func ReadStandardHeader(c *Cursor) (StandardHeader, error) {
	start := c.Pos()

	htyp, err := c.ReadU8()
	if err != nil {
		return StandardHeader{}, err
	}
	counter, err := c.ReadU8()
	if err != nil {
		return StandardHeader{}, err
	}
	msgLength, err := c.ReadU16(BigEndian)
	if err != nil {
		return StandardHeader{}, err
	}

	h := StandardHeader{Htyp: htyp, Counter: counter, MsgLength: msgLength}

	if h.HasEcuID() {
		ecuID, err := c.ReadFixedASCII(4)
		if err != nil {
			return StandardHeader{}, err
		}
		h.EcuID = ecuID
	}
	if h.HasSessionID() {
		sessionID, err := c.ReadU32(BigEndian)
		if err != nil {
			return StandardHeader{}, err
		}
		h.SessionID = sessionID
	}
	if h.HasTimestamp() {
		timestamp, err := c.ReadU32(BigEndian)
		if err != nil {
			return StandardHeader{}, err
		}
		h.Timestamp = timestamp
	}

	h.headerLen = c.Pos() - start
	return h, nil
}

// MessageTypeClass is MSIN bits 1-3.
type MessageTypeClass uint8

const (
	MsgTypeLog          MessageTypeClass = 0
	MsgTypeAppTrace     MessageTypeClass = 1
	MsgTypeNetworkTrace MessageTypeClass = 2
	MsgTypeControl      MessageTypeClass = 3
	MsgTypeReserved     MessageTypeClass = 0xFF
)

func (t MessageTypeClass) String() string {
	switch t {
	case MsgTypeLog:
		return "Log"
	case MsgTypeAppTrace:
		return "AppTrace"
	case MsgTypeNetworkTrace:
		return "NetworkTrace"
	case MsgTypeControl:
		return "Control"
	default:
		return "Reserved"
	}
}

// ExtendedHeader is the fixed 10-byte extended header present whenever the
// standard header's HTYP bit 0 is set.
type ExtendedHeader struct {
	Msin      uint8
	ArgCount  uint8
	AppID     string
	ContextID string
}

const (
	msinVerbose     = 0x01
	msinTypeMask    = 0x0E
	msinSubInfoMask = 0xF0
)

func (h ExtendedHeader) IsVerbose() bool { return h.Msin&msinVerbose != 0 }

// MessageTypeClass decodes MSIN bits 1-3.
func (h ExtendedHeader) MessageTypeClass() MessageTypeClass {
	switch (h.Msin & msinTypeMask) >> 1 {
	case 0:
		return MsgTypeLog
	case 1:
		return MsgTypeAppTrace
	case 2:
		return MsgTypeNetworkTrace
	case 3:
		return MsgTypeControl
	default:
		return MsgTypeReserved
	}
}

// MessageTypeSubInfo returns the raw MSIN bits 4-7; interpretation depends
// on MessageTypeClass.
func (h ExtendedHeader) MessageTypeSubInfo() uint8 {
	return (h.Msin & msinSubInfoMask) >> 4
}

// ReadExtendedHeader reads the 10-byte extended header. In non-verbose mode
// the argument-count byte is forced to zero regardless of its wire value.
func ReadExtendedHeader(c *Cursor) (ExtendedHeader, error) {
	msin, err := c.ReadU8()
	if err != nil {
		return ExtendedHeader{}, err
	}
	argCountByte, err := c.ReadU8()
	if err != nil {
		return ExtendedHeader{}, err
	}
	appID, err := c.ReadFixedASCII(4)
	if err != nil {
		return ExtendedHeader{}, err
	}
	contextID, err := c.ReadFixedASCII(4)
	if err != nil {
		return ExtendedHeader{}, err
	}

	h := ExtendedHeader{Msin: msin, AppID: appID, ContextID: contextID}
	if h.IsVerbose() {
		h.ArgCount = argCountByte
	}
	return h, nil
}
