package dlt_test

import (
	"testing"

	"github.com/mabhi256/dltq/internal/dlt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadStorageHeader_OK(t *testing.T) {
	buf := buildMessage(msgOpts{ecu: "ECU1", nonVerbose: append([]byte{0, 0, 0, 1}, []byte("hi")...)})
	c := dlt.New(buf)
	sh, err := dlt.ReadStorageHeader(c)
	require.NoError(t, err)
	assert.Equal(t, "ECU1", sh.Ecu)
	assert.Equal(t, 16, c.Pos())
}

func TestReadStorageHeader_BadMagic(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x00, 0x00, 0, 0, 0, 0, 0, 0, 0, 0, 'E', 'C', 'U', '1'}
	c := dlt.New(buf)
	_, err := dlt.ReadStorageHeader(c)
	assert.ErrorIs(t, err, dlt.ErrBadMagic)
}

func TestReadStandardHeader_NoConditionalFields(t *testing.T) {
	// htyp=0 (no extended header, no ecu/session/timestamp), counter=5, msglen=10
	buf := []byte{0x00, 0x05, 0x00, 0x0a}
	c := dlt.New(buf)
	sh, err := dlt.ReadStandardHeader(c)
	require.NoError(t, err)
	assert.False(t, sh.HasExtendedHeader())
	assert.False(t, sh.HasEcuID())
	assert.Equal(t, uint16(10), sh.MsgLength)
	assert.Equal(t, 4, sh.HeaderLen())
	assert.Equal(t, dlt.LittleEndian, sh.ByteOrder())
}

func TestReadStandardHeader_AllConditionalFields(t *testing.T) {
	htyp := byte(0x01 | 0x02 | 0x04 | 0x08 | 0x10) // ext + MSB + ecu + session + timestamp
	buf := []byte{htyp, 0x00, 0x00, 0x00}
	buf = append(buf, fixed4("ECU2")...)
	buf = append(buf, 0, 0, 0, 42)   // session id
	buf = append(buf, 0, 0, 0, 100)  // timestamp
	c := dlt.New(buf)
	sh, err := dlt.ReadStandardHeader(c)
	require.NoError(t, err)
	assert.True(t, sh.HasExtendedHeader())
	assert.True(t, sh.IsBigEndian())
	assert.Equal(t, "ECU2", sh.EcuID)
	assert.Equal(t, uint32(42), sh.SessionID)
	assert.Equal(t, uint32(100), sh.Timestamp)
	assert.Equal(t, 4+4+4+4, sh.HeaderLen())
}

func TestReadExtendedHeader_NonVerboseForcesZeroArgCount(t *testing.T) {
	buf := []byte{0x00, 99} // msin=0 (non-verbose), argCountByte=99
	buf = append(buf, fixed4("APP1")...)
	buf = append(buf, fixed4("CTX1")...)
	c := dlt.New(buf)
	eh, err := dlt.ReadExtendedHeader(c)
	require.NoError(t, err)
	assert.False(t, eh.IsVerbose())
	assert.Equal(t, uint8(0), eh.ArgCount)
	assert.Equal(t, "APP1", eh.AppID)
	assert.Equal(t, "CTX1", eh.ContextID)
}

func TestReadExtendedHeader_VerboseKeepsArgCount(t *testing.T) {
	buf := []byte{0x01, 3}
	buf = append(buf, fixed4("APP1")...)
	buf = append(buf, fixed4("CTX1")...)
	c := dlt.New(buf)
	eh, err := dlt.ReadExtendedHeader(c)
	require.NoError(t, err)
	assert.True(t, eh.IsVerbose())
	assert.Equal(t, uint8(3), eh.ArgCount)
}
