package xdbheader

import (
	"testing"

	"github.com/regionxdb/xdb/internal/xdbcodec"
	"github.com/stretchr/testify/require"
)

func makeHeaderBuf(t *testing.T, structureVersion, ipVersion, runtimePtrBytes uint16, startIndexPtr, endIndexPtr uint32) []byte {
	t.Helper()
	buf := make([]byte, HeaderSize)
	xdbcodec.PutU16(buf, 0, structureVersion)
	xdbcodec.PutU16(buf, 2, 0) // index policy
	xdbcodec.PutU32(buf, 4, 1700000000)
	xdbcodec.PutU32(buf, 8, startIndexPtr)
	xdbcodec.PutU32(buf, 12, endIndexPtr)
	xdbcodec.PutU16(buf, 16, ipVersion)
	xdbcodec.PutU16(buf, 18, runtimePtrBytes)
	return buf
}

func TestLoad_V3(t *testing.T) {
	buf := makeHeaderBuf(t, StructureV3, 6, 4, 262400, 1000000)

	h, err := Load(buf)
	require.NoError(t, err)
	require.Equal(t, StructureV3, h.StructureVersion)
	require.Equal(t, uint16(6), h.IPVersion)
	require.Equal(t, uint16(4), h.RuntimePtrBytes)
	require.Equal(t, uint32(262400), h.StartIndexPtr)
	require.Equal(t, uint32(1000000), h.EndIndexPtr)
}

func TestLoad_V2LegacyImpliesV4AndPtrWidth(t *testing.T) {
	buf := makeHeaderBuf(t, StructureV2, 0xffff, 0xffff, 256, 512)

	h, err := Load(buf)
	require.NoError(t, err)
	require.Equal(t, uint16(4), h.IPVersion)
	require.Equal(t, uint16(4), h.RuntimePtrBytes)
}

func TestLoad_UnsupportedStructureVersion(t *testing.T) {
	buf := makeHeaderBuf(t, 9, 4, 4, 256, 512)

	_, err := Load(buf)
	require.ErrorIs(t, err, ErrUnsupportedStructure)
}

func TestLoad_UnsupportedIPVersion(t *testing.T) {
	buf := makeHeaderBuf(t, StructureV3, 5, 4, 256, 512)

	_, err := Load(buf)
	require.ErrorIs(t, err, ErrUnsupportedStructure)
}

func TestLoad_ShortBuffer(t *testing.T) {
	_, err := Load(make([]byte, 10))
	require.ErrorIs(t, err, xdbcodec.ErrShortBuffer)
}

func TestVerify_FileTooLarge(t *testing.T) {
	h := Header{RuntimePtrBytes: 1} // max addressable offset 255
	err := Verify(h, 1000)
	require.ErrorIs(t, err, ErrFileTooLarge)
}

func TestVerify_OK(t *testing.T) {
	h := Header{RuntimePtrBytes: 4}
	err := Verify(h, 10_000_000)
	require.NoError(t, err)
}
