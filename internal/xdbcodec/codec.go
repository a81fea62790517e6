// Package xdbcodec decodes the little-endian integers used throughout the
// XDB binary format.
package xdbcodec

import (
	"encoding/binary"
	"fmt"
)

// ErrShortBuffer is returned when a decode reaches past the end of the
// supplied slice. It indicates a corrupt or truncated XDB file.
var ErrShortBuffer = fmt.Errorf("xdbcodec: short buffer")

// U16 decodes a little-endian uint16 at off.
func U16(buf []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(buf) {
		return 0, ErrShortBuffer
	}
	return binary.LittleEndian.Uint16(buf[off : off+2]), nil
}

// U32 decodes a little-endian uint32 at off, returned as an unsigned 64-bit
// accumulator so callers on platforms with a 32-bit native int never see a
// sign-extended negative offset for files larger than 2 GiB.
func U32(buf []byte, off int) (uint64, error) {
	if off < 0 || off+4 > len(buf) {
		return 0, ErrShortBuffer
	}
	return uint64(binary.LittleEndian.Uint32(buf[off : off+4])), nil
}

// PutU16 encodes v little-endian at off.
func PutU16(buf []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(buf[off:off+2], v)
}

// PutU32 encodes v little-endian at off.
func PutU32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], v)
}
