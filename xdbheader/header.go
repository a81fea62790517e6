// Package xdbheader parses and validates the 256-byte XDB file header.
package xdbheader

import (
	"errors"
	"fmt"

	"github.com/regionxdb/xdb/internal/xdbcodec"
)

// HeaderSize is the fixed size of the XDB header prefix.
const HeaderSize = 256

// VectorIndexRows, VectorIndexCols and VectorIndexCellSize describe the
// dense 256x256x8 byte vector index that immediately follows the header.
const (
	VectorIndexRows     = 256
	VectorIndexCols     = 256
	VectorIndexCellSize = 8
	VectorIndexSize     = VectorIndexRows * VectorIndexCols * VectorIndexCellSize // 524288
)

const (
	// StructureV2 is the legacy, IPv4-only structure.
	StructureV2 = uint16(2)
	// StructureV3 is the v4-or-v6 structure that declares ip_version and
	// runtime_ptr_bytes explicitly.
	StructureV3 = uint16(3)
)

var (
	// ErrUnsupportedStructure is returned when structure_version is not 2
	// or 3, or when ip_version decodes to neither 4 nor 6.
	ErrUnsupportedStructure = errors.New("xdbheader: unsupported structure version")
	// ErrFileTooLarge is returned when the file size exceeds what
	// runtime_ptr_bytes can address.
	ErrFileTooLarge = errors.New("xdbheader: file too large for declared pointer width")
)

// Header is the decoded, validated 256-byte XDB header prefix.
type Header struct {
	StructureVersion uint16
	IndexPolicy      uint16
	CreatedAt        uint32
	StartIndexPtr    uint32
	EndIndexPtr      uint32
	IPVersion        uint16
	RuntimePtrBytes  uint16
}

// Load decodes a Header from a 256-byte buffer. It rejects an unsupported
// structure_version or ip_version with ErrUnsupportedStructure, but does
// not check the file size against the pointer width; call Verify for that.
func Load(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, xdbcodec.ErrShortBuffer
	}

	structureVersion, err := xdbcodec.U16(buf, 0)
	if err != nil {
		return Header{}, err
	}

	h := Header{StructureVersion: structureVersion}

	indexPolicy, err := xdbcodec.U16(buf, 2)
	if err != nil {
		return Header{}, err
	}
	h.IndexPolicy = indexPolicy

	createdAt, err := xdbcodec.U32(buf, 4)
	if err != nil {
		return Header{}, err
	}
	h.CreatedAt = uint32(createdAt)

	startIndexPtr, err := xdbcodec.U32(buf, 8)
	if err != nil {
		return Header{}, err
	}
	h.StartIndexPtr = uint32(startIndexPtr)

	endIndexPtr, err := xdbcodec.U32(buf, 12)
	if err != nil {
		return Header{}, err
	}
	h.EndIndexPtr = uint32(endIndexPtr)

	switch structureVersion {
	case StructureV2:
		// Legacy structure: always IPv4, pointer width fixed at 4 bytes.
		h.IPVersion = 4
		h.RuntimePtrBytes = 4
	case StructureV3:
		ipVersion, err := xdbcodec.U16(buf, 16)
		if err != nil {
			return Header{}, err
		}
		runtimePtrBytes, err := xdbcodec.U16(buf, 18)
		if err != nil {
			return Header{}, err
		}
		if ipVersion != 4 && ipVersion != 6 {
			return Header{}, fmt.Errorf("%w: ip_version=%d", ErrUnsupportedStructure, ipVersion)
		}
		h.IPVersion = ipVersion
		h.RuntimePtrBytes = runtimePtrBytes
	default:
		return Header{}, fmt.Errorf("%w: structure_version=%d", ErrUnsupportedStructure, structureVersion)
	}

	return h, nil
}

// Verify checks that fileSize fits within the pointer width declared by the
// header. Call after Load.
func Verify(h Header, fileSize int64) error {
	if h.RuntimePtrBytes == 0 || h.RuntimePtrBytes > 8 {
		return fmt.Errorf("%w: runtime_ptr_bytes=%d", ErrUnsupportedStructure, h.RuntimePtrBytes)
	}
	maxPtr := (uint64(1) << (8 * h.RuntimePtrBytes)) - 1
	if uint64(fileSize) > maxPtr {
		return fmt.Errorf("%w: file size %d exceeds max addressable offset %d", ErrFileTooLarge, fileSize, maxPtr)
	}
	return nil
}
