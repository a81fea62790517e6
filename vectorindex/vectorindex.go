// Package vectorindex implements the dense 256x256x8 byte prefilter that
// bounds a segment-index binary search to a single vector cell's range.
package vectorindex

import (
	"github.com/regionxdb/xdb/internal/xdbcodec"
	"github.com/regionxdb/xdb/xdbheader"
)

// CellSize is the byte width of one vector-index cell: two little-endian
// u32 pointers, (sPtr, ePtr).
const CellSize = xdbheader.VectorIndexCellSize

// Offset returns the absolute file offset of the vector cell addressed by
// the first two key bytes (i, j), including the 256-byte header skip.
func Offset(i, j byte) int64 {
	cellOffset := int64(i)*xdbheader.VectorIndexCols*CellSize + int64(j)*CellSize
	return xdbheader.HeaderSize + cellOffset
}

// Range is the [sPtr, ePtr) segment-index byte range a vector cell points
// at. An Empty range means no segment record exists for this (i, j) prefix.
type Range struct {
	Start uint32
	End   uint32
}

// Empty reports whether the cell covers no segment records.
func (r Range) Empty() bool {
	return r.Start == r.End
}

// Decode reads an 8-byte cell buffer into a Range.
func Decode(cell []byte) (Range, error) {
	sPtr, err := xdbcodec.U32(cell, 0)
	if err != nil {
		return Range{}, err
	}
	ePtr, err := xdbcodec.U32(cell, 4)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: uint32(sPtr), End: uint32(ePtr)}, nil
}
