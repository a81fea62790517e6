// Package segment implements the bounded binary search over fixed-width
// segment-index records, using a version-specific key comparator: natural
// lexicographic order for IPv6, reversed-endpoint order for IPv4.
package segment

import (
	"fmt"

	"github.com/regionxdb/xdb/internal/xdbcodec"
	"github.com/regionxdb/xdb/ipkey"
)

// RecordSize returns S = 2*N + 2 + 4 for a version's key width N: two
// N-byte endpoints, a u16 payload length, and a u32 payload pointer.
func RecordSize(v ipkey.Version) int {
	n := v.Width()
	return 2*n + 2 + 4
}

// Record is a decoded segment-index entry.
type Record struct {
	Low, High []byte
	DataLen   uint16
	DataPtr   uint32
}

// reader is the subset of store.Store the binary search needs: a generic
// byte-range read. Kept narrow so segment has no import-cycle dependency on
// the store package.
type reader interface {
	Read(offset int64, length int) ([]byte, error)
}

// decodeRecord parses one S-byte record. n is the key width (4 or 16).
func decodeRecord(buf []byte, n int) (Record, error) {
	dataLen, err := xdbcodec.U16(buf, 2*n)
	if err != nil {
		return Record{}, err
	}
	dataPtr, err := xdbcodec.U32(buf, 2*n+2)
	if err != nil {
		return Record{}, err
	}
	low := make([]byte, n)
	high := make([]byte, n)
	copy(low, buf[0:n])
	copy(high, buf[n:2*n])
	return Record{
		Low:     low,
		High:    high,
		DataLen: dataLen,
		DataPtr: uint32(dataPtr),
	}, nil
}

// compare returns -1/0/+1 comparing key to the N-byte record field at
// field[off:off+n], using the version-specific endpoint-read direction:
// forward for v6 (natural lexicographic order), reverse for v4 (the
// on-disk field stores each endpoint byte-reversed).
func compare(v ipkey.Version, key []byte, field []byte, off, n int) int {
	if v == ipkey.V6 {
		for i := 0; i < n; i++ {
			a, b := key[i], field[off+i]
			if a != b {
				if a < b {
					return -1
				}
				return 1
			}
		}
		return 0
	}
	for i := 0; i < n; i++ {
		a, b := key[i], field[off+(n-1-i)]
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Search performs the bounded half-interval search over the segment records
// in the byte range [sPtr, ePtr) of r, using the version-specific
// comparator. It returns the zero Record and found=false on a miss; a miss
// is not an error.
func Search(r reader, v ipkey.Version, key []byte, sPtr, ePtr uint32) (Record, bool, error) {
	n := v.Width()
	if len(key) != n {
		return Record{}, false, fmt.Errorf("segment: key width %d does not match version width %d", len(key), n)
	}
	s := RecordSize(v)
	if sPtr == ePtr {
		return Record{}, false, nil
	}

	total := int64(ePtr-sPtr) / int64(s)
	l, h := int64(0), total-1
	for l <= h {
		m := l + (h-l)/2
		probe := int64(sPtr) + m*int64(s)

		rec, err := r.Read(probe, s)
		if err != nil {
			return Record{}, false, err
		}

		switch {
		case compare(v, key, rec, 0, n) < 0:
			h = m - 1
		case compare(v, key, rec, n, n) > 0:
			l = m + 1
		default:
			out, err := decodeRecord(rec, n)
			if err != nil {
				return Record{}, false, err
			}
			return out, true, nil
		}
	}
	return Record{}, false, nil
}
