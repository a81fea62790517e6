// Package store implements the three interchangeable backing-data strategies
// for an XDB file: seek-and-read against an open file handle, the same with
// a caller-preloaded vector index, and a fully buffered in-memory copy. All
// three satisfy the same Store contract and must answer identical queries
// identically.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/regionxdb/xdb/vectorindex"
	"github.com/regionxdb/xdb/xdbheader"
	"golang.org/x/exp/mmap"
	"k8s.io/klog/v2"
)

// ErrShortRead is returned when a backing read returns fewer bytes than
// requested.
var ErrShortRead = errors.New("store: short read")

// ErrOpenFailed wraps the original cause when opening the backing file
// fails.
var ErrOpenFailed = errors.New("store: open failed")

// readerAtCloser is the minimal handle a file-backed Store needs: random
// access reads plus a way to release the underlying descriptor.
type readerAtCloser interface {
	io.ReaderAt
	Close() error
}

// Store is the uniform backing-data contract the segment binary search and
// vector-index lookup are built against. offset/length are always absolute
// file positions, never relative to any region.
type Store interface {
	// Read returns exactly length bytes starting at offset, or ErrShortRead.
	Read(offset int64, length int) ([]byte, error)
	// VectorCell returns the decoded (sPtr, ePtr) range for the vector cell
	// addressed by the first two key bytes.
	VectorCell(i, j byte) (vectorindex.Range, error)
	// IOCount reports the number of backing reads issued since the last
	// ResetIOCount call.
	IOCount() uint32
	// ResetIOCount zeroes the counter; called at the top of every query.
	ResetIOCount()
	// Close releases any held file handle. Idempotent.
	Close() error
}

// fileStore issues a seek+read (via ReadAt) against an open file handle for
// every read, including vector-cell reads, and counts each one.
type fileStore struct {
	rac     readerAtCloser
	ioCount uint32
	closed  bool
}

// OpenFile opens path for file-only, fully counted reads. useMmap selects
// an mmap-backed ReaderAt instead of a plain *os.File; both satisfy the
// same readerAtCloser shape.
func OpenFile(path string, useMmap bool) (Store, error) {
	rac, err := openHandle(path, useMmap)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenFailed, path, err)
	}
	adviseRandom(rac)
	return &fileStore{rac: rac}, nil
}

func openHandle(path string, useMmap bool) (readerAtCloser, error) {
	if useMmap {
		return mmap.Open(path)
	}
	return os.Open(path)
}

func (s *fileStore) Read(offset int64, length int) ([]byte, error) {
	buf := make([]byte, length)
	n, err := s.rac.ReadAt(buf, offset)
	s.ioCount++
	if n < length {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: offset=%d length=%d got=%d: %v", ErrShortRead, offset, length, n, err)
	}
	return buf, nil
}

func (s *fileStore) VectorCell(i, j byte) (vectorindex.Range, error) {
	buf, err := s.Read(vectorindex.Offset(i, j), vectorindex.CellSize)
	if err != nil {
		return vectorindex.Range{}, err
	}
	return vectorindex.Decode(buf)
}

func (s *fileStore) IOCount() uint32 { return s.ioCount }
func (s *fileStore) ResetIOCount()   { s.ioCount = 0 }
func (s *fileStore) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.rac.Close()
}

// vectorIndexStore layers a caller-preloaded vector-index slice over a
// fileStore: vector-cell reads are served from memory and never touch the
// file or the counter; every other read falls through unchanged.
type vectorIndexStore struct {
	*fileStore
	vi []byte
}

// VectorIndexSize is the required length of the preloaded slice passed to
// OpenFileWithVectorIndex.
const VectorIndexSize = xdbheader.VectorIndexSize

// ErrVectorIndexSize is returned when the preloaded slice is not exactly
// VectorIndexSize bytes.
var ErrVectorIndexSize = errors.New("store: preloaded vector index must be exactly 524288 bytes")

// OpenFileWithVectorIndex opens path for general reads, but serves
// vector-cell lookups from viBytes (exactly 524288 bytes) without I/O.
func OpenFileWithVectorIndex(path string, useMmap bool, viBytes []byte) (Store, error) {
	if len(viBytes) != VectorIndexSize {
		return nil, fmt.Errorf("%w: got %d", ErrVectorIndexSize, len(viBytes))
	}
	rac, err := openHandle(path, useMmap)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenFailed, path, err)
	}
	adviseRandom(rac)
	return &vectorIndexStore{fileStore: &fileStore{rac: rac}, vi: viBytes}, nil
}

func (s *vectorIndexStore) VectorCell(i, j byte) (vectorindex.Range, error) {
	off := int(i)*256*vectorindex.CellSize + int(j)*vectorindex.CellSize
	if off+vectorindex.CellSize > len(s.vi) {
		return vectorindex.Range{}, ErrShortRead
	}
	return vectorindex.Decode(s.vi[off : off+vectorindex.CellSize])
}

// bufferStore holds the entire file resident; reads are bounded slices and
// never increment an I/O counter.
type bufferStore struct {
	buf []byte
}

// OpenBuffer wraps a fully-resident file image. The caller owns reading the
// file into content; this constructor performs no I/O itself.
func OpenBuffer(content []byte) Store {
	return &bufferStore{buf: content}
}

func (s *bufferStore) Read(offset int64, length int) ([]byte, error) {
	if offset < 0 || offset+int64(length) > int64(len(s.buf)) {
		return nil, fmt.Errorf("%w: offset=%d length=%d bufLen=%d", ErrShortRead, offset, length, len(s.buf))
	}
	return s.buf[offset : offset+int64(length)], nil
}

func (s *bufferStore) VectorCell(i, j byte) (vectorindex.Range, error) {
	buf, err := s.Read(vectorindex.Offset(i, j), vectorindex.CellSize)
	if err != nil {
		return vectorindex.Range{}, err
	}
	return vectorindex.Decode(buf)
}

func (s *bufferStore) IOCount() uint32 { return 0 }
func (s *bufferStore) ResetIOCount()   {}
func (s *bufferStore) Close() error    { return nil }

// adviseRandom hints the kernel's readahead policy toward random access,
// since lookups jump around the vector index and segment region rather
// than scanning sequentially. Best-effort: a failure here is logged, never
// surfaced.
func adviseRandom(rac readerAtCloser) {
	type fdHaver interface {
		Fd() uintptr
	}
	f, ok := rac.(fdHaver)
	if !ok {
		return
	}
	if err := fadviseRandom(f.Fd()); err != nil {
		klog.V(2).Infof("store: fadvise(RANDOM) failed: %v", err)
	}
}
