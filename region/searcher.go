// Package region implements the search façade: it orchestrates IP parsing,
// vector-index prefiltering, segment binary search, and payload reads
// behind a single Searcher type, and owns the engine's lifecycle.
package region

import (
	"errors"
	"fmt"
	"os"

	"github.com/regionxdb/xdb/ipkey"
	"github.com/regionxdb/xdb/metrics"
	"github.com/regionxdb/xdb/segment"
	"github.com/regionxdb/xdb/store"
	"github.com/regionxdb/xdb/xdbheader"
	"k8s.io/klog/v2"
)

// ErrClosed is returned by any query issued after Close.
var ErrClosed = errors.New("region: engine closed")

// ErrVersionMismatch is returned when a key's width does not match the
// engine's constructed version, or when the file's declared ip_version
// disagrees with it.
var ErrVersionMismatch = errors.New("region: version mismatch")

// Searcher is a constructed XDB lookup engine. It is not safe for
// concurrent use: the I/O counter and the underlying file's seek position
// are per-instance, unsynchronized state.
type Searcher struct {
	store    store.Store
	version  ipkey.Version
	fileSize int64
	header   *xdbheader.Header
	closed   bool
	metrics  *metrics.Set
}

// Open opens path for file-only access: every read, including vector-cell
// lookups, issues a seek+read against the file and counts an I/O operation.
// useMmap selects an mmap-backed file handle instead of a plain *os.File;
// both are read identically by the rest of the engine.
func Open(version ipkey.Version, path string, useMmap bool) (*Searcher, error) {
	size, err := statSize(path)
	if err != nil {
		return nil, err
	}
	s, err := store.OpenFile(path, useMmap)
	if err != nil {
		return nil, err
	}
	return &Searcher{store: s, version: version, fileSize: size}, nil
}

// OpenWithVectorIndex opens path for general reads, but serves vector-cell
// lookups from a caller-preloaded 524288-byte slice without touching the
// file, matching the file's [256, 256+524288) region. useMmap selects an
// mmap-backed file handle for the reads that do fall through.
func OpenWithVectorIndex(version ipkey.Version, path string, useMmap bool, viBytes []byte) (*Searcher, error) {
	size, err := statSize(path)
	if err != nil {
		return nil, err
	}
	s, err := store.OpenFileWithVectorIndex(path, useMmap, viBytes)
	if err != nil {
		return nil, err
	}
	return &Searcher{store: s, version: version, fileSize: size}, nil
}

// OpenWithBuffer wraps the complete file content in memory; no file handle
// is held, and the I/O counter stays at zero.
func OpenWithBuffer(version ipkey.Version, content []byte) (*Searcher, error) {
	return &Searcher{
		store:    store.OpenBuffer(content),
		version:  version,
		fileSize: int64(len(content)),
	}, nil
}

// WithMetrics attaches a metrics.Set that ObserveQuery is reported to after
// every query. Pass nil to detach (the default).
func (s *Searcher) WithMetrics(m *metrics.Set) *Searcher {
	s.metrics = m
	return s
}

func statSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", store.ErrOpenFailed, path, err)
	}
	return fi.Size(), nil
}

// ensureHeader lazily loads and verifies the 256-byte header on first use,
// matching the external interface contract: version mismatch is reported
// at first query, not at construction, so engines can be built lazily.
func (s *Searcher) ensureHeader() error {
	if s.header != nil {
		return nil
	}
	buf, err := s.store.Read(0, xdbheader.HeaderSize)
	if err != nil {
		return err
	}
	h, err := xdbheader.Load(buf)
	if err != nil {
		return err
	}
	if err := xdbheader.Verify(h, s.fileSize); err != nil {
		return err
	}
	if ipkey.Version(h.IPVersion) != s.version {
		return fmt.Errorf("%w: engine constructed for v%d, file declares ip_version=%d", ErrVersionMismatch, s.version, h.IPVersion)
	}
	s.header = &h
	return nil
}

// SearchText parses ip text and searches for its region payload. Fails with
// ErrInvalidAddress if text is neither a valid IPv4 nor IPv6 address, or
// ErrVersionMismatch if the parsed address's family does not match the
// engine's constructed version.
func (s *Searcher) SearchText(text string) ([]byte, error) {
	key, err := ipkey.Parse(text)
	if err != nil {
		return nil, err
	}
	return s.SearchBytes(key.Bytes)
}

// SearchBytes looks up the region payload for a raw key. key must be
// exactly 4 bytes for a v4 engine or 16 bytes for a v6 engine; any other
// width fails with ErrVersionMismatch. A well-formed key with no matching
// range returns an empty, non-nil payload and a nil error — this is a
// successful miss, not an error.
func (s *Searcher) SearchBytes(key []byte) ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if len(key) != s.version.Width() {
		return nil, fmt.Errorf("%w: key width %d, engine width %d", ErrVersionMismatch, len(key), s.version.Width())
	}
	if err := s.ensureHeader(); err != nil {
		return nil, err
	}

	s.store.ResetIOCount()

	cell, err := s.store.VectorCell(key[0], key[1])
	if err != nil {
		return nil, err
	}
	if cell.Empty() {
		s.observe(false)
		return []byte{}, nil
	}

	rec, found, err := segment.Search(s.store, s.version, key, cell.Start, cell.End)
	if err != nil {
		return nil, err
	}
	if !found || rec.DataLen == 0 {
		s.observe(false)
		return []byte{}, nil
	}

	payload, err := s.store.Read(int64(rec.DataPtr), int(rec.DataLen))
	if err != nil {
		return nil, err
	}
	s.observe(true)
	klog.V(4).Infof("region: hit key=%x dataPtr=%d dataLen=%d ioCount=%d", key, rec.DataPtr, rec.DataLen, s.store.IOCount())
	return payload, nil
}

func (s *Searcher) observe(hit bool) {
	s.metrics.ObserveQuery(hit, s.store.IOCount())
}

// IOCount reports the number of backing-store reads issued by the most
// recent query. It is reset at the start of every SearchBytes/SearchText
// call.
func (s *Searcher) IOCount() uint32 {
	return s.store.IOCount()
}

// Close releases the underlying file handle, if one is held. Idempotent:
// calling Close twice is safe. Any query issued after Close fails with
// ErrClosed.
func (s *Searcher) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.store.Close()
}

// Header returns the decoded file header, loading it on first call.
func (s *Searcher) Header() (xdbheader.Header, error) {
	if s.closed {
		return xdbheader.Header{}, ErrClosed
	}
	if err := s.ensureHeader(); err != nil {
		return xdbheader.Header{}, err
	}
	return *s.header, nil
}

// FileSize reports the size, in bytes, of the backing file or buffer.
func (s *Searcher) FileSize() int64 {
	return s.fileSize
}

