package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/regionxdb/xdb/internal/xdbcodec"
	"github.com/regionxdb/xdb/vectorindex"
	"github.com/regionxdb/xdb/xdbheader"
	"github.com/stretchr/testify/require"
)

const tailMarker = "end-of-file-marker"

func buildFixture(t *testing.T) (content []byte, cellOffset int64) {
	t.Helper()
	size := xdbheader.HeaderSize + xdbheader.VectorIndexSize + len(tailMarker)
	content = make([]byte, size)

	cellOffset = vectorindex.Offset(5, 10)
	xdbcodec.PutU32(content, int(cellOffset), 1000)
	xdbcodec.PutU32(content, int(cellOffset)+4, 2000)

	copy(content[xdbheader.HeaderSize+xdbheader.VectorIndexSize:], tailMarker)
	return content, cellOffset
}

func writeTempFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.xdb")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestStoreVariants_Equivalence(t *testing.T) {
	content, _ := buildFixture(t)
	path := writeTempFile(t, content)
	tailOffset := int64(xdbheader.HeaderSize + xdbheader.VectorIndexSize)

	fileOnly, err := OpenFile(path, false)
	require.NoError(t, err)
	defer fileOnly.Close()

	viBytes := make([]byte, VectorIndexSize)
	copy(viBytes, content[xdbheader.HeaderSize:xdbheader.HeaderSize+xdbheader.VectorIndexSize])
	withVI, err := OpenFileWithVectorIndex(path, false, viBytes)
	require.NoError(t, err)
	defer withVI.Close()

	buffered := OpenBuffer(content)
	defer buffered.Close()

	for name, s := range map[string]Store{"file": fileOnly, "file+vi": withVI, "buffer": buffered} {
		t.Run(name, func(t *testing.T) {
			s.ResetIOCount()
			cell, err := s.VectorCell(5, 10)
			require.NoError(t, err)
			require.Equal(t, vectorindex.Range{Start: 1000, End: 2000}, cell)

			empty, err := s.VectorCell(0, 0)
			require.NoError(t, err)
			require.True(t, empty.Empty())

			tail, err := s.Read(tailOffset, len(tailMarker))
			require.NoError(t, err)
			require.Equal(t, tailMarker, string(tail))
		})
	}
}

func TestFileStore_CountsEveryRead(t *testing.T) {
	content, _ := buildFixture(t)
	path := writeTempFile(t, content)

	s, err := OpenFile(path, false)
	require.NoError(t, err)
	defer s.Close()

	s.ResetIOCount()
	_, err = s.VectorCell(5, 10)
	require.NoError(t, err)
	require.Equal(t, uint32(1), s.IOCount())

	_, err = s.Read(0, 4)
	require.NoError(t, err)
	require.Equal(t, uint32(2), s.IOCount())

	s.ResetIOCount()
	require.Equal(t, uint32(0), s.IOCount())
}

func TestVectorIndexStore_ServesCellWithoutIO(t *testing.T) {
	content, _ := buildFixture(t)
	path := writeTempFile(t, content)

	viBytes := make([]byte, VectorIndexSize)
	copy(viBytes, content[xdbheader.HeaderSize:xdbheader.HeaderSize+xdbheader.VectorIndexSize])

	s, err := OpenFileWithVectorIndex(path, false, viBytes)
	require.NoError(t, err)
	defer s.Close()

	s.ResetIOCount()
	_, err = s.VectorCell(5, 10)
	require.NoError(t, err)
	require.Equal(t, uint32(0), s.IOCount())
}

func TestOpenFileWithVectorIndex_RejectsWrongSize(t *testing.T) {
	content, _ := buildFixture(t)
	path := writeTempFile(t, content)

	_, err := OpenFileWithVectorIndex(path, false, make([]byte, 10))
	require.ErrorIs(t, err, ErrVectorIndexSize)
}

func TestBufferStore_ZeroIOCount(t *testing.T) {
	content, _ := buildFixture(t)
	s := OpenBuffer(content)

	_, err := s.VectorCell(5, 10)
	require.NoError(t, err)
	require.Equal(t, uint32(0), s.IOCount())
}

func TestBufferStore_ShortRead(t *testing.T) {
	content, _ := buildFixture(t)
	s := OpenBuffer(content)

	_, err := s.Read(int64(len(content)-2), 10)
	require.ErrorIs(t, err, ErrShortRead)
}

func TestOpenFile_NotFound(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.xdb"), false)
	require.ErrorIs(t, err, ErrOpenFailed)
}

func TestFileStore_MmapBackedReadsMatchPlainFile(t *testing.T) {
	content, _ := buildFixture(t)
	path := writeTempFile(t, content)
	tailOffset := int64(xdbheader.HeaderSize + xdbheader.VectorIndexSize)

	s, err := OpenFile(path, true)
	require.NoError(t, err)
	defer s.Close()

	s.ResetIOCount()
	cell, err := s.VectorCell(5, 10)
	require.NoError(t, err)
	require.Equal(t, vectorindex.Range{Start: 1000, End: 2000}, cell)
	require.Equal(t, uint32(1), s.IOCount())

	tail, err := s.Read(tailOffset, len(tailMarker))
	require.NoError(t, err)
	require.Equal(t, tailMarker, string(tail))
}

func TestOpenFileWithVectorIndex_Mmap(t *testing.T) {
	content, _ := buildFixture(t)
	path := writeTempFile(t, content)

	viBytes := make([]byte, VectorIndexSize)
	copy(viBytes, content[xdbheader.HeaderSize:xdbheader.HeaderSize+xdbheader.VectorIndexSize])

	s, err := OpenFileWithVectorIndex(path, true, viBytes)
	require.NoError(t, err)
	defer s.Close()

	s.ResetIOCount()
	cell, err := s.VectorCell(5, 10)
	require.NoError(t, err)
	require.Equal(t, vectorindex.Range{Start: 1000, End: 2000}, cell)
	require.Equal(t, uint32(0), s.IOCount())
}
