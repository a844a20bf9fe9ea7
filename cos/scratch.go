package cos

import (
	"fmt"
	"io"
	"os"
)

// ScratchFile is the random-access backing store for stream payloads
// (§4.3): an arena-per-document allocator over a temp file. Allocating
// an offset and writing the payload there means Stream values never
// carry an open file handle of their own — only an (offset, length)
// descriptor borrowed from the document for the duration of a read.
type ScratchFile struct {
	f      *os.File
	size   int64
	closed bool
}

// newScratchFile creates a fresh temp file under dir (os.TempDir() if
// empty).
func newScratchFile(dir string) (*ScratchFile, error) {
	f, err := os.CreateTemp(dir, "gopdfcos-scratch-*")
	if err != nil {
		return nil, err
	}
	return &ScratchFile{f: f}, nil
}

// Allocate reserves n bytes at the end of the arena and returns their
// offset, without writing anything.
func (s *ScratchFile) Allocate(n int64) (int64, error) {
	if s.closed {
		return 0, ErrDocumentClosed
	}
	offset := s.size
	s.size += n
	return offset, nil
}

// WriteAt writes data at offset, which must have been returned by
// Allocate (or fall within a previously allocated region).
func (s *ScratchFile) WriteAt(offset int64, data []byte) error {
	if s.closed {
		return ErrDocumentClosed
	}
	_, err := s.f.WriteAt(data, offset)
	return err
}

// ReaderAt returns a Reader over [offset, offset+length) of the arena.
// The Reader borrows the document's underlying file descriptor and is
// only valid until the owning Document is closed.
func (s *ScratchFile) ReaderAt(offset, length int64) (*ScratchReader, error) {
	if s.closed {
		return nil, ErrDocumentClosed
	}
	return &ScratchReader{sf: s, base: offset, length: length}, nil
}

// Close releases the backing temp file. Idempotent.
func (s *ScratchFile) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	name := s.f.Name()
	err := s.f.Close()
	if rmErr := os.Remove(name); err == nil {
		err = rmErr
	}
	return err
}

// ScratchReader is an io.Reader bounded to one stream payload's region
// of the scratch file.
type ScratchReader struct {
	sf     *ScratchFile
	base   int64
	length int64
	pos    int64
}

func (r *ScratchReader) Read(p []byte) (int, error) {
	if r.sf.closed {
		return 0, ErrDocumentClosed
	}
	remaining := r.length - r.pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := r.sf.f.ReadAt(p, r.base+r.pos)
	r.pos += int64(n)
	if err == io.EOF && int64(n) == remaining {
		err = nil
	}
	return n, err
}

// String implements fmt.Stringer for debugging only.
func (r *ScratchReader) String() string {
	return fmt.Sprintf("ScratchReader[%d:%d]", r.base, r.base+r.length)
}
