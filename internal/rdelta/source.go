package rdelta

import "io"

// ForwardSource is a single-pass, read-only view of a byte sequence. The
// signature builder and the delta synthesizer only require this
// capability, so they work equally over in-memory buffers and streamed
// file reads. It is satisfied directly by io.Reader.
type ForwardSource = io.Reader

// RandomAccessSource is a read-only view of a byte sequence that
// supports reading an arbitrary range without disturbing any other
// range. The patcher requires this capability to service COPY_CHUNK
// instructions. It is satisfied directly by io.ReaderAt (and so by
// *os.File).
type RandomAccessSource = io.ReaderAt

// seekingSource adapts an io.ReadSeeker to RandomAccessSource for
// callers that have seekable access but not true ReaderAt semantics
// (e.g. a source where concurrent ReadAt calls would race). Each ReadAt
// seeks to the requested offset and then reads from there; a
// forward-only source without Seek is not supported.
type seekingSource struct {
	rs io.ReadSeeker
}

// NewSeekingSource adapts an io.ReadSeeker into a RandomAccessSource.
// The returned source is not safe for concurrent use, since each ReadAt
// call seeks the underlying stream before reading.
func NewSeekingSource(rs io.ReadSeeker) RandomAccessSource {
	return &seekingSource{rs: rs}
}

func (s *seekingSource) ReadAt(p []byte, off int64) (int, error) {
	if _, err := s.rs.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return io.ReadFull(s.rs, p)
}
