package car

import (
	"errors"
	"io"

	"github.com/multiformats/go-varint"
	"github.com/storacha/go-carbites/core/failure"
)

// MaxSectionSize is the default limit on the declared length of a header or
// section, bounding the allocation a corrupt archive can cause.
const MaxSectionSize = 32 << 20

type byteReader interface {
	io.Reader
	io.ByteReader
}

// oneByteReader reads single bytes from an [io.Reader] without buffering
// ahead, so the reader position is exact after every call.
type oneByteReader struct {
	io.Reader
	b [1]byte
}

func (r *oneByteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(r.Reader, r.b[:]); err != nil {
		return 0, err
	}
	return r.b[0], nil
}

func toByteReader(r io.Reader) byteReader {
	if br, ok := r.(byteReader); ok {
		return br
	}
	return &oneByteReader{Reader: r}
}

// readLength reads a section length prefix. It returns [io.EOF] only when
// the source ends before the first byte.
func readLength(r io.ByteReader) (uint64, error) {
	l, err := varint.ReadUvarint(r)
	if err != nil {
		if err == io.EOF {
			return 0, io.EOF
		}
		if errors.Is(err, varint.ErrOverflow) || errors.Is(err, varint.ErrNotMinimal) {
			return 0, failure.NewParsingError("reading length prefix", err)
		}
		return 0, failure.NewIOError("reading length prefix", err)
	}
	return l, nil
}

// ReadBlock reads one length prefixed block. It returns [io.EOF] when r is
// exhausted before the length prefix starts, a [failure.TooLargeSectionError]
// when the length exceeds limit, and a [failure.IOError] when r ends before
// the block does. A limit of 0 means [MaxSectionSize].
func ReadBlock(r io.Reader, limit uint64) ([]byte, error) {
	if limit == 0 {
		limit = MaxSectionSize
	}
	br := toByteReader(r)
	l, err := readLength(br)
	if err != nil {
		return nil, err
	}
	if l > limit {
		return nil, failure.NewTooLargeSectionError(l, limit)
	}
	data := make([]byte, l)
	if _, err := io.ReadFull(br, data); err != nil {
		return nil, failure.NewIOError("reading block", err)
	}
	return data, nil
}
