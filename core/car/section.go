package car

import (
	"io"

	"github.com/ipfs/go-cid"
	"github.com/storacha/go-carbites/core/failure"
	"github.com/storacha/go-carbites/core/ipld/codec"
	"github.com/storacha/go-carbites/core/ipld/value"
)

// Section locates the payload of one block inside a seekable source. It does
// not hold the bytes.
type Section struct {
	Cid cid.Cid
	// Offset is the position of the first payload byte, after the CID.
	Offset int64
	// Length is the payload length, excluding the CID.
	Length int
}

// ReadData seeks to the section and reads its payload.
func (s Section) ReadData(r io.ReadSeeker) ([]byte, error) {
	if _, err := r.Seek(s.Offset, io.SeekStart); err != nil {
		return nil, failure.NewIOError("seeking to section", err)
	}
	buf := make([]byte, s.Length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, failure.NewIOError("reading section", err)
	}
	return buf, nil
}

// Decode reads the payload and decodes it with the codec of the section CID.
func (s Section) Decode(r io.ReadSeeker) (value.Value, error) {
	data, err := s.ReadData(r)
	if err != nil {
		return value.Value{}, err
	}
	return DecodeBlock(s.Cid, data)
}

// DecodeBlock decodes block bytes with the codec declared by c.
func DecodeBlock(c cid.Cid, data []byte) (value.Value, error) {
	n, err := codec.Decode(c, data)
	if err != nil {
		return value.Value{}, failure.NewBlockParsingError(c, "decoding block", err)
	}
	v, err := value.FromNode(n)
	if err != nil {
		return value.Value{}, failure.NewBlockParsingError(c, "converting block", err)
	}
	return v, nil
}
