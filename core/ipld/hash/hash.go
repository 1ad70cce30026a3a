package hash

import "github.com/ipfs/go-cid"

type Hasher interface {
	Code() uint64
	Size() uint64
	Sum(bytes []byte) (Digest, error)
}

type Digest interface {
	Code() uint64
	Size() uint64
	// Digest is the raw hash output.
	Digest() []byte
	// Bytes is the multihash encoded digest.
	Bytes() []byte
}

type digest struct {
	code   uint64
	size   uint64
	digest []byte
	bytes  []byte
}

func (d *digest) Bytes() []byte {
	return d.bytes
}

func (d *digest) Code() uint64 {
	return d.code
}

func (d *digest) Digest() []byte {
	return d.digest
}

func (d *digest) Size() uint64 {
	return d.size
}

func NewDigest(code uint64, size uint64, digst []byte, bytes []byte) Digest {
	return &digest{code, size, digst, bytes}
}

// Link hashes the bytes and returns the v1 CID addressing them under the
// given codec.
func Link(h Hasher, codec uint64, bytes []byte) (cid.Cid, error) {
	d, err := h.Sum(bytes)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(codec, d.Bytes()), nil
}
