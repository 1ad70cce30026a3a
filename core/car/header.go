package car

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/schema"
	"github.com/storacha/go-carbites/core/failure"
	cipld "github.com/storacha/go-carbites/core/ipld"
	"github.com/storacha/go-carbites/core/ipld/codec/cbor"
)

//go:embed header.ipldsch
var headersch []byte

var (
	once      sync.Once
	ts        *schema.TypeSystem
	schemaErr error
)

func mustLoadSchema() *schema.TypeSystem {
	once.Do(func() {
		ts, schemaErr = ipld.LoadSchemaBytes(headersch)
	})
	if schemaErr != nil {
		panic(fmt.Errorf("failed to load IPLD schema: %w", schemaErr))
	}
	return ts
}

func headerType() schema.Type {
	return mustLoadSchema().TypeByName("CarHeader")
}

type headerModel struct {
	Roots   []ipld.Link
	Version int64
}

// Header is the first block of a CAR: the root CIDs and the format version.
type Header struct {
	Roots   []cid.Cid
	Version uint64
}

// NewHeader creates a version 1 header with the given roots.
func NewHeader(roots ...cid.Cid) Header {
	return Header{Roots: roots, Version: 1}
}

// Encode serializes the header as DAG-CBOR.
func (h Header) Encode() ([]byte, error) {
	mdl := headerModel{Version: int64(h.Version)}
	for _, r := range h.Roots {
		mdl.Roots = append(mdl.Roots, cipld.FromCid(r))
	}
	b, err := cbor.Encode(&mdl, headerType())
	if err != nil {
		return nil, failure.NewParsingError("encoding CAR header", err)
	}
	return b, nil
}

// DecodeHeader decodes a DAG-CBOR header and checks that it declares at
// least one root and version 1.
func DecodeHeader(b []byte) (Header, error) {
	var mdl headerModel
	if err := cbor.Decode(b, &mdl, headerType()); err != nil {
		return Header{}, failure.NewParsingError("decoding CAR header", err)
	}
	if len(mdl.Roots) == 0 {
		return Header{}, failure.NewParsingError("CAR header has no roots", nil)
	}
	if mdl.Version != 1 {
		return Header{}, failure.NewUnsupportedVersionError(uint64(mdl.Version))
	}
	h := Header{Version: uint64(mdl.Version)}
	for _, l := range mdl.Roots {
		c, err := cipld.AsCid(l)
		if err != nil {
			return Header{}, failure.NewParsingError("decoding CAR header root", err)
		}
		h.Roots = append(h.Roots, c)
	}
	return h, nil
}

// ReadHeader reads the length prefixed header block from r and decodes it.
func ReadHeader(r io.Reader, limit uint64) (Header, error) {
	b, err := ReadBlock(r, limit)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Header{}, failure.NewParsingError("missing CAR header", nil)
		}
		return Header{}, err
	}
	return DecodeHeader(b)
}
