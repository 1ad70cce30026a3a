package codec

import (
	"bytes"
	"fmt"

	"github.com/ipfs/go-cid"
	dagpb "github.com/ipld/go-codec-dagpb"
	"github.com/ipld/go-ipld-prime/datamodel"
	mcregistry "github.com/ipld/go-ipld-prime/multicodec"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/ipld/go-ipld-prime/node/bindnode"
	"github.com/ipld/go-ipld-prime/schema"
	"github.com/multiformats/go-multicodec"
	"github.com/storacha/go-carbites/core/ipld/codec/cbor"
	"github.com/storacha/go-carbites/core/ipld/codec/json"
)

type Encoder interface {
	Code() uint64
	Encode(value any, typ schema.Type, opts ...bindnode.Option) ([]byte, error)
}

type Decoder interface {
	Code() uint64
	Decode(bytes []byte, bind any, typ schema.Type, opts ...bindnode.Option) error
}

// NodeDecoder decodes bytes into an untyped data model node.
type NodeDecoder interface {
	Code() uint64
	DecodeNode(bytes []byte) (datamodel.Node, error)
}

var (
	_ Encoder     = cbor.Codec
	_ Decoder     = cbor.Codec
	_ NodeDecoder = cbor.Codec
	_ Encoder     = json.Codec
	_ Decoder     = json.Codec
	_ NodeDecoder = json.Codec
)

var decoders = map[multicodec.Code]NodeDecoder{
	multicodec.DagCbor: cbor.Codec,
	multicodec.DagJson: json.Codec,
}

// Decode decodes block bytes with the codec declared by the CID that
// addresses them. DAG-PB, DAG-CBOR, DAG-JSON and raw are handled here, any
// other codec is looked up in the go-ipld-prime multicodec registry.
func Decode(c cid.Cid, data []byte) (datamodel.Node, error) {
	code := multicodec.Code(c.Prefix().Codec)
	switch code {
	case multicodec.Raw:
		return basicnode.NewBytes(data), nil
	case multicodec.DagPb:
		nb := basicnode.Prototype.Any.NewBuilder()
		if err := dagpb.DecodeBytes(nb, data); err != nil {
			return nil, err
		}
		return nb.Build(), nil
	}
	if dec, ok := decoders[code]; ok {
		return dec.DecodeNode(data)
	}
	decfn, err := mcregistry.LookupDecoder(uint64(code))
	if err != nil {
		return nil, fmt.Errorf("unsupported codec %s: %w", code, err)
	}
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := decfn(nb, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return nb.Build(), nil
}
