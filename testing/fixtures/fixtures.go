// Package fixtures builds small DAGs and CARs for tests.
package fixtures

import (
	"github.com/ipfs/go-cid"
	cbornode "github.com/ipfs/go-ipld-cbor"
	dagpb "github.com/ipld/go-codec-dagpb"
	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/multiformats/go-multihash"
	"github.com/storacha/go-carbites/core/car"
	"github.com/storacha/go-carbites/core/ipld/codec/json"
	"github.com/storacha/go-carbites/core/ipld/hash"
	"github.com/storacha/go-carbites/core/ipld/hash/sha256"
	"github.com/storacha/go-carbites/testing/helpers"
)

// Block is a block of a fixture DAG.
type Block struct {
	Cid  cid.Cid
	Data []byte
}

// Raw creates a raw leaf block.
func Raw(data []byte) Block {
	return Block{helpers.Must(hash.Link(sha256.Hasher, cid.Raw, data)), data}
}

// RandomRaw creates a raw leaf block of random bytes.
func RandomRaw(size int) Block {
	return Raw(helpers.RandomBytes(size))
}

// PB creates a DAG-PB node with optional data and links to the given
// blocks, in order.
func PB(data []byte, links ...Block) Block {
	n := helpers.Must(qp.BuildMap(basicnode.Prototype.Any, 2, func(ma datamodel.MapAssembler) {
		if data != nil {
			qp.MapEntry(ma, "Data", qp.Bytes(data))
		}
		qp.MapEntry(ma, "Links", qp.List(int64(len(links)), func(la datamodel.ListAssembler) {
			for _, l := range links {
				qp.ListEntry(la, qp.Map(3, func(ma datamodel.MapAssembler) {
					qp.MapEntry(ma, "Hash", qp.Link(cidlink.Link{Cid: l.Cid}))
					qp.MapEntry(ma, "Name", qp.String(""))
					qp.MapEntry(ma, "Tsize", qp.Int(int64(len(l.Data))))
				}))
			}
		}))
	}))
	b := helpers.Must(ipld.Encode(n, dagpb.Encode))
	return Block{helpers.Must(hash.Link(sha256.Hasher, cid.DagProtobuf, b)), b}
}

// CBOR creates a DAG-CBOR node shaped like a DAG-PB node: a map with a
// Links list of {Hash} maps.
func CBOR(links ...Block) Block {
	entries := make([]any, 0, len(links))
	for _, l := range links {
		entries = append(entries, map[string]any{"Hash": l.Cid})
	}
	nd := helpers.Must(cbornode.WrapObject(map[string]any{"Links": entries}, multihash.SHA2_256, -1))
	return Block{nd.Cid(), nd.RawData()}
}

// CBORValue creates a DAG-CBOR block holding an arbitrary object.
func CBORValue(obj any) Block {
	nd := helpers.Must(cbornode.WrapObject(obj, multihash.SHA2_256, -1))
	return Block{nd.Cid(), nd.RawData()}
}

// JSON creates a DAG-JSON node with a Links list of {Hash} maps.
func JSON(links ...Block) Block {
	n := helpers.Must(qp.BuildMap(basicnode.Prototype.Any, 1, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, "Links", qp.List(int64(len(links)), func(la datamodel.ListAssembler) {
			for _, l := range links {
				qp.ListEntry(la, qp.Map(1, func(ma datamodel.MapAssembler) {
					qp.MapEntry(ma, "Hash", qp.Link(cidlink.Link{Cid: l.Cid}))
				}))
			}
		}))
	}))
	b := helpers.Must(json.EncodeNode(n))
	return Block{helpers.Must(hash.Link(sha256.Hasher, cid.DagJSON, b)), b}
}

// Tree builds a balanced DAG-PB tree of the given depth and fanout with
// random raw leaves of leafSize bytes. Blocks are returned root first, in
// depth first order.
func Tree(depth, fanout, leafSize int) (Block, []Block) {
	if depth == 0 {
		leaf := RandomRaw(leafSize)
		return leaf, []Block{leaf}
	}
	var children []Block
	var below []Block
	for i := 0; i < fanout; i++ {
		c, blks := Tree(depth-1, fanout, leafSize)
		children = append(children, c)
		below = append(below, blks...)
	}
	root := PB(nil, children...)
	return root, append([]Block{root}, below...)
}

// CAR serializes a CAR with the given roots and blocks, in order.
func CAR(roots []cid.Cid, blocks ...Block) []byte {
	w := car.NewWriter(car.NewHeader(roots...))
	if err := w.WriteHeader(); err != nil {
		panic(err)
	}
	for _, b := range blocks {
		if err := w.Write(b.Cid, b.Data); err != nil {
			panic(err)
		}
	}
	return w.Flush()
}

// SingleRootCAR serializes a CAR rooted at the first block.
func SingleRootCAR(blocks ...Block) []byte {
	return CAR([]cid.Cid{blocks[0].Cid}, blocks...)
}
