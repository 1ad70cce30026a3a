package ipld

import (
	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/storacha/go-carbites/core/ipld/block"
)

type Link = ipld.Link
type Block = block.Block
type Node = ipld.Node

// AsCid returns the CID a link points to. Links that are not CID links are
// parsed from their string form.
func AsCid(link Link) (cid.Cid, error) {
	if cl, ok := link.(cidlink.Link); ok {
		return cl.Cid, nil
	}
	return cid.Parse(link.String())
}

// FromCid wraps a CID as a [Link].
func FromCid(c cid.Cid) Link {
	return cidlink.Link{Cid: c}
}

// NewBlock pairs bytes with their link without hashing them.
func NewBlock(link Link, bytes []byte) Block {
	return block.NewBlock(link, bytes)
}
