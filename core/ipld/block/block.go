package block

import "github.com/ipld/go-ipld-prime"

// Block is a CAR section: the bytes of a node and the link they are stored
// under.
type Block interface {
	Link() ipld.Link
	Bytes() []byte
}

type block struct {
	link  ipld.Link
	bytes []byte
}

func (b *block) Link() ipld.Link {
	return b.link
}

func (b *block) Bytes() []byte {
	return b.bytes
}

// NewBlock pairs bytes with the link they are addressed by. The link is not
// checked against the bytes.
func NewBlock(link ipld.Link, bytes []byte) Block {
	return &block{link, bytes}
}
