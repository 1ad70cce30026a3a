package carbites

import (
	"fmt"
	"io"

	"github.com/storacha/go-carbites/core/car"
	"github.com/storacha/go-carbites/core/dag/blockstore"
	"github.com/storacha/go-carbites/core/ipld"
	"github.com/storacha/go-carbites/core/iterable"
)

// Verify checks that a chunk stands on its own: every block matches its
// CID, the header has a single root that is present in the chunk, and every
// block in the chunk is reachable from the root through blocks in the
// chunk. Links to blocks held by other chunks are allowed.
func Verify(chunk io.Reader) error {
	roots, blocks, err := car.Decode(chunk)
	if err != nil {
		return fmt.Errorf("decoding chunk: %w", err)
	}
	if len(roots) != 1 {
		return fmt.Errorf("unexpected number of roots: %d", len(roots))
	}
	bs, err := blockstore.NewBlockReader(blockstore.WithBlocksIterator(iterable.Seq2(blocks)))
	if err != nil {
		return fmt.Errorf("reading chunk blocks: %w", err)
	}

	root := roots[0]
	if _, ok, _ := bs.Get(root); !ok {
		return fmt.Errorf("root block not in chunk: %s", root)
	}

	reached := map[string]struct{}{}
	stack := []ipld.Link{root}
	for len(stack) > 0 {
		l := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := reached[l.String()]; ok {
			continue
		}
		b, ok, err := bs.Get(l)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		reached[l.String()] = struct{}{}

		c, err := ipld.AsCid(l)
		if err != nil {
			return err
		}
		v, err := car.DecodeBlock(c, b.Bytes())
		if err != nil {
			return err
		}
		links, err := childLinks(c, v)
		if err != nil {
			return err
		}
		for _, child := range links {
			stack = append(stack, ipld.FromCid(child))
		}
	}

	for b, err := range bs.Iterator() {
		if err != nil {
			return err
		}
		if _, ok := reached[b.Link().String()]; !ok {
			return fmt.Errorf("block not reachable from root within chunk: %s", b.Link())
		}
	}
	return nil
}
