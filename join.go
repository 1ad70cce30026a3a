package carbites

import (
	"fmt"
	"io"

	"github.com/storacha/go-carbites/core/car"
	"github.com/storacha/go-carbites/core/dag/blockstore"
	"github.com/storacha/go-carbites/core/ipld"
	"github.com/storacha/go-carbites/core/iterable"
)

// Join combines chunks produced by a treewalk split back into a single CAR.
// All chunks must share the same single root. Blocks repeated across
// chunks, such as the root and intermediate ancestors, are written once, in
// the order they are first seen.
func Join(chunks ...io.Reader) (io.Reader, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("joining CARs: no chunks")
	}
	bs, err := blockstore.NewBlockStore()
	if err != nil {
		return nil, err
	}

	var root ipld.Link
	for i, chunk := range chunks {
		roots, blocks, err := car.Decode(chunk)
		if err != nil {
			return nil, fmt.Errorf("decoding chunk %d: %w", i, err)
		}
		if len(roots) != 1 {
			return nil, fmt.Errorf("chunk %d: unexpected number of roots: %d", i, len(roots))
		}
		if root == nil {
			root = roots[0]
		} else if roots[0].String() != root.String() {
			return nil, fmt.Errorf("chunk %d: root %s does not match %s", i, roots[0], root)
		}
		for b, err := range iterable.Seq2(blocks) {
			if err != nil {
				return nil, fmt.Errorf("reading chunk %d: %w", i, err)
			}
			if err := bs.Put(b); err != nil {
				return nil, err
			}
		}
	}

	log.Debugw("joined chunks", "root", root, "chunks", len(chunks), "blocks", bs.Len())
	return car.Encode([]ipld.Link{root}, iterable.FromSeq2(bs.Iterator())), nil
}
