package blockstore

import (
	"fmt"
	"iter"
	"sync"

	"github.com/storacha/go-carbites/core/ipld"
)

type BlockReader interface {
	Get(link ipld.Link) (ipld.Block, bool, error)
	Iterator() iter.Seq2[ipld.Block, error]
}

type BlockWriter interface {
	Put(block ipld.Block) error
}

type BlockStore interface {
	BlockReader
	BlockWriter
	// Len returns the number of distinct blocks held.
	Len() int
}

type blockreader struct {
	keys []string
	blks map[string]ipld.Block
}

func (br *blockreader) Get(link ipld.Link) (ipld.Block, bool, error) {
	b, ok := br.blks[link.String()]
	return b, ok, nil
}

func (br *blockreader) Iterator() iter.Seq2[ipld.Block, error] {
	return func(yield func(ipld.Block, error) bool) {
		for _, k := range br.keys {
			v, ok := br.blks[k]
			var err error
			if !ok {
				err = fmt.Errorf("missing block for key: %s", k)
			}
			if !yield(v, err) {
				return
			}
		}
	}
}

// put adds the block unless a block with the same link is already held.
func (br *blockreader) put(block ipld.Block) {
	k := block.Link().String()
	if _, ok := br.blks[k]; ok {
		return
	}
	br.blks[k] = block
	br.keys = append(br.keys, k)
}

type blockstore struct {
	sync.RWMutex
	blockreader
}

// Put adds a block. The first block put for a link is kept, later ones are
// ignored.
func (bs *blockstore) Put(block ipld.Block) error {
	bs.Lock()
	defer bs.Unlock()
	bs.put(block)
	return nil
}

func (bs *blockstore) Get(link ipld.Link) (ipld.Block, bool, error) {
	bs.RLock()
	defer bs.RUnlock()
	return bs.blockreader.Get(link)
}

func (bs *blockstore) Len() int {
	bs.RLock()
	defer bs.RUnlock()
	return len(bs.keys)
}

// Iterator yields blocks in the order they were first put. It iterates a
// snapshot taken when it is called.
func (bs *blockstore) Iterator() iter.Seq2[ipld.Block, error] {
	bs.RLock()
	defer bs.RUnlock()
	snap := blockreader{
		keys: append([]string(nil), bs.keys...),
		blks: make(map[string]ipld.Block, len(bs.blks)),
	}
	for k, v := range bs.blks {
		snap.blks[k] = v
	}
	return snap.Iterator()
}

// Option is an option configuring a block reader/writer.
type Option func(cfg *bsConfig) error

type bsConfig struct {
	blks     []ipld.Block
	blksiter iter.Seq2[ipld.Block, error]
}

// WithBlocks configures the blocks the blockstore should contain.
func WithBlocks(blks []ipld.Block) Option {
	return func(cfg *bsConfig) error {
		cfg.blks = blks
		return nil
	}
}

// WithBlocksIterator configures the blocks the blockstore should contain.
func WithBlocksIterator(blks iter.Seq2[ipld.Block, error]) Option {
	return func(cfg *bsConfig) error {
		cfg.blksiter = blks
		return nil
	}
}

func load(br *blockreader, options ...Option) error {
	cfg := bsConfig{}
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return err
		}
	}
	for _, b := range cfg.blks {
		br.put(b)
	}
	if cfg.blksiter != nil {
		for b, err := range cfg.blksiter {
			if err != nil {
				return err
			}
			br.put(b)
		}
	}
	return nil
}

func NewBlockStore(options ...Option) (BlockStore, error) {
	bs := &blockstore{
		blockreader: blockreader{
			keys: []string{},
			blks: map[string]ipld.Block{},
		},
	}
	if err := load(&bs.blockreader, options...); err != nil {
		return nil, err
	}
	return bs, nil
}

func NewBlockReader(options ...Option) (BlockReader, error) {
	br := &blockreader{
		keys: []string{},
		blks: map[string]ipld.Block{},
	}
	if err := load(br, options...); err != nil {
		return nil, err
	}
	return br, nil
}
