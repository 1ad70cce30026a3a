package blockstore

import (
	"errors"
	"testing"

	"github.com/storacha/go-carbites/core/ipld"
	"github.com/storacha/go-carbites/testing/helpers"
	"github.com/stretchr/testify/require"
)

func randomBlock() ipld.Block {
	return ipld.NewBlock(ipld.FromCid(helpers.RandomCID()), helpers.RandomBytes(8))
}

func collect(t *testing.T, br BlockReader) []ipld.Block {
	var blks []ipld.Block
	for b, err := range br.Iterator() {
		require.NoError(t, err)
		blks = append(blks, b)
	}
	return blks
}

func TestBlockStore(t *testing.T) {
	a, b := randomBlock(), randomBlock()
	bs, err := NewBlockStore(WithBlocks([]ipld.Block{a}))
	require.NoError(t, err)

	require.NoError(t, bs.Put(b))
	require.Equal(t, 2, bs.Len())

	got, ok, err := bs.Get(b.Link())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, b.Bytes(), got.Bytes())

	_, ok, err = bs.Get(ipld.FromCid(helpers.RandomCID()))
	require.NoError(t, err)
	require.False(t, ok)

	require.Equal(t, []ipld.Block{a, b}, collect(t, bs))
}

func TestBlockStoreFirstPutWins(t *testing.T) {
	a := randomBlock()
	dup := ipld.NewBlock(a.Link(), []byte("other"))
	bs, err := NewBlockStore()
	require.NoError(t, err)

	require.NoError(t, bs.Put(a))
	require.NoError(t, bs.Put(dup))
	require.Equal(t, 1, bs.Len())

	got, _, err := bs.Get(a.Link())
	require.NoError(t, err)
	require.Equal(t, a.Bytes(), got.Bytes())
}

func TestBlockStoreIteratorSnapshot(t *testing.T) {
	bs, err := NewBlockStore(WithBlocks([]ipld.Block{randomBlock()}))
	require.NoError(t, err)

	it := bs.Iterator()
	require.NoError(t, bs.Put(randomBlock()))

	n := 0
	for _, err := range it {
		require.NoError(t, err)
		n++
	}
	require.Equal(t, 1, n)
}

func TestNewBlockReader(t *testing.T) {
	a, b := randomBlock(), randomBlock()
	br, err := NewBlockReader(WithBlocksIterator(func(yield func(ipld.Block, error) bool) {
		for _, blk := range []ipld.Block{a, b, a} {
			if !yield(blk, nil) {
				return
			}
		}
	}))
	require.NoError(t, err)
	require.Equal(t, []ipld.Block{a, b}, collect(t, br))

	boom := errors.New("boom")
	_, err = NewBlockReader(WithBlocksIterator(func(yield func(ipld.Block, error) bool) {
		yield(nil, boom)
	}))
	require.ErrorIs(t, err, boom)
}
