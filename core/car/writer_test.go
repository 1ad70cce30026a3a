package car_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/ipfs/go-cid"
	gocar "github.com/ipld/go-car"
	"github.com/storacha/go-carbites/core/car"
	"github.com/storacha/go-carbites/core/failure"
	"github.com/storacha/go-carbites/testing/fixtures"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	a := fixtures.RandomRaw(50)
	b := fixtures.RandomRaw(70)
	root := fixtures.PB([]byte("dir"), a, b)

	w := car.NewWriter(car.NewHeader(root.Cid))
	require.True(t, w.IsEmpty())

	require.NoError(t, w.WriteHeader())
	headerLen := w.Len()
	require.False(t, w.IsEmpty())

	for _, blk := range []fixtures.Block{root, a, b} {
		before := w.Len()
		require.NoError(t, w.Write(blk.Cid, blk.Data))
		require.Greater(t, w.Len(), before+len(blk.Data)+blk.Cid.ByteLen())
	}
	require.Greater(t, w.Len(), headerLen)

	out := w.Flush()
	require.True(t, w.IsEmpty())
	require.Equal(t, 0, w.Len())

	t.Run("readable by go-car", func(t *testing.T) {
		cr, err := gocar.NewCarReader(bytes.NewReader(out))
		require.NoError(t, err)
		require.Equal(t, []cid.Cid{root.Cid}, cr.Header.Roots)
		require.Equal(t, uint64(1), cr.Header.Version)

		var got []cid.Cid
		for {
			blk, err := cr.Next()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			got = append(got, blk.Cid())
		}
		require.Equal(t, []cid.Cid{root.Cid, a.Cid, b.Cid}, got)
	})

	t.Run("readable by reader", func(t *testing.T) {
		r, err := car.NewReader(bytes.NewReader(out))
		require.NoError(t, err)
		data, err := r.ReadSectionData(b.Cid)
		require.NoError(t, err)
		require.Equal(t, b.Data, data)
	})
}

func TestWriterFlushResets(t *testing.T) {
	a := fixtures.RandomRaw(8)
	w := car.NewWriter(car.NewHeader(a.Cid))
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(a.Cid, a.Data))
	first := append([]byte(nil), w.Flush()...)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(a.Cid, a.Data))
	second := w.Flush()
	require.Equal(t, first, second)
}

func TestWriterUndefinedCid(t *testing.T) {
	w := car.NewWriter(car.NewHeader(fixtures.RandomRaw(1).Cid))
	err := w.Write(cid.Undef, []byte("data"))
	require.True(t, failure.Is(err, failure.Parsing))
}
