package car_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-varint"
	"github.com/storacha/go-carbites/core/car"
	"github.com/storacha/go-carbites/core/failure"
	"github.com/storacha/go-carbites/core/ipld/value"
	"github.com/storacha/go-carbites/testing/fixtures"
	"github.com/storacha/go-carbites/testing/helpers"
	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	a := fixtures.RandomRaw(100)
	b := fixtures.RandomRaw(200)
	root := fixtures.PB([]byte("root"), a, b)
	data := fixtures.SingleRootCAR(root, a, b)

	r, err := car.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, []cid.Cid{root.Cid}, r.Header().Roots)
	require.Equal(t, uint64(1), r.Header().Version)
	require.Equal(t, 3, r.Len())
	require.Equal(t, []cid.Cid{root.Cid, a.Cid, b.Cid}, r.Cids())

	for _, blk := range []fixtures.Block{root, a, b} {
		require.True(t, r.Has(blk.Cid))
		s, ok := r.Section(blk.Cid)
		require.True(t, ok)
		require.Equal(t, len(blk.Data), s.Length)
		require.Equal(t, blk.Data, data[s.Offset:s.Offset+int64(s.Length)])

		got, err := r.ReadSectionData(blk.Cid)
		require.NoError(t, err)
		require.Equal(t, blk.Data, got)
	}

	t.Run("decode", func(t *testing.T) {
		v, err := r.Decode(root.Cid)
		require.NoError(t, err)
		require.Equal(t, value.Map, v.Kind())

		items, ok, err := v.ListField("Links")
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, items, 2)
		l, err := items[1].LinkField("Hash")
		require.NoError(t, err)
		require.Equal(t, b.Cid, l)

		leaf, err := r.Decode(a.Cid)
		require.NoError(t, err)
		raw, ok := leaf.AsBytes()
		require.True(t, ok)
		require.Equal(t, a.Data, raw)
	})

	t.Run("missing CID", func(t *testing.T) {
		missing := helpers.RandomCID()

		_, err := r.ReadSectionData(missing)
		require.True(t, failure.Is(err, failure.InvalidSection))

		_, err = r.Decode(missing)
		require.True(t, failure.Is(err, failure.NotFound))
		var nf failure.NotFoundError
		require.ErrorAs(t, err, &nf)
		require.Equal(t, missing, nf.Cid)
	})
}

func TestReaderDuplicateSections(t *testing.T) {
	a := fixtures.RandomRaw(10)
	root := fixtures.PB(nil, a)
	data := fixtures.SingleRootCAR(root, a, a)

	r, err := car.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())
	require.Equal(t, []cid.Cid{root.Cid, a.Cid}, r.Cids())

	// the second copy of a is the one indexed
	s, ok := r.Section(a.Cid)
	require.True(t, ok)
	require.Equal(t, int64(len(data)-len(a.Data)), s.Offset)
}

func TestReaderUndecodableBlock(t *testing.T) {
	bad := fixtures.Block{
		Cid:  helpers.Must(cid.Prefix{Version: 1, Codec: cid.DagCBOR, MhType: 0x12, MhLength: -1}.Sum([]byte{0xff})),
		Data: []byte{0xff},
	}
	data := fixtures.SingleRootCAR(bad)

	r, err := car.NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	_, err = r.Decode(bad.Cid)
	require.True(t, failure.Is(err, failure.Parsing))
}

func TestReaderSourceOffset(t *testing.T) {
	a := fixtures.RandomRaw(32)
	data := fixtures.SingleRootCAR(a)

	prefix := helpers.RandomBytes(7)
	src := bytes.NewReader(append(prefix, data...))
	_, err := src.Seek(int64(len(prefix)), io.SeekStart)
	require.NoError(t, err)

	r, err := car.NewReader(src)
	require.NoError(t, err)
	got, err := r.ReadSectionData(a.Cid)
	require.NoError(t, err)
	require.Equal(t, a.Data, got)
}

func TestReaderSectionCache(t *testing.T) {
	a := fixtures.RandomRaw(64)
	data := fixtures.SingleRootCAR(a)

	src := &countingSeeker{ReadSeeker: bytes.NewReader(data)}
	r, err := car.NewReader(src, car.WithSectionCache(4))
	require.NoError(t, err)

	_, err = r.ReadSectionData(a.Cid)
	require.NoError(t, err)
	seeks := src.seeks

	got, err := r.ReadSectionData(a.Cid)
	require.NoError(t, err)
	require.Equal(t, a.Data, got)
	require.Equal(t, seeks, src.seeks)
}

func TestReaderMalformed(t *testing.T) {
	a := fixtures.RandomRaw(16)
	header := fixtures.CAR([]cid.Cid{a.Cid})

	t.Run("CID longer than section", func(t *testing.T) {
		cb := a.Cid.Bytes()
		data := append([]byte{}, header...)
		data = append(data, varint.ToUvarint(uint64(len(cb)-2))...)
		data = append(data, cb...)
		data = append(data, a.Data...)

		_, err := car.NewReader(bytes.NewReader(data))
		require.True(t, failure.Is(err, failure.Parsing))
	})

	t.Run("section longer than source", func(t *testing.T) {
		full := fixtures.SingleRootCAR(a)
		_, err := car.NewReader(bytes.NewReader(full[:len(full)-1]))
		require.True(t, failure.Is(err, failure.Parsing))
	})

	t.Run("section too large", func(t *testing.T) {
		full := fixtures.SingleRootCAR(fixtures.RandomRaw(1024))
		_, err := car.NewReader(bytes.NewReader(full), car.WithMaxSectionSize(512))
		require.True(t, failure.Is(err, failure.TooLargeSection))
	})

	t.Run("invalid CID", func(t *testing.T) {
		data := append([]byte{}, header...)
		data = append(data, varint.ToUvarint(4)...)
		data = append(data, 0x02, 0x55, 0x12, 0x00)

		_, err := car.NewReader(bytes.NewReader(data))
		require.True(t, failure.Is(err, failure.Parsing))
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := car.NewReader(bytes.NewReader(nil))
		require.True(t, failure.Is(err, failure.Parsing))
	})
}

type countingSeeker struct {
	io.ReadSeeker
	seeks int
}

func (c *countingSeeker) Seek(offset int64, whence int) (int64, error) {
	c.seeks++
	return c.ReadSeeker.Seek(offset, whence)
}
