package car

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"
	gocar "github.com/ipld/go-car"
	"github.com/storacha/go-carbites/core/failure"
	"github.com/storacha/go-carbites/testing/helpers"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		var roots []cid.Cid
		for i := 0; i < n; i++ {
			roots = append(roots, helpers.RandomCID())
		}
		h := NewHeader(roots...)

		b, err := h.Encode()
		require.NoError(t, err)

		decoded, err := DecodeHeader(b)
		require.NoError(t, err)
		require.Equal(t, h, decoded)
	}
}

func TestHeaderMatchesGoCar(t *testing.T) {
	root := helpers.RandomCID()

	b, err := NewHeader(root).Encode()
	require.NoError(t, err)

	var expected bytes.Buffer
	err = gocar.WriteHeader(&gocar.CarHeader{Roots: []cid.Cid{root}, Version: 1}, &expected)
	require.NoError(t, err)

	require.Equal(t, expected.Bytes(), frame(b))
}

func TestDecodeHeader(t *testing.T) {
	t.Run("no roots", func(t *testing.T) {
		b, err := Header{Version: 1}.Encode()
		require.NoError(t, err)
		_, err = DecodeHeader(b)
		require.True(t, failure.Is(err, failure.Parsing))
	})

	t.Run("unsupported version", func(t *testing.T) {
		b, err := Header{Roots: []cid.Cid{helpers.RandomCID()}, Version: 2}.Encode()
		require.NoError(t, err)
		_, err = DecodeHeader(b)
		require.True(t, failure.Is(err, failure.InvalidFile))

		var ife failure.InvalidFileError
		require.ErrorAs(t, err, &ife)
		require.Equal(t, uint64(2), ife.Version)
	})

	t.Run("not a header", func(t *testing.T) {
		_, err := DecodeHeader([]byte{0xa1, 0x61, 0x78, 0x01})
		require.True(t, failure.Is(err, failure.Parsing))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := DecodeHeader(helpers.RandomBytes(16))
		require.Error(t, err)
	})
}

func TestReadHeader(t *testing.T) {
	root := helpers.RandomCID()
	b, err := NewHeader(root).Encode()
	require.NoError(t, err)

	h, err := ReadHeader(bytes.NewReader(frame(b)), 0)
	require.NoError(t, err)
	require.Equal(t, []cid.Cid{root}, h.Roots)

	_, err = ReadHeader(bytes.NewReader(nil), 0)
	require.True(t, failure.Is(err, failure.Parsing))
}
