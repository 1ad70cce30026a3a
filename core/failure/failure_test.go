package failure

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/storacha/go-carbites/testing/helpers"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	c := helpers.RandomCID()
	cases := []struct {
		err  error
		kind Kind
		name string
	}{
		{NewRootCountError(2), InvalidFile, "InvalidFileError"},
		{NewParsingError("bad", nil), Parsing, "ParsingError"},
		{NewInvalidSectionError(c), InvalidSection, "InvalidSectionError"},
		{NewNotFoundError(c), NotFound, "NotFoundError"},
		{NewTooLargeSectionError(100, 10), TooLargeSection, "TooLargeSectionError"},
		{NewIOError("reading", io.ErrUnexpectedEOF), IO, "IOError"},
		{NewUnsupportedError("simple split strategy"), Unsupported, "UnsupportedError"},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			require.Equal(t, tc.kind, KindOf(tc.err))
			require.True(t, Is(fmt.Errorf("wrapped: %w", tc.err), tc.kind))

			var f Failure
			require.True(t, errors.As(tc.err, &f))
			require.Equal(t, tc.name, f.Name())
		})
	}
}

func TestKindOfPlainError(t *testing.T) {
	require.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	require.Equal(t, KindUnknown, KindOf(nil))
}

func TestStructuredFields(t *testing.T) {
	c := helpers.RandomCID()

	var nf NotFoundError
	require.True(t, errors.As(fmt.Errorf("lookup: %w", NewNotFoundError(c)), &nf))
	require.Equal(t, c, nf.Cid)
	require.Contains(t, nf.Error(), c.String())

	var tl TooLargeSectionError
	require.True(t, errors.As(NewTooLargeSectionError(33<<20, 32<<20), &tl))
	require.Equal(t, uint64(33<<20), tl.Size)
	require.Equal(t, uint64(32<<20), tl.Limit)

	ver := NewUnsupportedVersionError(2)
	require.Equal(t, uint64(2), ver.Version)
	require.Equal(t, 3, NewRootCountError(3).Roots)
}

func TestCauses(t *testing.T) {
	ioErr := NewIOError("reading section", io.ErrUnexpectedEOF)
	require.ErrorIs(t, ioErr, io.ErrUnexpectedEOF)
	require.NotEmpty(t, ioErr.Stack())

	cause := errors.New("unexpected end of CBOR")
	perr := NewBlockParsingError(helpers.RandomCID(), "decoding block", cause)
	require.ErrorIs(t, perr, cause)
	require.Contains(t, perr.Error(), "unexpected end of CBOR")
	require.NotEmpty(t, perr.Stack())

	oerr := NewOffsetParsingError(42, "reading section CID", nil)
	require.Contains(t, oerr.Error(), "offset 42")
}
