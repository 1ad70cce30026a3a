package iterable

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func sliceIterator[T any](items []T) Iterator[T] {
	i := 0
	return NewIterator(func() (T, error) {
		if i >= len(items) {
			var zero T
			return zero, io.EOF
		}
		item := items[i]
		i++
		return item, nil
	})
}

func TestCollect(t *testing.T) {
	items, err := Collect(sliceIterator([]int{1, 2, 3}))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, items)

	boom := errors.New("boom")
	_, err = Collect(NewIterator(func() (int, error) { return 0, boom }))
	require.ErrorIs(t, err, boom)
}

func TestSeq2(t *testing.T) {
	var got []string
	for s, err := range Seq2(sliceIterator([]string{"a", "b"})) {
		require.NoError(t, err)
		got = append(got, s)
	}
	require.Equal(t, []string{"a", "b"}, got)

	boom := errors.New("boom")
	var errs []error
	for _, err := range Seq2(NewIterator(func() (int, error) { return 0, boom })) {
		errs = append(errs, err)
	}
	require.Equal(t, []error{boom}, errs)
}

func TestFromSeq2(t *testing.T) {
	it := FromSeq2(Seq2(sliceIterator([]int{4, 5})))
	items, err := Collect(it)
	require.NoError(t, err)
	require.Equal(t, []int{4, 5}, items)

	_, err = it.Next()
	require.Equal(t, io.EOF, err)

	boom := errors.New("boom")
	it = FromSeq2(func(yield func(int, error) bool) {
		if !yield(1, nil) {
			return
		}
		yield(0, boom)
	})
	v, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, 1, v)
	_, err = it.Next()
	require.ErrorIs(t, err, boom)
	_, err = it.Next()
	require.Equal(t, io.EOF, err)
}
