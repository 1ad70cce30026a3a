// Package carbites splits a CAR into smaller CARs that can each be verified
// on their own, and joins them back together.
package carbites

import (
	"errors"
	"io"
	"iter"

	logging "github.com/ipfs/go-log/v2"
	"github.com/storacha/go-carbites/core/car"
	"github.com/storacha/go-carbites/core/failure"
)

var log = logging.Logger("carbites")

// ErrInvalidTargetSize is returned when the requested chunk size is not
// positive.
var ErrInvalidTargetSize = errors.New("target size must be greater than zero")

// Strategy describes how CAR files should be split.
type Strategy int

const (
	// Simple splits sections sequentially without regard to the DAG. It is
	// declared for compatibility and is not implemented.
	Simple Strategy = iota
	// Treewalk walks the DAG to pack sub-graphs into each CAR file that is
	// output. Every CAR has the same root CID, and carries the blocks on the
	// path from the root to the blocks it holds.
	Treewalk
)

func (s Strategy) String() string {
	switch s {
	case Simple:
		return "simple"
	case Treewalk:
		return "treewalk"
	default:
		return "unknown"
	}
}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "simple":
		return Simple, nil
	case "treewalk":
		return Treewalk, nil
	default:
		return 0, failure.NewUnsupportedError("strategy " + name)
	}
}

// Splitter produces the chunks of a split CAR one at a time.
type Splitter interface {
	// NextChunk returns the bytes of the next CAR, or io.EOF once every
	// chunk has been returned. Any other error is final: the splitter must
	// not be used afterwards.
	NextChunk() ([]byte, error)
}

// Option is an option configuring a splitter.
type Option = car.Option

// WithMaxSectionSize configures the largest section the source may contain.
// The default is [car.MaxSectionSize].
func WithMaxSectionSize(size uint64) Option {
	return car.WithMaxSectionSize(size)
}

// WithSectionCache configures an LRU cache of recently read block payloads
// holding up to size entries.
func WithSectionCache(size int) Option {
	return car.WithSectionCache(size)
}

// NewSplitter creates a splitter for the single root CAR in src. Chunks are
// closed once they exceed targetSize bytes, so a chunk may be larger than
// targetSize by up to the size of one block. The splitter owns src until it
// is exhausted.
func NewSplitter(strategy Strategy, src io.ReadSeeker, targetSize int, options ...Option) (Splitter, error) {
	if targetSize <= 0 {
		return nil, ErrInvalidTargetSize
	}
	switch strategy {
	case Treewalk:
		return NewTreewalkSplitter(src, targetSize, options...)
	case Simple:
		return nil, failure.NewUnsupportedError("simple split strategy")
	default:
		return nil, failure.NewUnsupportedError("strategy " + strategy.String())
	}
}

// Chunks returns a range function over the remaining chunks of s. Iteration
// stops after the first error, which is yielded.
func Chunks(s Splitter) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			chunk, err := s.NextChunk()
			if err != nil {
				if err != io.EOF {
					yield(nil, err)
				}
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}
