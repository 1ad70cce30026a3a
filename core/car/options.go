package car

// Option is an option configuring a CAR reader.
type Option func(cfg *readerConfig) error

type readerConfig struct {
	maxSectionSize uint64
	cacheSize      int
}

// WithMaxSectionSize configures the largest header or section length the
// reader accepts. The default is [MaxSectionSize].
func WithMaxSectionSize(size uint64) Option {
	return func(cfg *readerConfig) error {
		cfg.maxSectionSize = size
		return nil
	}
}

// WithSectionCache configures an LRU cache holding the payloads of up to
// size recently read sections. Blocks linked from many places are then read
// from the source once. The cache is disabled by default.
func WithSectionCache(size int) Option {
	return func(cfg *readerConfig) error {
		cfg.cacheSize = size
		return nil
	}
}
