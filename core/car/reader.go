package car

import (
	"bufio"
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/storacha/go-carbites/core/failure"
	"github.com/storacha/go-carbites/core/ipld/value"
)

var log = logging.Logger("car")

// Reader gives random access by CID to the blocks of a CAR held in a
// seekable source. The source is scanned once when the reader is created
// and is then owned by the reader. A Reader is not safe for concurrent use.
type Reader struct {
	src      io.ReadSeeker
	header   Header
	sections map[cid.Cid]Section
	order    []cid.Cid
	cache    *lru.Cache[cid.Cid, []byte]
}

// NewReader reads the header of the CAR in src and indexes every section.
// Payloads are skipped, not read. When a CID appears more than once the last
// section wins.
func NewReader(src io.ReadSeeker, options ...Option) (*Reader, error) {
	cfg := readerConfig{}
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.maxSectionSize == 0 {
		cfg.maxSectionSize = MaxSectionSize
	}

	s, err := newScanner(src)
	if err != nil {
		return nil, err
	}
	header, err := ReadHeader(s, cfg.maxSectionSize)
	if err != nil {
		return nil, err
	}

	sections := map[cid.Cid]Section{}
	var order []cid.Cid
	for {
		sec, err := s.next(cfg.maxSectionSize)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if _, ok := sections[sec.Cid]; !ok {
			order = append(order, sec.Cid)
		}
		sections[sec.Cid] = sec
	}

	var cache *lru.Cache[cid.Cid, []byte]
	if cfg.cacheSize > 0 {
		cache, err = lru.New[cid.Cid, []byte](cfg.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating section LRU: %w", err)
		}
	}

	log.Debugw("indexed CAR", "roots", len(header.Roots), "sections", len(sections))
	return &Reader{src, header, sections, order, cache}, nil
}

func (r *Reader) Header() Header {
	return r.header
}

// Len returns the number of distinct CIDs in the archive.
func (r *Reader) Len() int {
	return len(r.sections)
}

func (r *Reader) Has(c cid.Cid) bool {
	_, ok := r.sections[c]
	return ok
}

func (r *Reader) Section(c cid.Cid) (Section, bool) {
	s, ok := r.sections[c]
	return s, ok
}

// Cids returns the distinct CIDs of the archive in the order they first
// appear.
func (r *Reader) Cids() []cid.Cid {
	return append([]cid.Cid(nil), r.order...)
}

// ReadSectionData returns the payload of the block identified by c. The
// returned slice must not be modified.
func (r *Reader) ReadSectionData(c cid.Cid) ([]byte, error) {
	s, ok := r.sections[c]
	if !ok {
		return nil, failure.NewInvalidSectionError(c)
	}
	return r.read(s)
}

// Decode reads the block identified by c and decodes it with the codec its
// CID declares.
func (r *Reader) Decode(c cid.Cid) (value.Value, error) {
	s, ok := r.sections[c]
	if !ok {
		return value.Value{}, failure.NewNotFoundError(c)
	}
	data, err := r.read(s)
	if err != nil {
		return value.Value{}, err
	}
	return DecodeBlock(c, data)
}

func (r *Reader) read(s Section) ([]byte, error) {
	if r.cache != nil {
		if data, ok := r.cache.Get(s.Cid); ok {
			return data, nil
		}
	}
	data, err := s.ReadData(r.src)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Add(s.Cid, data)
	}
	return data, nil
}

// scanner walks the sections of a CAR, tracking the absolute source
// position of every byte it hands out.
type scanner struct {
	src io.ReadSeeker
	br  *bufio.Reader
	pos int64
	end int64
}

func newScanner(src io.ReadSeeker) (*scanner, error) {
	pos, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, failure.NewIOError("seeking source", err)
	}
	end, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, failure.NewIOError("seeking source", err)
	}
	if _, err := src.Seek(pos, io.SeekStart); err != nil {
		return nil, failure.NewIOError("seeking source", err)
	}
	return &scanner{src: src, br: bufio.NewReader(src), pos: pos, end: end}, nil
}

func (s *scanner) Read(p []byte) (int, error) {
	n, err := s.br.Read(p)
	s.pos += int64(n)
	return n, err
}

func (s *scanner) ReadByte() (byte, error) {
	b, err := s.br.ReadByte()
	if err == nil {
		s.pos++
	}
	return b, err
}

// skip moves past n bytes, seeking the source when they are not buffered.
func (s *scanner) skip(n int64) error {
	if n <= int64(s.br.Buffered()) {
		d, err := s.br.Discard(int(n))
		s.pos += int64(d)
		return err
	}
	s.pos += n
	if _, err := s.src.Seek(s.pos, io.SeekStart); err != nil {
		return failure.NewIOError("seeking past section", err)
	}
	s.br.Reset(s.src)
	return nil
}

// next indexes the following section, returning [io.EOF] at the end of the
// archive.
func (s *scanner) next(limit uint64) (Section, error) {
	start := s.pos
	l, err := readLength(s)
	if err != nil {
		return Section{}, err
	}
	if l > limit {
		return Section{}, failure.NewTooLargeSectionError(l, limit)
	}
	if int64(l) > s.end-s.pos {
		return Section{}, failure.NewOffsetParsingError(start, fmt.Sprintf("section length %d exceeds remaining %d bytes", l, s.end-s.pos), nil)
	}

	cidStart := s.pos
	n, c, err := cid.CidFromReader(s)
	if err != nil {
		return Section{}, failure.NewOffsetParsingError(cidStart, "reading section CID", err)
	}
	if uint64(n) > l {
		return Section{}, failure.NewOffsetParsingError(start, fmt.Sprintf("section CID is %d bytes, longer than section length %d", n, l), nil)
	}

	sec := Section{Cid: c, Offset: s.pos, Length: int(l) - n}
	if err := s.skip(int64(sec.Length)); err != nil {
		return Section{}, err
	}
	return sec, nil
}
