package carbites

import (
	"fmt"
	"io"

	"github.com/ipfs/go-cid"
	"github.com/storacha/go-carbites/core/car"
	"github.com/storacha/go-carbites/core/failure"
	"github.com/storacha/go-carbites/core/ipld/value"
)

// parent is an ancestor block, kept so it can be written again at the start
// of every chunk holding one of its descendants. Chains are shared by all
// pending descendants and never modified.
type parent struct {
	cid  cid.Cid
	data []byte
	prev *parent
}

// lineage returns the chain ending at p, root first.
func (p *parent) lineage() []*parent {
	var chain []*parent
	for n := p; n != nil; n = n.prev {
		chain = append(chain, n)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

type pendingBlock struct {
	cid     cid.Cid
	parents *parent
}

// TreewalkSplitter splits a CAR by walking its DAG depth first from the
// root. Each chunk starts with the root and the ancestors of its first
// block, so every chunk can be verified from the root on its own.
type TreewalkSplitter struct {
	root       cid.Cid
	targetSize int
	reader     *car.Reader
	writer     *car.Writer
	// reseeded is set while the writer holds only the lineage it was seeded
	// with after a flush.
	reseeded bool
	// pending is a stack: the next block to visit is the last element.
	pending []pendingBlock
	chunks  int
	err     error
}

// NewTreewalkSplitter indexes the CAR in src and prepares the first chunk.
// The CAR must have exactly one root.
func NewTreewalkSplitter(src io.ReadSeeker, targetSize int, options ...Option) (*TreewalkSplitter, error) {
	reader, err := car.NewReader(src, options...)
	if err != nil {
		return nil, err
	}

	header := reader.Header()
	if len(header.Roots) != 1 {
		return nil, failure.NewRootCountError(len(header.Roots))
	}
	root := header.Roots[0]

	data, err := reader.ReadSectionData(root)
	if err != nil {
		return nil, err
	}
	parents := &parent{cid: root, data: data}

	writer, err := newCar(root, parents)
	if err != nil {
		return nil, err
	}

	v, err := car.DecodeBlock(root, data)
	if err != nil {
		return nil, err
	}
	links, err := rootLinks(root, v)
	if err != nil {
		return nil, err
	}

	s := &TreewalkSplitter{
		root:       root,
		targetSize: targetSize,
		reader:     reader,
		writer:     writer,
	}
	s.push(links, parents)

	log.Debugw("created treewalk splitter", "root", root, "blocks", reader.Len(), "target", targetSize)
	return s, nil
}

// NextChunk returns the next chunk, or io.EOF when the DAG has been fully
// walked.
func (s *TreewalkSplitter) NextChunk() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	chunk, err := s.next()
	if err != nil && err != io.EOF {
		s.err = err
	}
	return chunk, err
}

func (s *TreewalkSplitter) next() ([]byte, error) {
	for len(s.pending) > 0 {
		pb := s.pending[len(s.pending)-1]
		s.pending = s.pending[:len(s.pending)-1]

		data, err := s.reader.ReadSectionData(pb.cid)
		if err != nil {
			return nil, err
		}

		ready := s.writer.Len()+len(data) > s.targetSize
		if err := s.writer.Write(pb.cid, data); err != nil {
			return nil, err
		}
		s.reseeded = false

		v, err := car.DecodeBlock(pb.cid, data)
		if err != nil {
			return nil, err
		}
		links, err := childLinks(pb.cid, v)
		if err != nil {
			return nil, err
		}

		parents := pb.parents
		if len(links) > 0 {
			parents = &parent{cid: pb.cid, data: data, prev: pb.parents}
			s.push(links, parents)
		}

		if ready {
			chunk := s.writer.Flush()
			s.writer, err = newCar(s.root, parents)
			if err != nil {
				return nil, err
			}
			s.reseeded = true
			return s.emit(chunk), nil
		}
	}

	if !s.writer.IsEmpty() && !s.reseeded {
		return s.emit(s.writer.Flush()), nil
	}
	s.writer.Flush()
	return nil, io.EOF
}

// push queues the links so that the first link is visited next, ahead of
// anything already pending.
func (s *TreewalkSplitter) push(links []cid.Cid, parents *parent) {
	for i := len(links) - 1; i >= 0; i-- {
		s.pending = append(s.pending, pendingBlock{cid: links[i], parents: parents})
	}
}

func (s *TreewalkSplitter) emit(chunk []byte) []byte {
	log.Debugw("emitting chunk", "index", s.chunks, "size", len(chunk), "pending", len(s.pending))
	s.chunks++
	return chunk
}

// newCar opens a writer for a chunk rooted at root holding the lineage that
// ends at parents.
func newCar(root cid.Cid, parents *parent) (*car.Writer, error) {
	w := car.NewWriter(car.NewHeader(root))
	if err := w.WriteHeader(); err != nil {
		return nil, err
	}
	for _, p := range parents.lineage() {
		if err := w.Write(p.cid, p.data); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// rootLinks extracts the links of the root node. The root must be either a
// raw byte leaf or a map with a Links list.
func rootLinks(c cid.Cid, v value.Value) ([]cid.Cid, error) {
	switch v.Kind() {
	case value.Bytes:
		return nil, nil
	case value.Map:
		items, ok, err := v.ListField("Links")
		if err != nil {
			return nil, failure.NewBlockParsingError(c, "root node does not have links", err)
		}
		if !ok {
			return nil, failure.NewBlockParsingError(c, "root node does not have a Links field", nil)
		}
		return linkHashes(c, items)
	default:
		return nil, failure.NewInvalidNodeError(c, fmt.Sprintf("root node is %s, not a map", v.Kind()))
	}
}

// childLinks extracts the links of a node below the root. Nodes without a
// Links field, including leaves that are not maps, have no links.
func childLinks(c cid.Cid, v value.Value) ([]cid.Cid, error) {
	items, ok, err := v.ListField("Links")
	if err != nil {
		return nil, failure.NewBlockParsingError(c, "node does not have links", err)
	}
	if !ok {
		return nil, nil
	}
	return linkHashes(c, items)
}

func linkHashes(c cid.Cid, items []value.Value) ([]cid.Cid, error) {
	links := make([]cid.Cid, 0, len(items))
	for i, item := range items {
		l, err := item.LinkField("Hash")
		if err != nil {
			if se, ok := err.(value.ShapeError); ok && !se.Missing {
				return nil, failure.NewInvalidNodeError(c, fmt.Sprintf("link %d: %s", i, se))
			}
			return nil, failure.NewBlockParsingError(c, fmt.Sprintf("link %d", i), err)
		}
		links = append(links, l)
	}
	return links, nil
}
