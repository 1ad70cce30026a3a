package car

import (
	"bytes"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-car/util"
	"github.com/storacha/go-carbites/core/failure"
)

// Writer accumulates a CAR in memory. Call WriteHeader once, then Write for
// every block, then Flush to take the archive bytes.
type Writer struct {
	buf    bytes.Buffer
	header Header
}

func NewWriter(header Header) *Writer {
	return &Writer{header: header}
}

func (w *Writer) Header() Header {
	return w.header
}

// WriteHeader appends the length prefixed header.
func (w *Writer) WriteHeader() error {
	hb, err := w.header.Encode()
	if err != nil {
		return err
	}
	if err := util.LdWrite(&w.buf, hb); err != nil {
		return failure.NewIOError("writing CAR header", err)
	}
	return nil
}

// Write appends a section holding the block data addressed by c.
func (w *Writer) Write(c cid.Cid, data []byte) error {
	if !c.Defined() {
		return failure.NewParsingError("writing section with undefined CID", nil)
	}
	if err := util.LdWrite(&w.buf, c.Bytes(), data); err != nil {
		return failure.NewIOError("writing CAR section", err)
	}
	return nil
}

// Len returns the number of bytes accumulated since the last flush.
func (w *Writer) Len() int {
	return w.buf.Len()
}

func (w *Writer) IsEmpty() bool {
	return w.buf.Len() == 0
}

// Flush hands over the accumulated bytes and leaves the writer empty.
func (w *Writer) Flush() []byte {
	b := w.buf.Bytes()
	w.buf = bytes.Buffer{}
	return b
}
