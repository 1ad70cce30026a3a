package car

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ipld/go-car/util"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/storacha/go-carbites/core/ipld"
	"github.com/storacha/go-carbites/core/iterable"
)

// ContentType is the value the HTTP Content-Type header should have for CARs.
// See https://www.iana.org/assignments/media-types/application/vnd.ipld.car
const ContentType = "application/vnd.ipld.car"

// Encode streams a CAR with the given roots and blocks.
func Encode(roots []ipld.Link, blocks iterable.Iterator[ipld.Block]) io.Reader {
	reader, writer := io.Pipe()
	go func() {
		var h Header
		for _, r := range roots {
			c, err := ipld.AsCid(r)
			if err != nil {
				writer.CloseWithError(fmt.Errorf("writing CAR header: %w", err))
				return
			}
			h.Roots = append(h.Roots, c)
		}
		h.Version = 1
		hb, err := h.Encode()
		if err != nil {
			writer.CloseWithError(fmt.Errorf("writing CAR header: %w", err))
			return
		}
		if err := util.LdWrite(writer, hb); err != nil {
			writer.CloseWithError(fmt.Errorf("writing CAR header: %w", err))
			return
		}
		for {
			block, err := blocks.Next()
			if err != nil {
				if err == io.EOF {
					break
				}
				writer.CloseWithError(fmt.Errorf("writing CAR blocks: %w", err))
				return
			}
			if err := util.LdWrite(writer, []byte(block.Link().Binary()), block.Bytes()); err != nil {
				writer.CloseWithError(fmt.Errorf("writing CAR blocks: %w", err))
				return
			}
		}
		writer.Close()
	}()
	return reader
}

// Decode reads a CAR sequentially. Every block is hashed and checked against
// its CID as it is read.
func Decode(reader io.Reader) ([]ipld.Link, iterable.Iterator[ipld.Block], error) {
	br := bufio.NewReader(reader)

	hb, err := util.LdRead(br)
	if err != nil {
		return nil, nil, err
	}

	h, err := DecodeHeader(hb)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid header: %w", err)
	}

	roots := make([]ipld.Link, 0, len(h.Roots))
	for _, r := range h.Roots {
		roots = append(roots, ipld.FromCid(r))
	}

	return roots, iterable.NewIterator(func() (ipld.Block, error) {
		if br == nil {
			return nil, io.EOF
		}
		cid, bytes, err := util.ReadNode(br)
		if err != nil {
			if err == io.EOF {
				br = nil
			}
			return nil, err
		}

		hashed, err := cid.Prefix().Sum(bytes)
		if err != nil {
			return nil, err
		}

		if !hashed.Equals(cid) {
			return nil, fmt.Errorf("mismatch in content integrity, name: %s, data: %s", cid, hashed)
		}

		return ipld.NewBlock(cidlink.Link{Cid: cid}, bytes), nil
	}), nil
}
