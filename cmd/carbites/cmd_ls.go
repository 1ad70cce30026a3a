package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/spf13/cobra"
	"github.com/storacha/go-carbites/core/car"
)

var cmdLs = &cobra.Command{
	Use:   "ls <car>",
	Short: "List the roots and sections of a CAR file",
	Args:  cobra.ExactArgs(1),
	RunE:  ls,
}

func init() {
	cmdLs.Flags().String("base", "base32", "Multibase encoding used to print CIDs")
}

func ls(_ *cobra.Command, args []string) error {
	enc, err := multibase.EncoderByName(cfg.GetString("base"))
	if err != nil {
		return fmt.Errorf("invalid base %q: %w", cfg.GetString("base"), err)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := car.NewReader(f)
	if err != nil {
		return err
	}

	format := func(c cid.Cid) string {
		s, err := c.StringOfBase(enc.Encoding())
		if err != nil {
			// CIDv0 can only be printed in base58btc
			return c.String()
		}
		return s
	}

	h := r.Header()
	fmt.Printf("version\t%d\n", h.Version)
	for _, root := range h.Roots {
		fmt.Printf("root\t%s\n", format(root))
	}
	var total uint64
	for _, c := range r.Cids() {
		s, _ := r.Section(c)
		total += uint64(s.Length)
		fmt.Printf("%s\t%d\t%s\n", format(c), s.Offset, humanize.IBytes(uint64(s.Length)))
	}
	fmt.Printf("%d blocks, %s\n", r.Len(), humanize.IBytes(total))
	return nil
}
