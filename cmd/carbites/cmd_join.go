package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/storacha/go-carbites"
)

var cmdJoin = &cobra.Command{
	Use:   "join <out> <chunk>...",
	Short: "Join chunks produced by split into a single CAR file",
	Args:  cobra.MinimumNArgs(2),
	RunE:  join,
}

func join(_ *cobra.Command, args []string) error {
	var chunks []io.Reader
	for _, name := range args[1:] {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		chunks = append(chunks, f)
	}

	r, err := carbites.Join(chunks...)
	if err != nil {
		return err
	}

	out, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := io.Copy(out, r)
	if err != nil {
		return fmt.Errorf("writing %s: %w", args[0], err)
	}
	log.Infow("joined chunks", "file", args[0], "chunks", len(chunks), "size", humanize.IBytes(uint64(n)))
	return out.Close()
}
