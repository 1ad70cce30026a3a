package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/storacha/go-carbites"
)

var cmdSplit = &cobra.Command{
	Use:   "split <car>",
	Short: "Split a CAR file into chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  split,
}

func init() {
	cmdSplit.Flags().String("size", "1MiB", "Target size of each chunk")
	cmdSplit.Flags().String("out", ".", "Directory the chunks are written to")
	cmdSplit.Flags().String("strategy", carbites.Treewalk.String(), "Split strategy")
	cmdSplit.Flags().Int("cache", 0, "Number of block payloads to cache while splitting")
}

func split(_ *cobra.Command, args []string) error {
	size, err := humanize.ParseBytes(cfg.GetString("size"))
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", cfg.GetString("size"), err)
	}
	strategy, err := carbites.ParseStrategy(cfg.GetString("strategy"))
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var opts []carbites.Option
	if n := cfg.GetInt("cache"); n > 0 {
		opts = append(opts, carbites.WithSectionCache(n))
	}
	s, err := carbites.NewSplitter(strategy, f, int(size), opts...)
	if err != nil {
		return err
	}

	out := cfg.GetString("out")
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	n := 0
	for chunk, err := range carbites.Chunks(s) {
		if err != nil {
			return fmt.Errorf("splitting %s: %w", args[0], err)
		}
		name := filepath.Join(out, fmt.Sprintf("chunk-%d.car", n))
		if err := os.WriteFile(name, chunk, 0o644); err != nil {
			return err
		}
		log.Infow("wrote chunk", "file", name, "size", len(chunk))
		fmt.Printf("%s\t%s\n", name, humanize.IBytes(uint64(len(chunk))))
		n++
	}
	return nil
}
