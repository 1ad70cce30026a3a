package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/storacha/go-carbites"
)

var cmdVerify = &cobra.Command{
	Use:   "verify <chunk>...",
	Short: "Check that each chunk is a valid CAR that can be walked from its root",
	Args:  cobra.MinimumNArgs(1),
	RunE:  verify,
}

func verify(_ *cobra.Command, args []string) error {
	failed := 0
	for _, name := range args {
		if err := verifyFile(name); err != nil {
			fmt.Printf("%s\tFAIL\t%v\n", name, err)
			failed++
			continue
		}
		fmt.Printf("%s\tOK\n", name)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d chunks failed verification", failed, len(args))
	}
	return nil
}

func verifyFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return carbites.Verify(f)
}
