// Command carbites splits CAR files into verifiable chunks and joins them
// back together.
package main

import (
	"os"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log = logging.Logger("carbites/cmd")

var cfg = viper.New()

var cmd = &cobra.Command{
	Use:   "carbites",
	Short: "Split CAR files into smaller, independently verifiable CAR files",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		return logging.SetLogLevel("*", cfg.GetString("log-level"))
	},
	SilenceUsage: true,
}

func init() {
	cfg.SetEnvPrefix("carbites")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()

	cmd.PersistentFlags().String("log-level", "error", "Log level (debug, info, warn, error)")
	cmd.AddCommand(cmdSplit, cmdJoin, cmdVerify, cmdLs)
}

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
