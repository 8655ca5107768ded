package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tessera"
	"github.com/aretw0/tessera/pkg/book"
)

var supportsCmd = &cobra.Command{
	Use:   "supports <renderer>",
	Short: "Report whether a renderer is supported (mdBook protocol)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pre := book.NewPreprocessor(tessera.New(), nil)
		if !pre.SupportsRenderer(args[0]) {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(supportsCmd)
}
