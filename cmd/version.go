package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped by the release build; source builds report dev.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the docln-downloader version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("docln-downloader", Version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
