package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"docln-downloader/epub"
)

type packArgs struct {
	DirPath    string
	Output     string
	SkipVerify bool
}

var pArgs packArgs

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Pack an existing package tree into an epub file",
	Long: "Verify a package tree left behind by download --keep-tree and zip " +
		"it into an epub file. The tree is checked against its own manifest " +
		"first, in both directions.",
	RunE: runPack,
}

func init() {
	packCmd.Flags().StringVarP(&pArgs.DirPath, "dir-path", "d", "", "package tree directory")
	packCmd.Flags().StringVarP(&pArgs.Output, "output", "o", "", "epub file to write (default: <dir-path>.epub)")
	packCmd.Flags().BoolVar(&pArgs.SkipVerify, "skip-verify", false, "zip without checking the manifest")
	RootCmd.AddCommand(packCmd)
}

func runPack(cmd *cobra.Command, args []string) error {
	if pArgs.DirPath == "" {
		return fmt.Errorf("dir-path is required")
	}
	if !pArgs.SkipVerify {
		if err := epub.Verify(pArgs.DirPath); err != nil {
			return err
		}
	}

	output := pArgs.Output
	if output == "" {
		output = strings.TrimSuffix(pArgs.DirPath, string(filepath.Separator)) + ".epub"
	}
	if err := epub.Pack(pArgs.DirPath, output); err != nil {
		return fmt.Errorf("failed to create epub: %v", err)
	}
	fmt.Println("packed", output)
	return nil
}
