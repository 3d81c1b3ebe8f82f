package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:           "docln-downloader",
	Short:         "Download light novels from docln.net as EPUB",
	Long:          "Download light novels from docln.net and package them as EPUB 2.0 files.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var rootArgs struct {
	configPath   string
	ignoreConfig bool
	debug        bool
}

func init() {
	RootCmd.PersistentFlags().StringVar(&rootArgs.configPath, "config", "", "config file (default: ./docln-downloader.yaml, then the XDG config dir)")
	RootCmd.PersistentFlags().BoolVar(&rootArgs.ignoreConfig, "ignore-config", false, "skip config files, use defaults and flags only")
	RootCmd.PersistentFlags().BoolVar(&rootArgs.debug, "debug", false, "enable debug logging")

	cobra.OnInitialize(setupLogging)
}

// setupLogging keeps the terminal quiet unless asked: warnings only by
// default so log lines do not fight the progress bar, everything with
// --debug.
func setupLogging() {
	level := slog.LevelWarn
	if rootArgs.debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
