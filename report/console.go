package report

import (
	"fmt"
	"io"
	"time"

	"docln-downloader/model"
)

// ConsoleWriter prints a compact run summary for the terminal.
type ConsoleWriter struct {
	output  io.Writer
	verbose bool
}

type ConsoleOption func(*ConsoleWriter)

// WithVerbose prints full failure reasons and source URLs instead of the
// truncated one-line form.
func WithVerbose(verbose bool) ConsoleOption {
	return func(w *ConsoleWriter) { w.verbose = verbose }
}

func NewConsoleWriter(output io.Writer, opts ...ConsoleOption) *ConsoleWriter {
	w := &ConsoleWriter{output: output}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *ConsoleWriter) Write(summary *model.Summary) error {
	fmt.Fprintf(w.output, "%s (novel %d): %s\n", summary.NovelTitle, summary.NovelID, statusText(summary))
	fmt.Fprintf(w.output, "  chapters: %d ok, %d failed\n", summary.ChaptersOK, summary.ChaptersBad)
	fmt.Fprintf(w.output, "  images:   %d ok, %d failed\n", summary.AssetsOK, summary.AssetsBad)
	fmt.Fprintf(w.output, "  duration: %s\n", summary.Duration().Round(time.Second))
	if summary.TreePath != "" {
		fmt.Fprintf(w.output, "  tree:     %s\n", summary.TreePath)
	}
	if summary.EpubPath != "" {
		fmt.Fprintf(w.output, "  epub:     %s\n", summary.EpubPath)
	}
	if summary.TextPath != "" {
		fmt.Fprintf(w.output, "  text:     %s\n", summary.TextPath)
	}

	if len(summary.Failures) == 0 {
		return nil
	}
	fmt.Fprintln(w.output, "failed chapters:")
	for _, failure := range summary.Failures {
		if w.verbose {
			fmt.Fprintf(w.output, "  - volume %d chapter %d %q\n    %s\n    %s\n",
				failure.Volume, failure.Chapter, failure.Title, failure.URL, failure.Reason)
			continue
		}
		fmt.Fprintf(w.output, "  - volume %d chapter %d: %s\n",
			failure.Volume, failure.Chapter, truncate(failure.Reason, 80))
	}
	return nil
}
