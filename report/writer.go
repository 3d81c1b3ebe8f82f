// Package report renders run summaries for people: a console view for the
// terminal and a markdown view for files worth keeping.
package report

import (
	"fmt"

	"docln-downloader/model"
)

// Writer renders one run summary to its configured destination.
type Writer interface {
	Write(summary *model.Summary) error
}

// MultiWriter fans a summary out to several writers, stopping at the first
// error. Useful for terminal plus file.
type MultiWriter struct {
	writers []Writer
}

func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

func (m *MultiWriter) Write(summary *model.Summary) error {
	for _, w := range m.writers {
		if err := w.Write(summary); err != nil {
			return err
		}
	}
	return nil
}

func statusText(summary *model.Summary) string {
	switch {
	case summary.TreePath == "" && summary.EpubPath == "" && summary.TextPath == "":
		return "aborted"
	case summary.ChaptersBad > 0:
		return fmt.Sprintf("completed, %d chapter(s) replaced by placeholders", summary.ChaptersBad)
	default:
		return "completed"
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
