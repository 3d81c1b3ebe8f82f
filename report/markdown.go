package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"docln-downloader/model"
)

// MarkdownWriter renders a run summary as a markdown document, meant for
// the --summary file next to the produced epub.
type MarkdownWriter struct {
	output io.Writer
}

func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

func (w *MarkdownWriter) Write(summary *model.Summary) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Report: " + summary.NovelTitle)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Novel", fmt.Sprintf("[%s](%s)", summary.NovelTitle, summary.NovelURL)},
			{"Novel ID", strconv.Itoa(summary.NovelID)},
			{"Run ID", "`" + summary.RunID + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration().Round(time.Second).String()},
			{"Status", statusText(summary)},
		},
	})
	md.PlainText("")

	md.H2("Counts")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"", "OK", "Failed", "Total"},
		Rows: [][]string{
			{"Chapters", strconv.Itoa(summary.ChaptersOK), strconv.Itoa(summary.ChaptersBad), strconv.Itoa(summary.TotalChapters())},
			{"Images", strconv.Itoa(summary.AssetsOK), strconv.Itoa(summary.AssetsBad), strconv.Itoa(summary.TotalAssets())},
		},
	})
	md.PlainText("")

	if len(summary.Failures) > 0 {
		md.H2("Failed Chapters")
		md.PlainText("")
		rows := make([][]string, len(summary.Failures))
		for i, failure := range summary.Failures {
			rows[i] = []string{
				strconv.Itoa(failure.Volume),
				strconv.Itoa(failure.Chapter),
				truncate(failure.Title, 40),
				fmt.Sprintf("[source](%s)", failure.URL),
				truncate(failure.Reason, 60),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Volume", "Chapter", "Title", "Link", "Reason"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if summary.EpubPath != "" || summary.TreePath != "" || summary.TextPath != "" {
		md.H2("Artifacts")
		md.PlainText("")
		var items []string
		if summary.EpubPath != "" {
			items = append(items, "epub: `"+summary.EpubPath+"`")
		}
		if summary.TreePath != "" {
			items = append(items, "package tree: `"+summary.TreePath+"`")
		}
		if summary.TextPath != "" {
			items = append(items, "text: `"+summary.TextPath+"`")
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainTextf("*Report generated by docln-downloader run `%s`*", summary.RunID)
	return md.Build()
}
