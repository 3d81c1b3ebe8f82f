package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownWriter(&buf).Write(sampleSummary()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Crawl Report: Tên Truyện",
		"## Counts",
		"## Failed Chapters",
		"## Artifacts",
		"`run-1`",
		"[source](https://docln.example/c2)",
		"- epub: `/out/truyen.epub`",
		"- package tree: `/out/epub_7`",
		"---",
		"*Report generated by docln-downloader run `run-1`*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestMarkdownWriterTextOnly(t *testing.T) {
	summary := sampleSummary()
	summary.TreePath = ""
	summary.EpubPath = ""
	summary.TextPath = "/out/text_7"

	var buf bytes.Buffer
	if err := NewMarkdownWriter(&buf).Write(summary); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "aborted") {
		t.Error("text-only run reported as aborted")
	}
	if !strings.Contains(out, "## Artifacts") {
		t.Error("text export should render an artifacts section")
	}
	if !strings.Contains(out, "- text: `/out/text_7`") {
		t.Error("missing text artifact bullet")
	}
	if strings.Contains(out, "- epub:") || strings.Contains(out, "- package tree:") {
		t.Error("text-only run should not list tree or epub artifacts")
	}
}

func TestMarkdownWriterCleanRun(t *testing.T) {
	summary := sampleSummary()
	summary.ChaptersBad = 0
	summary.Failures = nil

	var buf bytes.Buffer
	if err := NewMarkdownWriter(&buf).Write(summary); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "## Failed Chapters") {
		t.Error("clean run should not render a failure table")
	}
	if !strings.Contains(out, "## Counts") {
		t.Error("counts table should always render")
	}
}
