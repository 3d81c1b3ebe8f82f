package epub

import (
	"archive/zip"
	"io"
	"path/filepath"
	"testing"
)

func TestPackWritesMimetypeFirstUncompressed(t *testing.T) {
	root := buildSample(t, sampleNovel())
	epubPath := filepath.Join(t.TempDir(), "out.epub")
	if err := Pack(root, epubPath); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	reader, err := zip.OpenReader(epubPath)
	if err != nil {
		t.Fatalf("open epub: %v", err)
	}
	defer reader.Close()

	if len(reader.File) == 0 {
		t.Fatal("empty archive")
	}
	first := reader.File[0]
	if first.Name != MimetypeFile {
		t.Errorf("first entry = %s, want %s", first.Name, MimetypeFile)
	}
	if first.Method != zip.Store {
		t.Errorf("mimetype method = %d, must be stored uncompressed", first.Method)
	}
	rc, err := first.Open()
	if err != nil {
		t.Fatalf("open mimetype entry: %v", err)
	}
	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read mimetype entry: %v", err)
	}
	if string(content) != MimetypeContent {
		t.Errorf("mimetype entry = %q, want %q", content, MimetypeContent)
	}

	mimetypeEntries := 0
	names := make(map[string]bool, len(reader.File))
	for _, file := range reader.File {
		names[file.Name] = true
		if file.Name == MimetypeFile {
			mimetypeEntries++
			continue
		}
		if file.Method != zip.Deflate {
			t.Errorf("%s method = %d, want deflate", file.Name, file.Method)
		}
	}
	if mimetypeEntries != 1 {
		t.Errorf("mimetype written %d times", mimetypeEntries)
	}
	for _, want := range []string{
		"META-INF/container.xml",
		"OEBPS/content.opf",
		"OEBPS/toc.ncx",
		"OEBPS/style.css",
		"OEBPS/text/volume_001/chapter_001.xhtml",
		"OEBPS/images/cover.jpg",
	} {
		if !names[want] {
			t.Errorf("archive missing %s", want)
		}
	}
}

func TestPackMissingTree(t *testing.T) {
	dir := t.TempDir()
	err := Pack(filepath.Join(dir, "no-such-tree"), filepath.Join(dir, "out.epub"))
	if err == nil {
		t.Fatal("expected an error for a missing tree")
	}
}
