package template

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"docln-downloader/model"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	return buf.String()
}

func TestContainerXML(t *testing.T) {
	t.Parallel()

	out := render(t, ContainerXML())
	if !strings.Contains(out, `full-path="OEBPS/content.opf"`) {
		t.Errorf("container.xml missing rootfile path:\n%s", out)
	}
	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("container.xml missing xml declaration")
	}
}

func TestContentOPF(t *testing.T) {
	t.Parallel()

	metadata := &model.DublinCoreMetadata{
		XmlnsDC:     "http://purl.org/dc/elements/1.1/",
		XmlnsOPF:    "http://www.idpf.org/2007/opf",
		Titles:      []model.DCTitle{{Value: "Thư viện & bóng tối"}},
		Identifiers: []model.DCIdentifier{{Value: "docln:77", ID: "book-id"}},
		Languages:   []model.DCLanguage{{Value: "vi"}},
	}
	manifest := &model.Manifest{Items: []model.ManifestItem{
		{ID: "ncx", Link: "toc.ncx", Media: "application/x-dtbncx+xml"},
	}}
	spine := &model.Spine{Toc: "ncx", Items: []model.SpineItem{{IDref: "c1"}}}

	out := render(t, ContentOPF("book-id", metadata, manifest, spine, nil))
	if !strings.Contains(out, `unique-identifier="book-id" version="2.0"`) {
		t.Errorf("package element wrong:\n%s", out)
	}
	if !strings.Contains(out, "<dc:title>Thư viện &amp; bóng tối</dc:title>") {
		t.Errorf("title not marshalled/escaped:\n%s", out)
	}
	if !strings.Contains(out, `xmlns:dc="http://purl.org/dc/elements/1.1/"`) {
		t.Error("dc namespace missing from metadata")
	}
	if strings.Contains(out, "<guide>") {
		t.Error("nil guide must be omitted")
	}

	guide := &model.Guide{Items: []model.GuideItem{{Title: "Cover", Type: "cover", Link: "text/cover.xhtml"}}}
	withGuide := render(t, ContentOPF("book-id", metadata, manifest, spine, guide))
	if !strings.Contains(withGuide, `<reference title="Cover" type="cover" href="text/cover.xhtml">`) {
		t.Errorf("guide reference missing:\n%s", withGuide)
	}
}

func TestTocNCX(t *testing.T) {
	t.Parallel()

	head := &model.TocNCXHead{Meta: []model.TocNCXHeadMeta{
		{Name: "dtb:uid", Content: "docln:77"},
		{Name: "dtb:depth", Content: "2"},
	}}
	navMap := &model.NavMap{Points: []*model.NavPoint{
		{
			Id:        "volume_001",
			PlayOrder: 1,
			Label:     "Tập 1",
			Content:   model.NavPointContent{Src: "text/volume_001/chapter_000.xhtml"},
			NavPoints: []*model.NavPoint{
				{
					Id:        "volume_001_chapter_001",
					PlayOrder: 2,
					Label:     "Chương 1",
					Content:   model.NavPointContent{Src: "text/volume_001/chapter_001.xhtml"},
				},
			},
		},
	}}

	out := render(t, TocNCX(`Sword & Sorcery`, head, navMap))
	if !strings.Contains(out, "<docTitle><text>Sword &amp; Sorcery</text></docTitle>") {
		t.Errorf("docTitle not escaped:\n%s", out)
	}
	if !strings.Contains(out, `xmlns="http://www.daisy.org/z3986/2005/ncx/"`) {
		t.Error("ncx namespace missing")
	}
	if !strings.Contains(out, `playOrder="2"`) {
		t.Error("nested navPoint missing")
	}
	// the first closing navPoint must close the chapter, proving it nests
	// inside the volume point instead of following it
	if strings.Index(out, "</navPoint>") < strings.Index(out, "volume_001_chapter_001") {
		t.Error("chapter navPoint should nest inside its volume")
	}
}

func TestChapterXHTML(t *testing.T) {
	t.Parallel()

	out := render(t, ChapterXHTML("Chương 1 <thử>", "../../style.css", "<p>done</p>"))
	if !strings.Contains(out, "<h1>Chương 1 &lt;thử&gt;</h1>") {
		t.Errorf("title not escaped:\n%s", out)
	}
	if !strings.Contains(out, "<p>done</p>") {
		t.Error("body fragment must pass through unescaped")
	}
	if !strings.Contains(out, `href="../../style.css"`) {
		t.Error("stylesheet link missing")
	}
	if !strings.Contains(out, "DTD XHTML 1.1") {
		t.Error("doctype missing")
	}
}

func TestCoverXHTML(t *testing.T) {
	t.Parallel()

	out := render(t, CoverXHTML("Tập 1", "../../style.css", "../../images/volume_001/cover.jpg"))
	if !strings.Contains(out, `<img src="../../images/volume_001/cover.jpg" alt="Tập 1"/>`) {
		t.Errorf("cover image element wrong:\n%s", out)
	}
	if !strings.Contains(out, `<body class="cover">`) {
		t.Error("cover body class missing")
	}
}
