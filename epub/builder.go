package epub

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"

	"docln-downloader/model"
	"docln-downloader/template"
)

// Build writes every generated file of the package tree for novel under
// root: the mimetype file, container.xml, the stylesheet, one page per
// chapter slot (placeholders included), cover pages for volumes that have a
// cover, content.opf and toc.ncx. Images are expected on disk already,
// recorded on the model by the crawl; the manifest lists exactly what the
// finished tree contains.
func Build(novel *model.Novel, root string) error {
	oebps := OEBPSDir(root)
	if err := os.MkdirAll(filepath.Join(root, "META-INF"), 0755); err != nil {
		return fmt.Errorf("failed to create package tree: %v", err)
	}
	if err := os.MkdirAll(oebps, 0755); err != nil {
		return fmt.Errorf("failed to create package tree: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, MimetypeFile), []byte(MimetypeContent), 0644); err != nil {
		return fmt.Errorf("failed to write mimetype: %v", err)
	}
	if err := renderToFile(filepath.Join(root, "META-INF", "container.xml"), template.ContainerXML()); err != nil {
		return fmt.Errorf("failed to write container.xml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(oebps, StyleName), []byte(template.StyleCSS), 0644); err != nil {
		return fmt.Errorf("failed to write stylesheet: %v", err)
	}

	for _, volume := range novel.Volumes {
		if volume.CoverPath != "" {
			page := template.CoverXHTML(volume.Title, StyleHrefFromText, HrefFromText(volume.CoverPath))
			if err := renderToFile(hrefPath(oebps, VolumeCoverPageHref(volume.Index)), page); err != nil {
				return fmt.Errorf("failed to write cover page of volume %v: %v", volume.Index, err)
			}
		}
		for _, chapter := range volume.Chapters {
			page := template.ChapterXHTML(chapter.Title, StyleHrefFromText, chapter.Body)
			if err := renderToFile(hrefPath(oebps, ChapterHref(volume.Index, chapter.Index)), page); err != nil {
				return fmt.Errorf("failed to write chapter %v of volume %v: %v", chapter.Index, volume.Index, err)
			}
		}
	}

	metadata, manifest, spine, guide := assembleOPF(novel)
	if err := renderToFile(filepath.Join(oebps, OPFName), template.ContentOPF("BookId", metadata, manifest, spine, guide)); err != nil {
		return fmt.Errorf("failed to write %v: %v", OPFName, err)
	}

	head, navMap := assembleNCX(novel)
	if err := renderToFile(filepath.Join(oebps, NCXName), template.TocNCX(novel.Title, head, navMap)); err != nil {
		return fmt.Errorf("failed to write %v: %v", NCXName, err)
	}
	return nil
}

// assembleOPF flattens the crawled model into OPF metadata, a manifest of
// everything the tree holds, the reading order and the cover reference.
// Order is fixed by volume and chapter numbers, never by download timing.
func assembleOPF(novel *model.Novel) (*model.DublinCoreMetadata, *model.Manifest, *model.Spine, *model.Guide) {
	metadata := &model.DublinCoreMetadata{
		XmlnsDC:     "http://purl.org/dc/elements/1.1/",
		XmlnsOPF:    "http://www.idpf.org/2007/opf",
		Titles:      []model.DCTitle{{Value: novel.Title}},
		Identifiers: []model.DCIdentifier{{Value: novel.Identifier(), ID: "BookId"}},
		Languages:   []model.DCLanguage{{Value: "vi"}},
		Publishers:  []model.DCPublisher{{Value: "docln-downloader"}},
		Dates:       []model.DCDate{{Value: time.Now().UTC().Format("2006-01-02")}},
		Metas:       []model.PackageMeta{{Name: "generator", Content: "docln-downloader"}},
	}
	if novel.Author != "" {
		metadata.Creators = []model.DCCreator{{Value: novel.Author, Role: "aut"}}
	}
	if novel.Illustrator != "" {
		metadata.Contributors = []model.DCContributor{{Value: novel.Illustrator, Role: "ill"}}
	}
	for _, tag := range novel.Tags {
		metadata.Subjects = append(metadata.Subjects, model.DCSubject{Value: tag})
	}
	if len(novel.Summary) > 0 {
		metadata.Descriptions = []model.DCDescription{{Value: strings.Join(novel.Summary, "\n")}}
	}

	manifest := &model.Manifest{Items: []model.ManifestItem{
		{ID: "ncx", Link: NCXName, Media: "application/x-dtbncx+xml"},
		{ID: "style", Link: StyleName, Media: "text/css"},
	}}
	spine := &model.Spine{Toc: "ncx"}
	var guide *model.Guide

	if novel.CoverPath != "" {
		metadata.Metas = append(metadata.Metas, model.PackageMeta{Name: "cover", Content: "cover-image"})
		manifest.Items = append(manifest.Items, model.ManifestItem{
			ID: "cover-image", Link: novel.CoverPath, Media: mediaType(novel.CoverPath),
		})
		guide = &model.Guide{Items: []model.GuideItem{
			{Type: "cover", Title: "Cover", Link: novel.CoverPath},
		}}
	}

	for _, volume := range novel.Volumes {
		if volume.CoverPath != "" {
			manifest.Items = append(manifest.Items, model.ManifestItem{
				ID: VolumeID(volume.Index) + "_cover", Link: volume.CoverPath, Media: mediaType(volume.CoverPath),
			})
			manifest.Items = append(manifest.Items, model.ManifestItem{
				ID: ChapterID(volume.Index, 0), Link: VolumeCoverPageHref(volume.Index), Media: "application/xhtml+xml",
			})
			spine.Items = append(spine.Items, model.SpineItem{IDref: ChapterID(volume.Index, 0)})
		}
		for _, chapter := range volume.Chapters {
			manifest.Items = append(manifest.Items, model.ManifestItem{
				ID: ChapterID(volume.Index, chapter.Index), Link: ChapterHref(volume.Index, chapter.Index), Media: "application/xhtml+xml",
			})
			spine.Items = append(spine.Items, model.SpineItem{IDref: ChapterID(volume.Index, chapter.Index)})
			for _, asset := range chapter.Assets {
				if !asset.Downloaded {
					continue
				}
				manifest.Items = append(manifest.Items, model.ManifestItem{
					ID:    ChapterID(volume.Index, chapter.Index) + "_img_" + strings.TrimSuffix(asset.Name, path.Ext(asset.Name)),
					Link:  asset.LocalPath,
					Media: mediaType(asset.LocalPath),
				})
			}
		}
	}
	return metadata, manifest, spine, guide
}

// assembleNCX builds the two-level navigation tree: volumes on top, their
// chapters nested. A volume entry targets its cover page when one exists,
// otherwise its first chapter. Play order is assigned in document order.
func assembleNCX(novel *model.Novel) (*model.TocNCXHead, *model.NavMap) {
	head := &model.TocNCXHead{Meta: []model.TocNCXHeadMeta{
		{Name: "dtb:uid", Content: novel.Identifier()},
		{Name: "dtb:depth", Content: "2"},
		{Name: "dtb:totalPageCount", Content: "0"},
		{Name: "dtb:maxPageNumber", Content: "0"},
	}}

	navMap := &model.NavMap{}
	playOrder := 0
	for _, volume := range novel.Volumes {
		if volume.CoverPath == "" && len(volume.Chapters) == 0 {
			continue
		}
		target := VolumeCoverPageHref(volume.Index)
		if volume.CoverPath == "" {
			target = ChapterHref(volume.Index, volume.Chapters[0].Index)
		}
		playOrder++
		point := &model.NavPoint{
			Id:        VolumeID(volume.Index),
			PlayOrder: playOrder,
			Label:     volume.Title,
			Content:   model.NavPointContent{Src: target},
		}
		for _, chapter := range volume.Chapters {
			playOrder++
			point.NavPoints = append(point.NavPoints, &model.NavPoint{
				Id:        ChapterID(volume.Index, chapter.Index),
				PlayOrder: playOrder,
				Label:     chapter.Title,
				Content:   model.NavPointContent{Src: ChapterHref(volume.Index, chapter.Index)},
			})
		}
		navMap.Points = append(navMap.Points, point)
	}
	return head, navMap
}

func renderToFile(filePath string, component templ.Component) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()
	return component.Render(context.Background(), file)
}

func hrefPath(oebps, href string) string {
	return filepath.Join(oebps, filepath.FromSlash(href))
}

func mediaType(href string) string {
	switch strings.ToLower(path.Ext(href)) {
	case ".xhtml":
		return "application/xhtml+xml"
	case ".css":
		return "text/css"
	case ".ncx":
		return "application/x-dtbncx+xml"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
