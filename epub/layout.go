// Package epub lays out, writes, verifies and zips EPUB 2.0 package trees.
//
// A package tree mirrors the final archive exactly:
//
//	epub_<novel-id>/
//	  mimetype
//	  META-INF/container.xml
//	  OEBPS/content.opf
//	  OEBPS/toc.ncx
//	  OEBPS/style.css
//	  OEBPS/text/volume_NNN/chapter_NNN.xhtml
//	  OEBPS/images/cover.jpg
//	  OEBPS/images/volume_NNN/cover.jpg
//	  OEBPS/images/volume_NNN/chapter_NNN/NNN.jpg
//
// chapter_000.xhtml is the volume cover page. Volume and chapter numbers
// are assigned by the crawl and zero-padded to three digits, so the tree
// sorts in reading order.
package epub

import (
	"fmt"
	"path/filepath"
)

const (
	MimetypeFile    = "mimetype"
	MimetypeContent = "application/epub+zip"

	OEBPSDirName = "OEBPS"
	OPFName      = "content.opf"
	NCXName      = "toc.ncx"
	StyleName    = "style.css"

	// StyleHrefFromText is the stylesheet location seen from a chapter page.
	StyleHrefFromText = "../../style.css"
)

// TreeDir is the package tree for one novel under outputDir.
func TreeDir(outputDir string, novelID int) string {
	return filepath.Join(outputDir, fmt.Sprintf("epub_%d", novelID))
}

// OEBPSDir is the content root inside a package tree.
func OEBPSDir(root string) string {
	return filepath.Join(root, OEBPSDirName)
}

// Hrefs are OEBPS-relative and slash-separated, exactly as written into the
// manifest. Join them with OEBPSDir via filepath.FromSlash to get disk paths.

// ChapterHref is the page location of a chapter. Chapter 0 is the volume
// cover page.
func ChapterHref(volume, chapter int) string {
	return fmt.Sprintf("text/volume_%03d/chapter_%03d.xhtml", volume, chapter)
}

// VolumeCoverPageHref is the page showing a volume's cover image.
func VolumeCoverPageHref(volume int) string {
	return ChapterHref(volume, 0)
}

// VolumeImagesDir holds a volume's own images, i.e. its cover.
func VolumeImagesDir(volume int) string {
	return fmt.Sprintf("images/volume_%03d", volume)
}

// ChapterImagesDir holds the illustrations of one chapter.
func ChapterImagesDir(volume, chapter int) string {
	return fmt.Sprintf("images/volume_%03d/chapter_%03d", volume, chapter)
}

// HrefFromText rebases an OEBPS-relative href for use inside a page under
// text/volume_NNN/.
func HrefFromText(href string) string {
	return "../../" + href
}

// ChapterID is the manifest and navigation identifier of a chapter page.
func ChapterID(volume, chapter int) string {
	return fmt.Sprintf("volume_%03d_chapter_%03d", volume, chapter)
}

// VolumeID is the navigation identifier of a volume.
func VolumeID(volume int) string {
	return fmt.Sprintf("volume_%03d", volume)
}
