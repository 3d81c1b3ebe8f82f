// Package text exports a crawled novel as plain UTF-8 files, one per
// chapter slot, for readers who want the words without the packaging.
package text

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"docln-downloader/model"
	"docln-downloader/utils"
)

// ExportNovel writes text_<novel-id>/volume_NNN/NNN-<title>.txt under
// outputDir and returns the export root. An existing export is replaced.
// Placeholder chapters are exported like any other, so the file list always
// matches the chapter catalog.
func ExportNovel(novel *model.Novel, outputDir string) (string, error) {
	root := filepath.Join(outputDir, fmt.Sprintf("text_%d", novel.ID))
	_, err := os.Stat(root)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to get output directory: %v", err)
		}
	} else {
		if err := os.RemoveAll(root); err != nil {
			return "", fmt.Errorf("failed to remove output directory: %v", err)
		}
	}

	for _, volume := range novel.Volumes {
		dir := filepath.Join(root, fmt.Sprintf("volume_%03d", volume.Index))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %v", err)
		}
		for _, chapter := range volume.Chapters {
			name := fmt.Sprintf("%03d-%s.txt", chapter.Index, utils.CleanFileName(chapter.Title))
			if err := writeChapterText(filepath.Join(dir, name), chapter); err != nil {
				return "", err
			}
		}
	}
	return root, nil
}

func writeChapterText(path string, chapter *model.Chapter) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(chapter.Body))
	if err != nil {
		return fmt.Errorf("failed to parse chapter %v: %v", chapter.Index, err)
	}
	doc.Find("img").Remove()

	var b strings.Builder
	b.WriteString(chapter.Title)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(doc.Text()))
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write chapter file: %v", err)
	}
	return nil
}
