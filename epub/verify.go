package epub

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ErrInconsistentManifest means the manifest and the files on disk disagree.
var ErrInconsistentManifest = errors.New("manifest does not match package tree")

type opfDocument struct {
	Manifest struct {
		Items []struct {
			Href string `xml:"href,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
}

// ManifestHrefs reads the manifest of a package tree back from disk and
// returns its hrefs in document order.
func ManifestHrefs(root string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(OEBPSDir(root), OPFName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %v", err)
	}
	var doc opfDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %v", err)
	}
	hrefs := make([]string, 0, len(doc.Manifest.Items))
	for _, item := range doc.Manifest.Items {
		hrefs = append(hrefs, item.Href)
	}
	return hrefs, nil
}

// Verify checks that manifest entries and the files under OEBPS correspond
// exactly, in both directions. The OPF itself is the only content file the
// manifest does not list. Any difference is ErrInconsistentManifest naming
// the offending paths, so a bad tree never gets zipped.
func Verify(root string) error {
	hrefs, err := ManifestHrefs(root)
	if err != nil {
		return err
	}

	listed := make(map[string]bool, len(hrefs))
	for _, href := range hrefs {
		listed[href] = true
	}

	oebps := OEBPSDir(root)
	present := make(map[string]bool)
	err = filepath.WalkDir(oebps, func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(oebps, filePath)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == OPFName {
			return nil
		}
		present[rel] = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk package tree: %v", err)
	}

	var missing, orphans []string
	for href := range listed {
		if !present[href] {
			missing = append(missing, href)
		}
	}
	for rel := range present {
		if !listed[rel] {
			orphans = append(orphans, rel)
		}
	}
	if len(missing) == 0 && len(orphans) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(orphans)
	return fmt.Errorf("%w: listed but absent %v, present but unlisted %v", ErrInconsistentManifest, missing, orphans)
}
