package model

import "fmt"

// Category selects which docln catalog a novel is listed under.
type Category string

const (
	// CategoryOriginal is self-published fiction, served under /sang-tac.
	CategoryOriginal Category = "original"
	// CategoryTranslated is machine-assisted translation, served under /ai-dich.
	CategoryTranslated Category = "translated"
)

// ParseCategory maps the user-facing category name to a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryOriginal, CategoryTranslated:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q (want original or translated)", s)
}

// URLPath returns the site path segment for the category.
func (c Category) URLPath() string {
	if c == CategoryTranslated {
		return "ai-dich"
	}
	return "sang-tac"
}

// ChapterStatus tracks the outcome of a single chapter slot. A chapter keeps
// its slot whatever happens to it; failed slots are packaged as placeholders.
type ChapterStatus int

const (
	ChapterPending ChapterStatus = iota
	ChapterOK
	ChapterFailed
)

func (s ChapterStatus) String() string {
	switch s {
	case ChapterOK:
		return "ok"
	case ChapterFailed:
		return "failed"
	}
	return "pending"
}

// AssetReference is one image occurrence inside a chapter body. Position is
// the 1-based order of appearance and fully determines Name, so reruns over
// the same markup produce the same file names.
type AssetReference struct {
	SourceURL  string
	Position   int
	Name       string
	LocalPath  string // OEBPS-relative path once written
	Downloaded bool
}

type Chapter struct {
	Index            int // 1-based slot within the volume, fixed at index time
	Title            string
	URL              string
	HasIllustrations bool
	Status           ChapterStatus
	Err              string // failure detail when Status is ChapterFailed
	Body             string // transformed XHTML fragment
	Assets           []*AssetReference
}

type Volume struct {
	Index     int // 1-based position on the index page
	Title     string
	AnchorID  string // fragment id linking the volume list entry to its section
	CoverURL  string
	CoverPath string // OEBPS-relative path once written
	Chapters  []*Chapter
}

type Novel struct {
	ID          int
	Category    Category
	URL         string
	Title       string
	Author      string
	Illustrator string
	Summary     []string // paragraphs
	Tags        []string
	CoverURL    string
	CoverPath   string // OEBPS-relative path once written
	Volumes     []*Volume
}

// Identifier is the package-unique book identifier.
func (n *Novel) Identifier() string {
	return fmt.Sprintf("docln:%d", n.ID)
}

// ChapterCount is the number of chapter slots across all volumes.
func (n *Novel) ChapterCount() int {
	total := 0
	for _, v := range n.Volumes {
		total += len(v.Chapters)
	}
	return total
}
