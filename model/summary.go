package model

import "time"

// Failure records one chapter slot that could not be fully processed.
// Volume and Chapter are the 1-based slot numbers the placeholder keeps.
type Failure struct {
	Volume  int
	Chapter int
	Title   string
	URL     string
	Reason  string
}

// Summary is the accounting for one crawl run. Every chapter slot and every
// asset reference contributes to exactly one counter.
type Summary struct {
	RunID       string
	NovelID     int
	NovelTitle  string
	NovelURL    string
	StartedAt   time.Time
	FinishedAt  time.Time
	ChaptersOK  int
	ChaptersBad int
	AssetsOK    int
	AssetsBad   int
	Failures    []Failure
	TreePath    string // packaged directory tree
	EpubPath    string // zipped epub, empty when zipping was skipped
	TextPath    string // plain-text export root, empty unless requested
}

func (s *Summary) TotalChapters() int {
	return s.ChaptersOK + s.ChaptersBad
}

func (s *Summary) TotalAssets() int {
	return s.AssetsOK + s.AssetsBad
}

func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
