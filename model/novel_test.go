package model

import "testing"

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    Category
		path    string
		wantErr bool
	}{
		{name: "original", in: "original", want: CategoryOriginal, path: "sang-tac"},
		{name: "translated", in: "translated", want: CategoryTranslated, path: "ai-dich"},
		{name: "unknown", in: "fanfic", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCategory(%q) expected error, got %q", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCategory(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if got.URLPath() != tt.path {
				t.Errorf("URLPath() = %q, want %q", got.URLPath(), tt.path)
			}
		})
	}
}

func TestNovelIdentifierAndCounts(t *testing.T) {
	t.Parallel()

	n := &Novel{
		ID: 12345,
		Volumes: []*Volume{
			{Index: 1, Chapters: []*Chapter{{Index: 1}, {Index: 2}}},
			{Index: 2, Chapters: []*Chapter{{Index: 1}}},
			{Index: 3},
		},
	}

	if got := n.Identifier(); got != "docln:12345" {
		t.Errorf("Identifier() = %q, want %q", got, "docln:12345")
	}
	if got := n.ChapterCount(); got != 3 {
		t.Errorf("ChapterCount() = %d, want 3", got)
	}
}

func TestChapterStatusString(t *testing.T) {
	t.Parallel()

	if ChapterPending.String() != "pending" {
		t.Errorf("pending status = %q", ChapterPending.String())
	}
	if ChapterOK.String() != "ok" {
		t.Errorf("ok status = %q", ChapterOK.String())
	}
	if ChapterFailed.String() != "failed" {
		t.Errorf("failed status = %q", ChapterFailed.String())
	}
}

func TestSummaryTotals(t *testing.T) {
	t.Parallel()

	s := &Summary{ChaptersOK: 2, ChaptersBad: 1, AssetsOK: 5, AssetsBad: 2}
	if s.TotalChapters() != 3 {
		t.Errorf("TotalChapters() = %d, want 3", s.TotalChapters())
	}
	if s.TotalAssets() != 7 {
		t.Errorf("TotalAssets() = %d, want 7", s.TotalAssets())
	}
}
