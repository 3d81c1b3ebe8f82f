package docln

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"docln-downloader/fetcher"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewAssetReferences(t *testing.T) {
	refs := NewAssetReferences([]string{
		"https://i.docln.net/a.jpg",
		"https://i.docln.net/b.PNG",
		"https://i.docln.net/c.webp?sig=xyz",
		"https://i.docln.net/d",
		"https://i.docln.net/a.jpg",
	})

	wantNames := []string{"001.jpg", "002.png", "003.webp", "004.jpg", "005.jpg"}
	if len(refs) != len(wantNames) {
		t.Fatalf("got %d refs, want %d", len(refs), len(wantNames))
	}
	for i, ref := range refs {
		if ref.Name != wantNames[i] {
			t.Errorf("refs[%d].Name = %q, want %q", i, ref.Name, wantNames[i])
		}
		if ref.Position != i+1 {
			t.Errorf("refs[%d].Position = %d, want %d", i, ref.Position, i+1)
		}
		if ref.Downloaded || ref.LocalPath != "" {
			t.Errorf("refs[%d] should start undownloaded: %+v", i, ref)
		}
	}
}

func TestResolveAssetsIsolatesFailures(t *testing.T) {
	fake := newFakeFetcher()
	fake.pages["https://i.docln.net/1.jpg"] = &fetcher.Page{Body: []byte("img-one"), ContentType: "image/jpeg"}
	fake.pages["https://i.docln.net/3.png"] = &fetcher.Page{Body: []byte("img-three"), ContentType: "image/png"}

	refs := NewAssetReferences([]string{
		"https://i.docln.net/1.jpg",
		"https://i.docln.net/2.jpg",
		"https://i.docln.net/3.png",
	})
	resolver := &assetResolver{fetch: fake, log: discardLogger(), workers: 2}
	dir := t.TempDir()

	if err := resolver.resolve(context.Background(), refs, dir, "images/volume_001/chapter_001"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if !refs[0].Downloaded || refs[0].LocalPath != "images/volume_001/chapter_001/001.jpg" {
		t.Errorf("ref 1 = %+v", refs[0])
	}
	if refs[1].Downloaded || refs[1].LocalPath != "" {
		t.Errorf("failed ref must stay unresolved: %+v", refs[1])
	}
	if !refs[2].Downloaded || refs[2].LocalPath != "images/volume_001/chapter_001/003.png" {
		t.Errorf("ref 3 = %+v", refs[2])
	}

	data, err := os.ReadFile(filepath.Join(dir, "001.jpg"))
	if err != nil || string(data) != "img-one" {
		t.Errorf("001.jpg on disk = %q, %v", data, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "002.jpg")); !os.IsNotExist(err) {
		t.Errorf("002.jpg should not exist, stat err = %v", err)
	}
}

func TestResolveAssetsRejectsNonImage(t *testing.T) {
	fake := newFakeFetcher()
	fake.pages["https://i.docln.net/block.jpg"] = &fetcher.Page{
		Body:        []byte("<html>captcha</html>"),
		ContentType: "text/html; charset=utf-8",
	}

	refs := NewAssetReferences([]string{"https://i.docln.net/block.jpg"})
	resolver := &assetResolver{fetch: fake, log: discardLogger(), workers: 1}

	if err := resolver.resolve(context.Background(), refs, t.TempDir(), "images/volume_001/chapter_001"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if refs[0].Downloaded {
		t.Error("html response must not count as a downloaded image")
	}
}

func TestResolveCover(t *testing.T) {
	fake := newFakeFetcher()
	fake.pages["https://i.docln.net/v1.png"] = &fetcher.Page{Body: []byte("cover-bytes"), ContentType: "image/png"}
	resolver := &assetResolver{fetch: fake, log: discardLogger(), workers: 1}
	dir := t.TempDir()

	rel := resolver.resolveCover(context.Background(), "https://i.docln.net/v1.png",
		filepath.Join(dir, "images", "volume_001"), "images/volume_001")
	if rel != "images/volume_001/cover.png" {
		t.Errorf("rel = %q", rel)
	}
	if _, err := os.Stat(filepath.Join(dir, "images", "volume_001", "cover.png")); err != nil {
		t.Errorf("cover file missing: %v", err)
	}

	if rel := resolver.resolveCover(context.Background(), "", dir, "images"); rel != "" {
		t.Errorf("empty url should resolve to nothing, got %q", rel)
	}
	if rel := resolver.resolveCover(context.Background(), "https://i.docln.net/absent.jpg", dir, "images"); rel != "" {
		t.Errorf("failed download should resolve to nothing, got %q", rel)
	}
}
