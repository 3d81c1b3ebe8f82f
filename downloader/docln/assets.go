package docln

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"docln-downloader/model"
)

// AssetError reports a single image that could not be packaged. It never
// aborts the chapter that referenced it.
type AssetError struct {
	URL  string
	Name string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("failed to download asset %s (%s): %v", e.Name, e.URL, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// NewAssetReferences numbers the image occurrences of one chapter in order
// of appearance. Names depend only on position and source extension, never
// on download timing, so reruns produce identical trees.
func NewAssetReferences(urls []string) []*model.AssetReference {
	refs := make([]*model.AssetReference, 0, len(urls))
	for i, u := range urls {
		refs = append(refs, &model.AssetReference{
			SourceURL: u,
			Position:  i + 1,
			Name:      assetName(i+1, u),
		})
	}
	return refs
}

func assetName(position int, sourceURL string) string {
	return fmt.Sprintf("%03d%s", position, assetExt(sourceURL))
}

// assetExt keeps known raster extensions and defaults everything else to
// .jpg, matching what the site actually serves.
func assetExt(sourceURL string) string {
	p := sourceURL
	if u, err := url.Parse(sourceURL); err == nil {
		p = u.Path
	}
	switch ext := strings.ToLower(path.Ext(p)); ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	}
	return ".jpg"
}

type assetResolver struct {
	fetch   Fetcher
	log     *slog.Logger
	workers int
}

// resolve downloads every reference into dir and records the OEBPS-relative
// location rel/<name> on the reference. A failed download only marks its own
// reference; the rest of the batch continues.
func (r *assetResolver) resolve(ctx context.Context, refs []*model.AssetReference, dir, rel string) error {
	if len(refs) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			if err := r.download(ctx, ref, dir); err != nil {
				r.log.Warn("asset skipped", "url", ref.SourceURL, "error", err)
				return nil
			}
			ref.LocalPath = path.Join(rel, ref.Name)
			ref.Downloaded = true
			return nil
		})
	}
	return g.Wait()
}

func (r *assetResolver) download(ctx context.Context, ref *model.AssetReference, dir string) error {
	page, err := r.fetch.Fetch(ctx, ref.SourceURL)
	if err != nil {
		return &AssetError{URL: ref.SourceURL, Name: ref.Name, Err: err}
	}
	if ct := page.ContentType; ct != "" && !strings.HasPrefix(ct, "image/") {
		return &AssetError{URL: ref.SourceURL, Name: ref.Name, Err: fmt.Errorf("unexpected content type %q", ct)}
	}
	if err := os.WriteFile(filepath.Join(dir, ref.Name), page.Body, 0644); err != nil {
		return &AssetError{URL: ref.SourceURL, Name: ref.Name, Err: err}
	}
	return nil
}

// resolveCover fetches one cover image under the fixed name cover<ext> and
// returns its OEBPS-relative path. Covers are decoration: any trouble is
// logged and reported as a missing cover, never as a failed crawl.
func (r *assetResolver) resolveCover(ctx context.Context, coverURL, dir, rel string) string {
	if coverURL == "" {
		return ""
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		r.log.Warn("cover skipped", "url", coverURL, "error", err)
		return ""
	}
	ref := &model.AssetReference{SourceURL: coverURL, Position: 1, Name: "cover" + assetExt(coverURL)}
	if err := r.download(ctx, ref, dir); err != nil {
		r.log.Warn("cover skipped", "url", coverURL, "error", err)
		return ""
	}
	return path.Join(rel, ref.Name)
}
