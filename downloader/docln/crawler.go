package docln

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"docln-downloader/epub"
	"docln-downloader/fetcher"
	"docln-downloader/model"
)

// Fetcher is the HTTP capability a crawl consumes. *fetcher.Fetcher
// implements it; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Page, error)
	Document(ctx context.Context, url string) (*goquery.Document, error)
}

// crawlState tracks where in the pipeline a run currently is. A run moves
// strictly forward; Aborted is reachable from anywhere.
type crawlState int

const (
	stateInit crawlState = iota
	stateIndexFetched
	stateVolumeLoop
	statePackaged
	stateAborted
)

func (s crawlState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateIndexFetched:
		return "index-fetched"
	case stateVolumeLoop:
		return "volume-loop"
	case statePackaged:
		return "packaged"
	case stateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Input names one novel to crawl and where its package tree goes.
type Input struct {
	BaseURL   string
	Category  model.Category
	NovelID   int
	OutputDir string
}

// Crawler runs the whole pipeline for one novel at a time: index page,
// volume catalog, every chapter with its images, then the package tree.
// Index trouble aborts the run; chapter trouble is recorded on the model
// and in the summary, and the slot is packaged as a placeholder page so
// numbering never shifts.
type Crawler struct {
	fetch   Fetcher
	log     *slog.Logger
	workers int
	state   crawlState

	indexHook   func(novel *model.Novel)
	chapterHook func(done, total int, chapter *model.Chapter)
}

type Option func(*Crawler)

// WithLogger replaces the default slog logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Crawler) {
		if log != nil {
			c.log = log
		}
	}
}

// WithAssetWorkers bounds how many images of one chapter download at once.
func WithAssetWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithIndexHook runs once after the index page is extracted, before any
// chapter is fetched.
func WithIndexHook(hook func(novel *model.Novel)) Option {
	return func(c *Crawler) { c.indexHook = hook }
}

// WithChapterHook runs after every chapter slot settles, successful or not.
func WithChapterHook(hook func(done, total int, chapter *model.Chapter)) Option {
	return func(c *Crawler) { c.chapterHook = hook }
}

func New(fetch Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetch:   fetch,
		log:     slog.Default(),
		workers: 1,
		state:   stateInit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crawl downloads one novel and builds its verified package tree. The
// returned summary is filled in even when the run aborts; the novel is nil
// only when the index itself could not be fetched or read.
func (c *Crawler) Crawl(ctx context.Context, in Input) (*model.Novel, *model.Summary, error) {
	summary := &model.Summary{
		RunID:     uuid.NewString(),
		NovelID:   in.NovelID,
		StartedAt: time.Now(),
	}
	novel, err := c.run(ctx, in, summary)
	summary.FinishedAt = time.Now()
	if err != nil {
		c.setState(stateAborted)
		return novel, summary, err
	}
	c.setState(statePackaged)
	return novel, summary, nil
}

func (c *Crawler) run(ctx context.Context, in Input, summary *model.Summary) (*model.Novel, error) {
	indexURL := NovelURL(in.BaseURL, in.Category, in.NovelID)
	summary.NovelURL = indexURL
	c.log.Info("fetching index", "url", indexURL)

	doc, err := c.fetch.Document(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch novel index: %w", err)
	}
	novel, err := ExtractNovel(doc, indexURL)
	if err != nil {
		return nil, err
	}
	novel.ID = in.NovelID
	novel.Category = in.Category
	novel.Volumes, err = ExtractVolumes(doc, indexURL)
	if err != nil {
		return nil, err
	}
	c.setState(stateIndexFetched)
	summary.NovelTitle = novel.Title
	c.log.Info("index extracted", "title", novel.Title,
		"volumes", len(novel.Volumes), "chapters", novel.ChapterCount())
	if c.indexHook != nil {
		c.indexHook(novel)
	}

	root := epub.TreeDir(in.OutputDir, in.NovelID)
	oebps := epub.OEBPSDir(root)
	resolver := &assetResolver{fetch: c.fetch, log: c.log, workers: c.workers}

	if novel.CoverURL != "" {
		novel.CoverPath = resolver.resolveCover(ctx, novel.CoverURL,
			filepath.Join(oebps, "images"), "images")
		countCover(summary, novel.CoverPath)
	}

	c.setState(stateVolumeLoop)
	total := novel.ChapterCount()
	done := 0
	for _, volume := range novel.Volumes {
		if volume.CoverURL != "" {
			rel := epub.VolumeImagesDir(volume.Index)
			volume.CoverPath = resolver.resolveCover(ctx, volume.CoverURL,
				filepath.Join(oebps, filepath.FromSlash(rel)), rel)
			countCover(summary, volume.CoverPath)
		}
		for _, chapter := range volume.Chapters {
			c.crawlChapter(ctx, resolver, oebps, volume, chapter, summary)
			done++
			if c.chapterHook != nil {
				c.chapterHook(done, total, chapter)
			}
		}
	}

	if err := epub.Build(novel, root); err != nil {
		return novel, err
	}
	if err := epub.Verify(root); err != nil {
		return novel, err
	}
	summary.TreePath = root
	return novel, nil
}

// crawlChapter settles one chapter slot. Whatever goes wrong inside stays
// inside: the slot either carries the transformed chapter or a placeholder
// explaining itself, and the crawl moves on.
func (c *Crawler) crawlChapter(ctx context.Context, resolver *assetResolver, oebps string, volume *model.Volume, chapter *model.Chapter, summary *model.Summary) {
	c.log.Info("fetching chapter", "volume", volume.Index, "chapter", chapter.Index, "title", chapter.Title)

	if err := c.processChapter(ctx, resolver, oebps, volume, chapter, summary); err != nil {
		chapter.Status = model.ChapterFailed
		chapter.Err = err.Error()
		chapter.Body = PlaceholderBody(err.Error(), chapter.URL)
		summary.ChaptersBad++
		summary.Failures = append(summary.Failures, model.Failure{
			Volume:  volume.Index,
			Chapter: chapter.Index,
			Title:   chapter.Title,
			URL:     chapter.URL,
			Reason:  err.Error(),
		})
		c.log.Warn("chapter failed", "volume", volume.Index, "chapter", chapter.Index, "error", err)
		return
	}
	chapter.Status = model.ChapterOK
	summary.ChaptersOK++
}

func (c *Crawler) processChapter(ctx context.Context, resolver *assetResolver, oebps string, volume *model.Volume, chapter *model.Chapter, summary *model.Summary) error {
	doc, err := c.fetch.Document(ctx, chapter.URL)
	if err != nil {
		return err
	}
	raw, err := ExtractChapterBody(doc, chapter.URL)
	if err != nil {
		return err
	}

	chapter.Assets = NewAssetReferences(ExtractImageURLs(raw, chapter.URL))
	if len(chapter.Assets) > 0 {
		rel := epub.ChapterImagesDir(volume.Index, chapter.Index)
		dir := filepath.Join(oebps, filepath.FromSlash(rel))
		if err := resolver.resolve(ctx, chapter.Assets, dir, rel); err != nil {
			return err
		}
	}

	assets := make(map[string]string, len(chapter.Assets))
	for _, ref := range chapter.Assets {
		if ref.Downloaded {
			summary.AssetsOK++
			assets[ref.SourceURL] = epub.HrefFromText(ref.LocalPath)
		} else {
			summary.AssetsBad++
		}
	}

	body, err := TransformChapterBody(raw, chapter.URL, assets)
	if err != nil {
		return err
	}
	chapter.Body = body
	return nil
}

func (c *Crawler) setState(next crawlState) {
	c.log.Debug("state", "from", c.state, "to", next)
	c.state = next
}

func countCover(summary *model.Summary, coverPath string) {
	if coverPath != "" {
		summary.AssetsOK++
	} else {
		summary.AssetsBad++
	}
}
