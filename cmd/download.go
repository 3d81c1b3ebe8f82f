package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"docln-downloader/config"
	"docln-downloader/downloader/docln"
	"docln-downloader/epub"
	"docln-downloader/fetcher"
	"docln-downloader/model"
	"docln-downloader/report"
	"docln-downloader/text"
	"docln-downloader/utils"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download a novel and package it as EPUB",
	Long: "Download a novel from docln.net chapter by chapter and package it " +
		"as an EPUB 2.0 file. Chapters that cannot be fetched become placeholder " +
		"pages, so volume and chapter numbering always survives.",
	RunE: runDownload,
}

const (
	formatEpub = "epub"
	formatText = "text"
	formatBoth = "both"
)

type downloadArgs struct {
	NovelID          int
	Category         string
	Output           string
	Format           string
	KeepTree         bool
	Summary          string
	NoInput          bool
	Verbose          bool
	BaseURL          string
	UserAgent        string
	IntervalMS       int
	TimeoutSec       int
	AssetWorkers     int
	CloudflareBypass bool
}

var dArgs downloadArgs

func init() {
	downloadCmd.Flags().IntVarP(&dArgs.NovelID, "novel-id", "n", 0, "novel id")
	downloadCmd.Flags().StringVarP(&dArgs.Category, "category", "c", "", "novel category: original or translated")
	downloadCmd.Flags().StringVarP(&dArgs.Output, "output-path", "o", "", "output path")
	downloadCmd.Flags().StringVarP(&dArgs.Format, "format", "f", formatEpub, "output format: epub, text or both")
	downloadCmd.Flags().BoolVar(&dArgs.KeepTree, "keep-tree", false, "keep the package tree next to the epub")
	downloadCmd.Flags().StringVar(&dArgs.Summary, "summary", "", "write a markdown run report to this file")
	downloadCmd.Flags().BoolVar(&dArgs.NoInput, "no-input", false, "fail instead of prompting for missing arguments")
	downloadCmd.Flags().BoolVarP(&dArgs.Verbose, "verbose", "v", false, "list chapter failures in full")
	downloadCmd.Flags().StringVar(&dArgs.BaseURL, "base-url", "", "site base url")
	downloadCmd.Flags().StringVar(&dArgs.UserAgent, "user-agent", "", "request user agent")
	downloadCmd.Flags().IntVar(&dArgs.IntervalMS, "interval-ms", 0, "politeness spacing between request starts")
	downloadCmd.Flags().IntVar(&dArgs.TimeoutSec, "timeout-sec", 0, "per request timeout")
	downloadCmd.Flags().IntVar(&dArgs.AssetWorkers, "asset-workers", 0, "parallel image downloads per chapter")
	downloadCmd.Flags().BoolVar(&dArgs.CloudflareBypass, "cloudflare-bypass", false, "send browser-like headers on the transport")
	RootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, source, err := config.LoadMerged(config.Options{
		ConfigPath:       rootArgs.configPath,
		IgnoreConfig:     rootArgs.ignoreConfig,
		BaseURL:          dArgs.BaseURL,
		UserAgent:        dArgs.UserAgent,
		IntervalMS:       dArgs.IntervalMS,
		TimeoutSec:       dArgs.TimeoutSec,
		AssetWorkers:     dArgs.AssetWorkers,
		CloudflareBypass: dArgs.CloudflareBypass,
		Output:           dArgs.Output,
		KeepTree:         dArgs.KeepTree,
		SummaryFile:      dArgs.Summary,
	})
	if err != nil {
		return err
	}
	slog.Debug("configuration resolved", "source", source)

	format, err := parseFormat(dArgs.Format)
	if err != nil {
		return err
	}
	category, err := resolveCategory(dArgs.Category)
	if err != nil {
		return err
	}
	novelID, err := resolveNovelID(dArgs.NovelID)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := newDownloadProgress()
	crawler := docln.New(
		fetcher.New(fetcher.Config{
			UserAgent:        cfg.UserAgent,
			Interval:         cfg.Interval(),
			Timeout:          cfg.Timeout(),
			CloudflareBypass: cfg.CloudflareBypass,
		}),
		docln.WithAssetWorkers(cfg.AssetWorkers),
		docln.WithIndexHook(progress.start),
		docln.WithChapterHook(progress.update),
	)

	novel, summary, crawlErr := crawler.Crawl(ctx, docln.Input{
		BaseURL:   cfg.BaseURL,
		Category:  category,
		NovelID:   novelID,
		OutputDir: cfg.Output,
	})
	progress.close()

	if crawlErr != nil {
		printSummary(cfg, summary)
		return fmt.Errorf("failed to download novel: %v", crawlErr)
	}

	if format == formatEpub || format == formatBoth {
		epubPath := epubFilePath(cfg.Output, novel)
		if err := epub.Pack(summary.TreePath, epubPath); err != nil {
			return fmt.Errorf("failed to pack epub: %v", err)
		}
		summary.EpubPath = epubPath
	}
	if format == formatText || format == formatBoth {
		textPath, err := text.ExportNovel(novel, cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to export text: %v", err)
		}
		summary.TextPath = textPath
	}
	if !cfg.KeepTree {
		if err := os.RemoveAll(summary.TreePath); err != nil {
			slog.Warn("failed to remove package tree", "path", summary.TreePath, "error", err)
		} else {
			summary.TreePath = ""
		}
	}

	return printSummary(cfg, summary)
}

func parseFormat(s string) (string, error) {
	switch s {
	case formatEpub, formatText, formatBoth:
		return s, nil
	}
	return "", fmt.Errorf("unknown format %q (want epub, text or both)", s)
}

func resolveCategory(value string) (model.Category, error) {
	if value != "" {
		return model.ParseCategory(value)
	}
	if dArgs.NoInput {
		return "", fmt.Errorf("category is required with --no-input")
	}
	prompt := promptui.Select{
		Label: "Category",
		Items: []string{string(model.CategoryOriginal), string(model.CategoryTranslated)},
	}
	_, choice, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled")
	}
	return model.ParseCategory(choice)
}

func resolveNovelID(value int) (int, error) {
	if value > 0 {
		return value, nil
	}
	if dArgs.NoInput {
		return 0, fmt.Errorf("novel id is required with --no-input")
	}
	prompt := promptui.Prompt{
		Label: "Novel ID",
		Validate: func(input string) error {
			id, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil || id <= 0 {
				return fmt.Errorf("enter a positive number")
			}
			return nil
		},
	}
	raw, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("input cancelled")
	}
	id, _ := strconv.Atoi(strings.TrimSpace(raw))
	return id, nil
}

func epubFilePath(outputDir string, novel *model.Novel) string {
	name := utils.CleanFileName(novel.Title)
	if name == "" {
		name = fmt.Sprintf("epub_%d", novel.ID)
	}
	return filepath.Join(outputDir, name+".epub")
}

func printSummary(cfg *config.Config, summary *model.Summary) error {
	writers := []report.Writer{
		report.NewConsoleWriter(os.Stdout, report.WithVerbose(dArgs.Verbose)),
	}
	if cfg.SummaryFile != "" {
		file, err := os.Create(cfg.SummaryFile)
		if err != nil {
			return fmt.Errorf("failed to create summary file: %v", err)
		}
		defer file.Close()
		writers = append(writers, report.NewMarkdownWriter(file))
	}
	return report.NewMultiWriter(writers...).Write(summary)
}

// downloadProgress renders one chapter-level bar. The index hook opens it
// once the chapter total is known; the chapter hook moves it.
type downloadProgress struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

func newDownloadProgress() *downloadProgress {
	return &downloadProgress{
		progress: mpb.New(
			mpb.WithWidth(52),
			mpb.WithOutput(os.Stdout),
			mpb.WithRefreshRate(120*time.Millisecond),
		),
	}
}

func (p *downloadProgress) start(novel *model.Novel) {
	p.bar = p.progress.New(
		int64(novel.ChapterCount()),
		mpb.BarStyle().Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(barPrefix(novel.Title)+"  "),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d chapters", decor.WCSyncWidth),
		),
	)
}

func (p *downloadProgress) update(done, total int, chapter *model.Chapter) {
	if p.bar == nil {
		return
	}
	p.bar.SetTotal(int64(total), false)
	p.bar.SetCurrent(int64(done))
}

func (p *downloadProgress) close() {
	if p.bar != nil && !p.bar.Completed() {
		p.bar.Abort(true)
	}
	p.progress.Wait()
}

func barPrefix(title string) string {
	runes := []rune(title)
	if len(runes) > 28 {
		return string(runes[:25]) + "..."
	}
	return title
}
