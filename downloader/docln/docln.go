// Package docln crawls light novels hosted on docln.net and packages them.
// Extraction functions are pure: they work on parsed documents and never
// touch the network, so the crawl loop owns all IO and its ordering.
package docln

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"docln-downloader/model"
)

// ErrMissingField marks a required element that was absent from a page.
var ErrMissingField = errors.New("required field missing")

// ExtractError reports which required field could not be extracted from
// which page. It matches errors.Is(err, ErrMissingField).
type ExtractError struct {
	Field string
	URL   string
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to extract %s from %s", e.Field, e.URL)
}

func (e *ExtractError) Unwrap() error { return ErrMissingField }

var (
	backgroundURLPattern = regexp.MustCompile(`url\(['"]?([^'")]+)['"]?\)`)
	anchorIDPattern      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
)

// NovelURL builds the index page URL for a novel.
func NovelURL(baseURL string, category model.Category, novelID int) string {
	return fmt.Sprintf("%s/%s/%d", strings.TrimRight(baseURL, "/"), category.URLPath(), novelID)
}

// ExtractNovel reads novel metadata from a parsed index page. Only the
// title is required; author, illustrator, summary, tags and cover are best
// effort and stay empty when the page does not carry them.
func ExtractNovel(doc *goquery.Document, pageURL string) (*model.Novel, error) {
	novel := &model.Novel{URL: pageURL}

	novel.Title = strings.TrimSpace(doc.Find("span.series-name > a").First().Text())
	if novel.Title == "" {
		return nil, &ExtractError{Field: "title", URL: pageURL}
	}

	doc.Find("div.info-item").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find("span.info-name").Text())
		value := strings.TrimSpace(s.Find("span.info-value > a").First().Text())
		switch {
		case strings.Contains(name, "Tác giả"):
			novel.Author = value
		case strings.Contains(name, "Họa sĩ"):
			novel.Illustrator = value
		}
	})

	doc.Find("div.summary-content > p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			novel.Summary = append(novel.Summary, text)
		}
	})

	doc.Find("div.series-gernes > a").Each(func(_ int, s *goquery.Selection) {
		if tag := strings.TrimSpace(s.Text()); tag != "" {
			novel.Tags = append(novel.Tags, tag)
		}
	})

	novel.CoverURL = coverURLFromStyle(doc.Find("div.content.img-in-ratio").First(), pageURL)

	return novel, nil
}

// ExtractVolumes reads the volume catalog and each volume's chapter list
// from a parsed index page, in source order. Volume and chapter indices are
// assigned here and never change afterwards. An index page without any
// usable volume is an ExtractError.
func ExtractVolumes(doc *goquery.Document, pageURL string) ([]*model.Volume, error) {
	var volumes []*model.Volume

	doc.Find("section#list-vol ol.list-volume li").Each(func(_ int, s *goquery.Selection) {
		anchor := strings.TrimPrefix(strings.TrimSpace(s.AttrOr("data-scrollto", "")), "#")
		if anchor == "" || !anchorIDPattern.MatchString(anchor) {
			return
		}

		volume := &model.Volume{
			Index:    len(volumes) + 1,
			AnchorID: anchor,
			Title:    strings.TrimSpace(s.Find("span.list_vol-title").First().Text()),
		}
		if volume.Title == "" {
			volume.Title = fmt.Sprintf("Volume %d", volume.Index)
		}

		// the list entry links to the volume section via its header id
		section := doc.Find("header#" + anchor).First().Parent()
		volume.CoverURL = coverURLFromStyle(section.Find("div.volume-cover div.content.img-in-ratio").First(), pageURL)

		section.Find("ul.list-chapters li").Each(func(_ int, li *goquery.Selection) {
			nameDiv := li.Find("div.chapter-name").First()
			link := nameDiv.Find("a").First()
			title := strings.TrimSpace(link.Text())
			href := link.AttrOr("href", "")
			if title == "" || href == "" {
				return
			}
			volume.Chapters = append(volume.Chapters, &model.Chapter{
				Index:            len(volume.Chapters) + 1,
				Title:            title,
				URL:              resolveURL(pageURL, href),
				HasIllustrations: nameDiv.Find("i").Length() > 0,
				Status:           model.ChapterPending,
			})
		})

		volumes = append(volumes, volume)
	})

	if len(volumes) == 0 {
		return nil, &ExtractError{Field: "volume list", URL: pageURL}
	}
	return volumes, nil
}

// ExtractChapterBody returns the chapter markup: the paragraphs under
// div#chapter-content, serialized in source order. A page without that
// container is an ExtractError; an empty container is just an empty chapter.
func ExtractChapterBody(doc *goquery.Document, chapterURL string) (string, error) {
	content := doc.Find("div#chapter-content").First()
	if content.Length() == 0 {
		return "", &ExtractError{Field: "chapter content", URL: chapterURL}
	}

	var parts []string
	var serr error
	content.Find("p").Each(func(_ int, s *goquery.Selection) {
		html, err := goquery.OuterHtml(s)
		if err != nil {
			serr = err
			return
		}
		parts = append(parts, strings.TrimSpace(html))
	})
	if serr != nil {
		return "", fmt.Errorf("failed to serialize chapter body: %w", serr)
	}
	return strings.Join(parts, "\n"), nil
}

// ExtractImageURLs lists the image source URLs of a chapter body in order
// of appearance, resolved against the chapter URL. Lazy-load sources
// (data-src) win over plain src. Duplicates are kept; positions matter.
func ExtractImageURLs(body string, chapterURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var urls []string
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := s.AttrOr("data-src", "")
		if src == "" {
			src = s.AttrOr("src", "")
		}
		if src == "" {
			return
		}
		urls = append(urls, resolveURL(chapterURL, src))
	})
	return urls
}

func resolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// coverURLFromStyle digs the cover image out of a background-image style
// attribute. The site's "nocover" placeholder counts as no cover.
func coverURLFromStyle(s *goquery.Selection, pageURL string) string {
	style := s.AttrOr("style", "")
	m := backgroundURLPattern.FindStringSubmatch(style)
	if m == nil {
		return ""
	}
	raw := strings.TrimSpace(m[1])
	if raw == "" || strings.Contains(raw, "nocover") {
		return ""
	}
	return resolveURL(pageURL, raw)
}
