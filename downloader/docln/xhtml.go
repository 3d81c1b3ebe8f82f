package docln

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// XHTML requires void elements to self-close; html.Render does not, so the
// fragment gets its own serializer.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// elements that never belong in a packaged chapter
var droppedElements = map[string]bool{
	"script": true, "style": true, "iframe": true,
}

var (
	xmlTextEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	xmlAttrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// TransformChapterBody renders raw chapter markup as a well-formed XHTML
// fragment. Image sources present in assets (keyed by the absolute source
// URL as produced by ExtractImageURLs) are rewritten to their packaged
// paths; a source the map does not know turns into inert text, so the
// package never references a file it does not contain. Same input, same
// output, byte for byte.
func TransformChapterBody(raw string, chapterURL string, assets map[string]string) (string, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(raw), context)
	if err != nil {
		return "", fmt.Errorf("failed to parse chapter markup: %w", err)
	}

	var b strings.Builder
	for _, n := range nodes {
		renderXHTML(&b, n, chapterURL, assets)
	}
	return strings.TrimSpace(b.String()), nil
}

func renderXHTML(b *strings.Builder, n *html.Node, chapterURL string, assets map[string]string) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(xmlTextEscaper.Replace(n.Data))
	case html.ElementNode:
		name := n.Data
		if droppedElements[name] {
			return
		}
		if name == "img" {
			renderImg(b, n, chapterURL, assets)
			return
		}

		b.WriteByte('<')
		b.WriteString(name)
		for _, attr := range n.Attr {
			if dropAttr(attr.Key) {
				continue
			}
			fmt.Fprintf(b, ` %s="%s"`, attr.Key, xmlAttrEscaper.Replace(attr.Val))
		}
		if voidElements[name] {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			renderXHTML(b, child, chapterURL, assets)
		}
		b.WriteString("</" + name + ">")
	case html.DocumentNode:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			renderXHTML(b, child, chapterURL, assets)
		}
	}
	// comments and doctypes are dropped
}

func renderImg(b *strings.Builder, n *html.Node, chapterURL string, assets map[string]string) {
	var src, alt string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "data-src":
			src = attr.Val
		case "src":
			if src == "" {
				src = attr.Val
			}
		case "alt":
			alt = attr.Val
		}
	}
	if strings.TrimSpace(src) == "" {
		return
	}

	resolved := resolveURL(chapterURL, src)
	local, ok := assets[resolved]
	if !ok {
		b.WriteString(`<em class="missing-image">`)
		b.WriteString(xmlTextEscaper.Replace(resolved))
		b.WriteString("</em>")
		return
	}
	if alt == "" {
		alt = path.Base(local)
	}
	fmt.Fprintf(b, `<img src="%s" alt="%s"/>`,
		xmlAttrEscaper.Replace(local), xmlAttrEscaper.Replace(alt))
}

func dropAttr(key string) bool {
	return key == "style" || strings.HasPrefix(key, "on")
}

// PlaceholderBody is the fragment packaged into the slot of a chapter whose
// content could not be fetched. The slot keeps its number and file name; the
// page says what happened and where the chapter lives online.
func PlaceholderBody(reason, sourceURL string) string {
	var b strings.Builder
	b.WriteString(`<div class="chapter-unavailable">`)
	b.WriteString("<p>This chapter could not be downloaded.</p>")
	if reason != "" {
		b.WriteString("<p>" + xmlTextEscaper.Replace(reason) + "</p>")
	}
	if sourceURL != "" {
		b.WriteString(`<p><a href="` + xmlAttrEscaper.Replace(sourceURL) + `">` +
			xmlTextEscaper.Replace(sourceURL) + "</a></p>")
	}
	b.WriteString("</div>")
	return b.String()
}
