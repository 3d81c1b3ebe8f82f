// Package template renders the packaged XML and XHTML documents. Each
// document is a templ.Component so callers stream it straight to a file.
package template

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"docln-downloader/model"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

const xhtmlDoctype = `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN" "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd">` + "\n"

// ContainerXML locates the package document for reading systems.
func ContainerXML() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, xmlDeclaration+
			`<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
    <rootfiles>
        <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
    </rootfiles>
</container>
`)
		return err
	})
}

// ContentOPF assembles the EPUB 2.0 package document. guide may be nil when
// the book has no cover page.
func ContentOPF(uniqueID string, metadata *model.DublinCoreMetadata, manifest *model.Manifest, spine *model.Spine, guide *model.Guide) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		metadataXML, err := metadata.Marshal()
		if err != nil {
			return err
		}
		manifestXML, err := manifest.Marshal()
		if err != nil {
			return err
		}
		spineXML, err := spine.Marshal()
		if err != nil {
			return err
		}
		guideXML := ""
		if guide != nil && len(guide.Items) > 0 {
			guideXML, err = guide.Marshal()
			if err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, xmlDeclaration); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="`+templ.EscapeString(uniqueID)+`" version="2.0">`+"\n"); err != nil {
			return err
		}
		for _, block := range []string{metadataXML, manifestXML, spineXML, guideXML} {
			if block == "" {
				continue
			}
			if _, err := io.WriteString(w, block+"\n"); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, "</package>\n")
		return err
	})
}

// TocNCX assembles the NCX navigation document.
func TocNCX(title string, head *model.TocNCXHead, navMap *model.NavMap) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		headXML, err := head.Marshal()
		if err != nil {
			return err
		}
		navMapXML, err := navMap.Marshal()
		if err != nil {
			return err
		}

		if _, err := io.WriteString(w, xmlDeclaration); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<!DOCTYPE ncx PUBLIC "-//NISO//DTD ncx 2005-1//EN" "http://www.daisy.org/z3986/2005/ncx-2005-1.dtd">`+"\n"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">`+"\n"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, headXML+"\n"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "<docTitle><text>"+templ.EscapeString(title)+"</text></docTitle>\n"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, navMapXML+"\n"); err != nil {
			return err
		}
		_, err = io.WriteString(w, "</ncx>\n")
		return err
	})
}

// ChapterXHTML is a chapter page. body must already be a well-formed XHTML
// fragment; it is written through unescaped.
func ChapterXHTML(title, styleHref, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		esc := templ.EscapeString(title)
		if err := writeXHTMLHead(w, esc, styleHref); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "<body>\n<h1>"+esc+"</h1>\n<div class=\"chapter-content\">\n"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, body); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</div>\n</body>\n</html>\n")
		return err
	})
}

// CoverXHTML is a full-page cover image wrapper used for the book cover and
// per-volume cover pages.
func CoverXHTML(title, styleHref, imageHref string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		esc := templ.EscapeString(title)
		if err := writeXHTMLHead(w, esc, styleHref); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<body class="cover">`+"\n"+`<div class="cover-image"><img src="`+templ.EscapeString(imageHref)+`" alt="`+esc+`"/></div>`+"\n"); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

func writeXHTMLHead(w io.Writer, escapedTitle, styleHref string) error {
	if _, err := io.WriteString(w, xmlDeclaration+xhtmlDoctype); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `<html xmlns="http://www.w3.org/1999/xhtml">`+"\n<head>\n<title>"+escapedTitle+"</title>\n"); err != nil {
		return err
	}
	_, err := io.WriteString(w, `<link rel="stylesheet" type="text/css" href="`+templ.EscapeString(styleHref)+`"/>`+"\n</head>\n")
	return err
}
