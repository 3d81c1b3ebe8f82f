package model

import "encoding/xml"

// DublinCoreMetadata is the <metadata> block of an EPUB 2.0 package
// document. Only the elements docln exposes are modelled; all of them
// marshal through encoding/xml.
type DublinCoreMetadata struct {
	XMLName xml.Name `xml:"metadata"`

	XmlnsDC  string `xml:"xmlns:dc,attr,omitempty"`
	XmlnsOPF string `xml:"xmlns:opf,attr,omitempty"`

	// EPUB 2.0 requires title, identifier and language
	Titles      []DCTitle      `xml:"dc:title"`
	Identifiers []DCIdentifier `xml:"dc:identifier"`
	Languages   []DCLanguage   `xml:"dc:language"`

	Creators     []DCCreator     `xml:"dc:creator"`
	Contributors []DCContributor `xml:"dc:contributor"`
	Dates        []DCDate        `xml:"dc:date"`
	Descriptions []DCDescription `xml:"dc:description"`
	Publishers   []DCPublisher   `xml:"dc:publisher"`
	Subjects     []DCSubject     `xml:"dc:subject"`
	Rights       []DCRights      `xml:"dc:rights"`

	// <meta name="cover" content="..."/> and friends
	Metas []PackageMeta `xml:"meta"`
}

func (d *DublinCoreMetadata) Marshal() (string, error) {
	xmlBytes, err := xml.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(xmlBytes), nil
}

type DCTitle struct {
	Value string `xml:",chardata"`
	Lang  string `xml:"xml:lang,attr,omitempty"`
}

// DCIdentifier carries the package-unique id; ID must match the package
// element's unique-identifier attribute.
type DCIdentifier struct {
	Value  string `xml:",chardata"`
	ID     string `xml:"id,attr,omitempty"`
	Scheme string `xml:"opf:scheme,attr,omitempty"`
}

type DCLanguage struct {
	Value string `xml:",chardata"`
}

// DCCreator names an author; Role is a MARC relator code such as "aut".
type DCCreator struct {
	Value  string `xml:",chardata"`
	Role   string `xml:"opf:role,attr,omitempty"`
	FileAs string `xml:"opf:file-as,attr,omitempty"`
}

// DCContributor names a secondary contributor, e.g. the illustrator ("ill").
type DCContributor struct {
	Value  string `xml:",chardata"`
	Role   string `xml:"opf:role,attr,omitempty"`
	FileAs string `xml:"opf:file-as,attr,omitempty"`
}

type DCDate struct {
	Value string `xml:",chardata"`
	Event string `xml:"opf:event,attr,omitempty"`
}

type DCDescription struct {
	Value string `xml:",chardata"`
	Lang  string `xml:"xml:lang,attr,omitempty"`
}

type DCPublisher struct {
	Value string `xml:",chardata"`
}

type DCSubject struct {
	Value string `xml:",chardata"`
}

type DCRights struct {
	Value string `xml:",chardata"`
}

// PackageMeta is the legacy name/content <meta> element.
type PackageMeta struct {
	Name    string `xml:"name,attr,omitempty"`
	Content string `xml:"content,attr,omitempty"`
}

// Manifest lists every file packaged under OEBPS. The builder guarantees an
// exact correspondence between items here and files on disk.
type Manifest struct {
	XMLName xml.Name       `xml:"manifest"`
	Items   []ManifestItem `xml:"item"`
}

func (m *Manifest) Marshal() (string, error) {
	xmlBytes, err := xml.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(xmlBytes), nil
}

type ManifestItem struct {
	ID    string `xml:"id,attr"`
	Link  string `xml:"href,attr"`
	Media string `xml:"media-type,attr,omitempty"`
}

// Spine is the linear reading order, referencing manifest item ids.
type Spine struct {
	XMLName xml.Name    `xml:"spine"`
	Toc     string      `xml:"toc,attr,omitempty"`
	Items   []SpineItem `xml:"itemref"`
}

func (s *Spine) Marshal() (string, error) {
	xmlBytes, err := xml.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(xmlBytes), nil
}

type SpineItem struct {
	IDref string `xml:"idref,attr"`
}

// Guide carries the EPUB 2.0 structural references (cover page).
type Guide struct {
	XMLName xml.Name    `xml:"guide"`
	Items   []GuideItem `xml:"reference"`
}

func (g *Guide) Marshal() (string, error) {
	xmlBytes, err := xml.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(xmlBytes), nil
}

type GuideItem struct {
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
	Link  string `xml:"href,attr"`
}
