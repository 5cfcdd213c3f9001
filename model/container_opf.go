package model

import "encoding/xml"

// Package holds the parts of an OPF document the ePub library does not
// decode: dates and metas, item properties, the NCX id and the guide.
type Package struct {
	XMLName  xml.Name           `xml:"package"`
	Version  string             `xml:"version,attr"`
	Metadata DublinCoreMetadata `xml:"metadata"`
	Manifest Manifest           `xml:"manifest"`
	Spine    Spine              `xml:"spine"`
	Guide    Guide              `xml:"guide"`
}

type DublinCoreMetadata struct {
	Titles       []DCElement      `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creators     []DCElement      `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Dates        []DCElement      `xml:"http://purl.org/dc/elements/1.1/ date"`
	Descriptions []DCElement      `xml:"http://purl.org/dc/elements/1.1/ description"`
	Languages    []DCElement      `xml:"http://purl.org/dc/elements/1.1/ language"`
	Publishers   []DCElement      `xml:"http://purl.org/dc/elements/1.1/ publisher"`
	Identifiers  []DCElement      `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Subjects     []DCElement      `xml:"http://purl.org/dc/elements/1.1/ subject"`
	Rights       []DCElement      `xml:"http://purl.org/dc/elements/1.1/ rights"`
	Metas        []DublinCoreMeta `xml:"meta"`
}

// Value returns the first value of the named Dublin Core element.
func (d *DublinCoreMetadata) Value(key string) string {
	var elems []DCElement
	switch key {
	case "title":
		elems = d.Titles
	case "creator":
		elems = d.Creators
	case "date":
		elems = d.Dates
	case "description":
		elems = d.Descriptions
	case "language":
		elems = d.Languages
	case "publisher":
		elems = d.Publishers
	case "identifier":
		elems = d.Identifiers
	case "subject":
		elems = d.Subjects
	case "rights":
		elems = d.Rights
	}
	for _, e := range elems {
		if e.Value != "" {
			return e.Value
		}
	}
	return ""
}

type DCElement struct {
	Value string `xml:",chardata"`
	ID    string `xml:"id,attr"`
	Role  string `xml:"role,attr"`
}

// DublinCoreMeta covers both ePub 2 name/content and ePub 3 property metas.
type DublinCoreMeta struct {
	Name     string `xml:"name,attr"`
	Content  string `xml:"content,attr"`
	Property string `xml:"property,attr"`
	Value    string `xml:",chardata"`
}

type Manifest struct {
	Items []ManifestItem `xml:"item"`
}

type ManifestItem struct {
	ID         string `xml:"id,attr"`
	Properties string `xml:"properties,attr"`
}

type Spine struct {
	Toc string `xml:"toc,attr"`
}

type Guide struct {
	Items []GuideItem `xml:"reference"`
}

type GuideItem struct {
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
	Link  string `xml:"href,attr"`
}
