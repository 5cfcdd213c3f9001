package model

import "encoding/xml"

// TocNCX is the ePub 2 navigation control file.
type TocNCX struct {
	XMLName xml.Name `xml:"ncx"`
	NavMap  NavMap   `xml:"navMap"`
}

type NavPoint struct {
	Id        string          `xml:"id,attr"`
	PlayOrder int             `xml:"playOrder,attr"`
	Label     string          `xml:"navLabel>text"`
	Content   NavPointContent `xml:"content"`
	NavPoints []*NavPoint     `xml:"navPoint"`
}

type NavPointContent struct {
	Src string `xml:"src,attr"`
}

type NavMap struct {
	Points []*NavPoint `xml:"navPoint"`
}

// Walk calls fn for every point in document order, parents first.
func (n *NavMap) Walk(fn func(p *NavPoint)) {
	var walk func(points []*NavPoint)
	walk = func(points []*NavPoint) {
		for _, p := range points {
			fn(p)
			walk(p.NavPoints)
		}
	}
	walk(n.Points)
}
