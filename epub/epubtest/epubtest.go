// Package epubtest builds small ePub archives for tests.
package epubtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type Item struct {
	ID         string
	Href       string
	MediaType  string
	Properties string
	// Name is the archive path under OEBPS/ when it differs from Href.
	Name string
	Data []byte
}

type Book struct {
	Title   string
	Creator string
	Date    string
	// CoverMeta is written as <meta name="cover" content="..."/>.
	CoverMeta string
	Items     []Item
	Spine     []string
	// Labels maps an item href to its navMap label; a toc.ncx is written
	// when it is not empty.
	Labels map[string]string
}

// Page returns an XHTML item with the given body markup.
func Page(id, href, body string) Item {
	doc := fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>%s</title></head><body>%s</body></html>`, id, body)
	return Item{ID: id, Href: href, MediaType: "application/xhtml+xml", Data: []byte(doc)}
}

func Pack(b Book) ([]byte, error) {
	buf := &bytes.Buffer{}
	zipWriter := zip.NewWriter(buf)

	if err := addStringToZip(zipWriter, "mimetype", "application/epub+zip", zip.Store); err != nil {
		return nil, err
	}
	container := `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
<rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`
	if err := addStringToZip(zipWriter, "META-INF/container.xml", container, zip.Deflate); err != nil {
		return nil, err
	}

	items := b.Items
	if len(b.Labels) > 0 {
		items = append(items[:len(items):len(items)], Item{
			ID: "ncx", Href: "toc.ncx", MediaType: "application/x-dtbncx+xml", Data: []byte(ncx(b)),
		})
	}
	for _, item := range items {
		name := item.Href
		if item.Name != "" {
			name = item.Name
		}
		if err := addStringToZip(zipWriter, "OEBPS/"+name, string(item.Data), zip.Deflate); err != nil {
			return nil, err
		}
	}
	if err := addStringToZip(zipWriter, "OEBPS/content.opf", opf(b, items), zip.Deflate); err != nil {
		return nil, err
	}
	if err := zipWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write packs b into dir/name and returns the file path.
func Write(t testing.TB, dir, name string, b Book) string {
	t.Helper()
	data, err := Pack(b)
	if err != nil {
		t.Fatalf("failed to pack epub: %v", err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatalf("failed to write epub: %v", err)
	}
	return p
}

func opf(b Book, items []Item) string {
	s := &strings.Builder{}
	s.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="book-id">
<metadata xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	for tag, v := range map[string]string{"title": b.Title, "creator": b.Creator, "date": b.Date} {
		if v != "" {
			fmt.Fprintf(s, "<dc:%s>%s</dc:%s>", tag, html.EscapeString(v), tag)
		}
	}
	if b.CoverMeta != "" {
		fmt.Fprintf(s, `<meta name="cover" content="%s"/>`, b.CoverMeta)
	}
	s.WriteString("</metadata><manifest>")
	for _, item := range items {
		fmt.Fprintf(s, `<item id="%s" href="%s" media-type="%s"`, item.ID, item.Href, item.MediaType)
		if item.Properties != "" {
			fmt.Fprintf(s, ` properties="%s"`, item.Properties)
		}
		s.WriteString("/>")
	}
	s.WriteString("</manifest>")
	if len(b.Labels) > 0 {
		s.WriteString(`<spine toc="ncx">`)
	} else {
		s.WriteString("<spine>")
	}
	for _, id := range b.Spine {
		fmt.Fprintf(s, `<itemref idref="%s"/>`, id)
	}
	s.WriteString("</spine></package>")
	return s.String()
}

func ncx(b Book) string {
	s := &strings.Builder{}
	s.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1"><navMap>`)
	order := 1
	for _, item := range b.Items {
		label, ok := b.Labels[item.Href]
		if !ok {
			continue
		}
		fmt.Fprintf(s, `<navPoint id="np-%d" playOrder="%d"><navLabel><text>%s</text></navLabel><content src="%s"/></navPoint>`,
			order, order, html.EscapeString(label), item.Href)
		order++
	}
	s.WriteString("</navMap></ncx>")
	return s.String()
}

func addStringToZip(zipWriter *zip.Writer, relPath, content string, method uint16) error {
	header := &zip.FileHeader{
		Name:   relPath,
		Method: method,
	}
	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = writer.Write([]byte(content))
	return err
}
