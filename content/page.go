package content

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Resolver maps a container path to its path inside the output bundle.
type Resolver func(containerPath string) (string, bool)

// Page is a rewritten page ready to be wrapped by the page template.
type Page struct {
	Title string
	Body  string
	// Links is the number of anchors in the source body.
	Links int
}

// RewritePage extracts the body of a page, points references at their output
// locations and injects paragraph anchors. pagePath is the page's own
// container path and is used to resolve relative references.
func RewritePage(markup, pagePath string, resolve Resolver) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	body := doc.Find("body").First()

	page := &Page{
		Links: body.Find("a").Length(),
		Title: strings.TrimSpace(body.Find("h1, h2, h3").First().Text()),
	}
	if page.Title == "" {
		page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if resolve != nil {
		dir := path.Dir(pagePath)
		body.Find("img, a, image").Each(func(i int, s *goquery.Selection) {
			for _, n := range s.Nodes {
				rewriteRefs(n, dir, resolve)
			}
		})
	}

	inner, err := body.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to get html: %w", err)
	}
	inner = strings.ReplaceAll(inner, "../images", "images")
	page.Body = InjectParagraphAnchors(inner)
	return page, nil
}

func rewriteRefs(n *html.Node, dir string, resolve Resolver) {
	for i, attr := range n.Attr {
		if attr.Key != "src" && attr.Key != "href" {
			continue
		}
		if out, ok := resolveRef(attr.Val, dir, resolve); ok {
			n.Attr[i].Val = out
		}
	}
}

func resolveRef(ref, dir string, resolve Resolver) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "/") {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	target := path.Clean(path.Join(dir, u.Path))
	out, ok := resolve(target)
	if !ok {
		return "", false
	}
	if u.Fragment != "" {
		out += "#" + u.Fragment
	}
	return out, true
}

const (
	closingParagraph = "</p>"
	anchorFormat     = `<a id="para-%d" class="para-anchor" href="#para-%d"></a>`
)

// Elements whose content the html renderer writes unescaped.
var rawTextElements = []string{"script", "style", "xmp", "iframe", "noembed", "noframes", "noscript"}

// InjectParagraphAnchors places a self-linking anchor para-N right before
// the N-th closing paragraph tag. Comments and raw text elements are copied
// as they are. The scan never revisits inserted markup.
func InjectParagraphAnchors(body string) string {
	b := strings.Builder{}
	b.Grow(len(body) + strings.Count(body, closingParagraph)*len(anchorFormat))
	n := 0
	rest := body
	for {
		i := strings.Index(rest, closingParagraph)
		if i < 0 {
			break
		}
		if start, end := rawSection(rest[:i]); start >= 0 {
			j := strings.Index(rest[start:], end)
			if j < 0 {
				break
			}
			j += start + len(end)
			b.WriteString(rest[:j])
			rest = rest[j:]
			continue
		}
		n++
		b.WriteString(rest[:i])
		fmt.Fprintf(&b, anchorFormat, n, n)
		b.WriteString(closingParagraph)
		rest = rest[i+len(closingParagraph):]
	}
	b.WriteString(rest)
	return b.String()
}

// rawSection returns the offset of the first comment or raw text element
// opened in s, and the marker that closes it. The offset is -1 when there
// is none.
func rawSection(s string) (int, string) {
	start, end := strings.Index(s, "<!--"), "-->"
	for _, name := range rawTextElements {
		if i := indexStartTag(s, name); i >= 0 && (start < 0 || i < start) {
			start, end = i, "</"+name+">"
		}
	}
	return start, end
}

func indexStartTag(s, name string) int {
	open := "<" + name
	for off := 0; ; {
		i := strings.Index(s[off:], open)
		if i < 0 {
			return -1
		}
		i += off
		next := i + len(open)
		if next < len(s) && strings.IndexByte(" \t\n\r\f/>", s[next]) >= 0 {
			return i
		}
		off = next
	}
}
