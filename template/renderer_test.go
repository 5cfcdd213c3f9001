package template

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"epub2pwa/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView() model.View {
	return model.View{
		Meta: model.Metadata{
			Title:       "Tom & Jerry",
			Author:      "<script>alert(1)</script>",
			Date:        "1940",
			Description: `A "cat" and a mouse`,
			BaseURL:     "/books/tom/",
			InfoURL:     "https://example.com/tom",
		},
		Chapter: model.Chapter{
			Title:    "Chapter 1",
			Filename: "ch1.xhtml",
			Previous: "front.xhtml",
			Next:     "ch2.xhtml",
		},
		Content:     `<p>Hello<a id="para-1" class="para-anchor" href="#para-1"></a></p>`,
		Stylesheets: []string{"resources/book.css"},
	}
}

func TestRender_Page(t *testing.T) {
	out, err := New().Render(context.Background(), PageTemplate, sampleView())
	require.NoError(t, err)

	assert.Contains(t, out, `<title>Chapter 1 - Tom &amp; Jerry</title>`)
	assert.Contains(t, out, `<p>Hello<a id="para-1" class="para-anchor" href="#para-1"></a></p>`)
	assert.Contains(t, out, `<a class="go-previous" href="front.xhtml">`)
	assert.Contains(t, out, `<a class="go-next" href="ch2.xhtml">`)
	assert.Contains(t, out, `href="resources/book.css"`)
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, `content="A &#34;cat&#34; and a mouse"`)
}

func TestRender_PageWithoutNeighbors(t *testing.T) {
	v := sampleView()
	v.Chapter.Previous = ""
	v.Chapter.Next = ""
	out, err := New().Render(context.Background(), PageTemplate, v)
	require.NoError(t, err)
	assert.NotContains(t, out, "go-previous")
	assert.NotContains(t, out, "go-next")
}

func TestRender_Index(t *testing.T) {
	v := sampleView()
	v.Chapter = model.Chapter{Title: "Table of Contents", Filename: "index.html", Next: "ch2.xhtml"}
	v.Cover = "cover.jpg"
	out, err := New().Render(context.Background(), IndexTemplate, v)
	require.NoError(t, err)
	assert.Contains(t, out, `<img src="cover.jpg" alt="Tom &amp; Jerry">`)
	assert.Contains(t, out, `<h1>Tom &amp; Jerry</h1>`)
	assert.Contains(t, out, `>Start reading</a>`)

	v.Cover = ""
	out, err = New().Render(context.Background(), IndexTemplate, v)
	require.NoError(t, err)
	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, `<h1>Tom &amp; Jerry</h1>`)
}

func TestRender_DocumentShape(t *testing.T) {
	v := sampleView()
	v.Meta.InfoURL = "javascript:alert(1)"
	v.Chapter = model.Chapter{Title: "Table of Contents", Filename: "index.html", Next: "ch2.xhtml"}
	out, err := New().Render(context.Background(), IndexTemplate, v)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<!doctype html><html><head><meta charset="utf-8">`), out)
	assert.Contains(t, out, `<link rel="stylesheet" href="resources/book.css">`)
	assert.Contains(t, out, `<span id="reader-toc"><a href="toc.html">Contents</a></span> <a class="go-next" href="ch2.xhtml">Next</a></header>`)
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, `<p class="info"><a href="about:invalid#TemplFailedSanitizationURL">`)
	assert.True(t, strings.HasSuffix(out, `<script src="resources/static/app.js"></script></body></html>`), out)
}

func TestRender_Manifest(t *testing.T) {
	v := sampleView()
	v.Icon = "icon.png"
	v.IconSize = 192
	out, err := New().Render(context.Background(), ManifestTemplate, v)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Tom & Jerry", got["name"])
	assert.Equal(t, "index.html", got["start_url"])
	assert.Equal(t, "/books/tom/", got["scope"])
	icons := got["icons"].([]any)
	require.Len(t, icons, 1)
	assert.Equal(t, "192x192", icons[0].(map[string]any)["sizes"])
}

func TestRender_Unknown(t *testing.T) {
	_, err := New().Render(context.Background(), "missing.html", sampleView())
	assert.Error(t, err)
}

func TestWriteStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteStatic(dir))
	for _, p := range []string{"sw.js", "resources/static/sw.js", "resources/static/app.js", "resources/static/reader.css"} {
		_, err := os.Stat(filepath.Join(dir, p))
		assert.NoError(t, err, p)
	}
}
