package converter

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"epub2pwa/epub/epubtest"
	"epub2pwa/images"
	"epub2pwa/model"
	"epub2pwa/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func testOptions(t *testing.T) Options {
	return Options{
		MaxImageWidth: 400,
		Cover: images.CoverOptions{
			Width:      700,
			IconSize:   192,
			Background: color.White,
		},
		StagingDir: t.TempDir(),
	}
}

func newTestConverter(t *testing.T, r Renderer) *Converter {
	t.Helper()
	c, err := New(r, testOptions(t))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func testBook(t *testing.T) epubtest.Book {
	toc := `<h1>Contents</h1><p><a href="ch1.xhtml">One</a></p><p><a href="ch2.xhtml">Two</a></p><p><a href="ch3.xhtml">Three</a></p>`
	return epubtest.Book{
		Title:   "Sample",
		Creator: "Anon",
		Date:    "2020",
		Items: []epubtest.Item{
			epubtest.Page("front", "Text/front.xhtml", "<p>Front</p>"),
			epubtest.Page("toc", "Text/toc.xhtml", toc),
			epubtest.Page("ch1", "Text/ch1.xhtml", `<h1>One</h1><p>First</p><p><img src="../Images/big.png"/></p><p><a href="ch2.xhtml">next</a></p>`),
			epubtest.Page("ch2", "Text/ch2.xhtml", "<h2>Two</h2><p>Second</p><p>More</p>"),
			epubtest.Page("ch3", "Text/ch3.xhtml", "<p>Third</p>"),
			{ID: "big", Href: "Images/big.png", MediaType: "image/png", Data: pngBytes(t, 1000, 500)},
			{ID: "small", Href: "Images/small.png", MediaType: "image/png", Data: pngBytes(t, 100, 50)},
			{ID: "broken", Href: "Images/broken.jpg", MediaType: "image/jpeg", Data: []byte("garbage")},
			{ID: "anim", Href: "Images/anim.gif", MediaType: "image/gif", Data: []byte("GIF89a")},
			{ID: "css", Href: "Styles/book.css", MediaType: "text/css", Data: []byte(`@font-face{src:url(../fonts/a.otf)}`)},
			{ID: "font", Href: "Fonts/a.otf", MediaType: "application/vnd.ms-opentype", Data: []byte("otf")},
			{ID: "cover-img", Href: "Images/cover.png", MediaType: "image/png", Properties: "cover-image", Data: pngBytes(t, 300, 450)},
		},
		Spine:  []string{"front", "toc", "ch1", "ch2", "ch3"},
		Labels: map[string]string{"Text/ch2.xhtml": "Chapter Two"},
	}
}

func readOut(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err, rel)
	return string(data)
}

func TestConvert(t *testing.T) {
	tmp := t.TempDir()
	src := epubtest.Write(t, tmp, "book.epub", testBook(t))
	out := filepath.Join(tmp, "web")
	c := newTestConverter(t, template.New())

	book := &model.Book{SourcePath: src, OutputFolder: out, Description: "A test", BaseURL: "/sample/"}
	require.NoError(t, c.Convert(context.Background(), book))

	for _, p := range []string{
		"index.html", "cover.html", "toc.html", "sw.js", "manifest.webmanifest",
		"cover.jpg", "icon.png",
		"front.xhtml", "toc.xhtml", "ch1.xhtml", "ch2.xhtml", "ch3.xhtml",
		"images/big.png", "images/small.png", "images/broken.jpg", "images/cover-img.png",
		"resources/anim.gif", "resources/book.css", "resources/a.otf",
		"resources/static/app.js", "resources/static/reader.css",
	} {
		_, err := os.Stat(filepath.Join(out, p))
		assert.NoError(t, err, p)
	}

	ch1 := readOut(t, out, "ch1.xhtml")
	assert.Contains(t, ch1, `<a class="go-previous" href="toc.xhtml">`)
	assert.Contains(t, ch1, `<a class="go-next" href="ch2.xhtml">`)
	assert.Contains(t, ch1, `src="images/big.png"`)
	assert.Contains(t, ch1, `id="para-3"`)
	assert.Contains(t, ch1, `href="resources/book.css"`)
	assert.Contains(t, ch1, `<title>One - Sample</title>`)

	ch2 := readOut(t, out, "ch2.xhtml")
	assert.Contains(t, ch2, `<title>Chapter Two - Sample</title>`)

	front := readOut(t, out, "front.xhtml")
	assert.NotContains(t, front, "go-previous")
	ch3 := readOut(t, out, "ch3.xhtml")
	assert.NotContains(t, ch3, "go-next")

	toc := readOut(t, out, "toc.html")
	assert.Contains(t, toc, `<title>Table of Contents - Sample</title>`)
	assert.Contains(t, toc, `href="ch3.xhtml"`)

	index := readOut(t, out, "index.html")
	assert.Contains(t, index, `<img src="cover.jpg"`)
	assert.Contains(t, index, `href="ch1.xhtml">Start reading`)
	assert.Equal(t, index, readOut(t, out, "cover.html"))

	assert.Equal(t, "@font-face{src:url(a.otf)}", readOut(t, out, "resources/book.css"))
	assert.Equal(t, "garbage", readOut(t, out, "images/broken.jpg"))
	assert.Equal(t, "GIF89a", readOut(t, out, "resources/anim.gif"))

	big, _, err := image.DecodeConfig(strings.NewReader(readOut(t, out, "images/big.png")))
	require.NoError(t, err)
	assert.LessOrEqual(t, big.Width, 400)
	assert.Equal(t, string(pngBytes(t, 100, 50)), readOut(t, out, "images/small.png"))

	icon, _, err := image.DecodeConfig(strings.NewReader(readOut(t, out, "icon.png")))
	require.NoError(t, err)
	assert.Equal(t, 192, icon.Width)
	assert.Equal(t, 192, icon.Height)

	assert.Contains(t, readOut(t, out, "manifest.webmanifest"), `"scope": "/sample/"`)
}

func TestConvert_NoCoverNoLinks(t *testing.T) {
	tmp := t.TempDir()
	b := epubtest.Book{
		Title: "Short",
		Items: []epubtest.Item{
			epubtest.Page("a", "a.xhtml", "<p>A</p>"),
			epubtest.Page("b", "b.xhtml", "<p>B</p>"),
		},
		Spine: []string{"a", "b"},
	}
	src := epubtest.Write(t, tmp, "short.epub", b)
	out := filepath.Join(tmp, "web")
	c := newTestConverter(t, template.New())

	require.NoError(t, c.Convert(context.Background(), &model.Book{SourcePath: src, OutputFolder: out}))

	index := readOut(t, out, "index.html")
	assert.NotContains(t, index, "<img")
	assert.Contains(t, index, `<h1>Short</h1>`)
	assert.Contains(t, index, `href="a.xhtml">Start reading`)
	assert.Equal(t, index, readOut(t, out, "toc.html"))
	_, err := os.Stat(filepath.Join(out, "icon.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvert_UndecodableCover(t *testing.T) {
	tmp := t.TempDir()
	b := testBook(t)
	b.Items[len(b.Items)-1].Data = []byte("not a png")
	src := epubtest.Write(t, tmp, "book.epub", b)
	out := filepath.Join(tmp, "web")
	c := newTestConverter(t, template.New())

	require.NoError(t, c.Convert(context.Background(), &model.Book{SourcePath: src, OutputFolder: out}))
	assert.NotContains(t, readOut(t, out, "index.html"), "<img")
}

func TestConvert_OpenFailure(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "bad.epub")
	require.NoError(t, os.WriteFile(src, []byte("not a zip"), 0644))
	out := filepath.Join(tmp, "web")
	c := newTestConverter(t, template.New())

	err := c.Convert(context.Background(), &model.Book{SourcePath: src, OutputFolder: out})
	require.Error(t, err)
	assert.True(t, IsBookError(err))
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no partial output")
}

func TestConvert_OutputConflict(t *testing.T) {
	tmp := t.TempDir()
	b := epubtest.Book{
		Items: []epubtest.Item{
			epubtest.Page("a", "Text/ch.xhtml", "<p>A</p>"),
			epubtest.Page("b", "Other/ch.xhtml", "<p>B</p>"),
		},
		Spine: []string{"a", "b"},
	}
	src := epubtest.Write(t, tmp, "dup.epub", b)
	out := filepath.Join(tmp, "web")
	c := newTestConverter(t, template.New())

	err := c.Convert(context.Background(), &model.Book{SourcePath: src, OutputFolder: out})
	require.Error(t, err)
	assert.True(t, IsBookError(err))
	assert.True(t, errors.Is(err, ErrOutputConflict))
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvert_PageNamedLikeBundleFile(t *testing.T) {
	tmp := t.TempDir()
	b := epubtest.Book{
		Title: "Clash",
		Items: []epubtest.Item{
			epubtest.Page("start", "Text/start.xhtml", `<p><a href="toc.html">Contents</a></p>`),
			epubtest.Page("toc", "Text/toc.html", `<p><a href="start.xhtml">Start</a></p><p><a href="start.xhtml">Again</a></p>`),
		},
		Spine: []string{"start", "toc"},
	}
	src := epubtest.Write(t, tmp, "clash.epub", b)
	out := filepath.Join(tmp, "web")
	c := newTestConverter(t, template.New())

	require.NoError(t, c.Convert(context.Background(), &model.Book{SourcePath: src, OutputFolder: out}))

	start := readOut(t, out, "start.xhtml")
	assert.Contains(t, start, `href="toc-1.html">Contents</a>`)
	assert.Contains(t, start, `<a class="go-next" href="toc-1.html">`)
	assert.Contains(t, readOut(t, out, "toc-1.html"), "Again")
	assert.Contains(t, readOut(t, out, "toc.html"), "<title>Table of Contents - Clash</title>")
}

type failingRenderer struct{}

func (failingRenderer) Render(ctx context.Context, name string, v model.View) (string, error) {
	return "", errors.New("boom")
}

func TestConvert_RenderFailureIsFatal(t *testing.T) {
	tmp := t.TempDir()
	src := epubtest.Write(t, tmp, "book.epub", testBook(t))
	c := newTestConverter(t, failingRenderer{})

	err := c.Convert(context.Background(), &model.Book{SourcePath: src, OutputFolder: filepath.Join(tmp, "web")})
	require.Error(t, err)
	assert.False(t, IsBookError(err))
}

func TestClose_RemovesStaging(t *testing.T) {
	c, err := New(template.New(), testOptions(t))
	require.NoError(t, err)
	dir := c.staging.dir
	_, err = os.Stat(dir)
	require.NoError(t, err)
	require.NoError(t, c.Close())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
