package epub

import (
	"bytes"
	"errors"
	"testing"

	"epub2pwa/epub/epubtest"
	"epub2pwa/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBook(t *testing.T, b epubtest.Book) *Reader {
	t.Helper()
	data, err := epubtest.Pack(b)
	require.NoError(t, err)
	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return r
}

func sampleBook() epubtest.Book {
	return epubtest.Book{
		Title:   "Moby Dick",
		Creator: "Herman Melville",
		Date:    "1851",
		Items: []epubtest.Item{
			epubtest.Page("ch1", "Text/ch1.xhtml", "<p>Call me Ishmael.</p>"),
			epubtest.Page("ch2", "Text/ch2.xhtml", "<p>The Carpet-Bag.</p>"),
			{ID: "css", Href: "Styles/book.css", MediaType: "text/css", Data: []byte("body{}")},
			{ID: "img-cover", Href: "Images/front.jpg", MediaType: "image/jpeg", Properties: "cover-image", Data: []byte("jpegdata")},
		},
		Spine:  []string{"ch1", "ch2"},
		Labels: map[string]string{"Text/ch1.xhtml": "Loomings"},
	}
}

func TestReader_Metadata(t *testing.T) {
	r := openBook(t, sampleBook())
	defer r.Close()

	assert.Equal(t, "Moby Dick", r.Metadata("title"))
	assert.Equal(t, "Herman Melville", r.Metadata("creator"))
	assert.Equal(t, "1851", r.Metadata("date"))
	assert.Equal(t, "", r.Metadata("publisher"))
	assert.Equal(t, "", r.Metadata("no-such-key"))
}

func TestReader_ResourcesAndSpine(t *testing.T) {
	r := openBook(t, sampleBook())

	resources := r.Resources()
	require.Len(t, resources, 5)
	assert.Equal(t, model.Resource{ID: "ch1", Path: "OEBPS/Text/ch1.xhtml", MediaType: "application/xhtml+xml"}, resources[0])
	assert.Equal(t, "OEBPS/Styles/book.css", resources[2].Path)
	assert.Equal(t, []string{"ch1", "ch2"}, r.Spine())

	text, err := r.ResourceText("css")
	require.NoError(t, err)
	assert.Equal(t, "body{}", text)

	_, err = r.ResourceBytes("missing")
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestReader_ChapterTitle(t *testing.T) {
	r := openBook(t, sampleBook())
	assert.Equal(t, "Loomings", r.ChapterTitle("ch1"))
	assert.Equal(t, "", r.ChapterTitle("ch2"))
}

func TestReader_Cover(t *testing.T) {
	r := openBook(t, sampleBook())
	data, ok := r.Cover()
	require.True(t, ok)
	assert.Equal(t, []byte("jpegdata"), data)
}

func TestReader_CoverFromMeta(t *testing.T) {
	b := sampleBook()
	b.Items[3].Properties = ""
	b.Items[3].Href = "Images/a.jpg"
	b.CoverMeta = "img-cover"
	r := openBook(t, b)
	data, ok := r.Cover()
	require.True(t, ok)
	assert.Equal(t, []byte("jpegdata"), data)
}

func TestReader_NoCover(t *testing.T) {
	b := sampleBook()
	b.Items = b.Items[:3]
	r := openBook(t, b)
	_, ok := r.Cover()
	assert.False(t, ok)
}

func TestReader_EscapedHref(t *testing.T) {
	b := sampleBook()
	b.Items = append(b.Items, epubtest.Item{
		ID: "map", Href: "Images/Sea%20Map.png", Name: "images/sea map.png", MediaType: "image/png", Data: []byte("pngdata"),
	})
	r := openBook(t, b)

	data, err := r.ResourceBytes("map")
	require.NoError(t, err)
	assert.Equal(t, []byte("pngdata"), data)
	assert.Equal(t, "OEBPS/Images/Sea Map.png", r.Resources()[4].Path)
}

func TestNewReader_BadSpine(t *testing.T) {
	for name, spine := range map[string][]string{
		"dangling idref": {"ch1", "nope"},
		"empty":          nil,
	} {
		t.Run(name, func(t *testing.T) {
			b := sampleBook()
			b.Spine = spine
			data, err := epubtest.Pack(b)
			require.NoError(t, err)
			_, err = NewReader(bytes.NewReader(data), int64(len(data)))
			assert.ErrorIs(t, err, ErrInvalidEPub)
		})
	}
}

func TestNewReader_Invalid(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("not a zip")), 9)
	assert.ErrorIs(t, err, ErrInvalidEPub)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open("/nonexistent/book.epub")
	assert.Error(t, err)
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "OEBPS/Images/a b.jpg", joinPath("OEBPS/Text", "../Images/a%20b.jpg"))
	assert.Equal(t, "ch1.xhtml", joinPath(".", "ch1.xhtml"))
}
