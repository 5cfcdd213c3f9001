package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"

	"epub2pwa/model"

	goepub "github.com/taylorskalyo/goreader/epub"
)

var (
	ErrInvalidEPub  = errors.New("invalid epub")
	ErrFileNotFound = errors.New("file not found in epub")
)

const maxEntrySize = 256 << 20

// Reader adapts a goreader package to model.Container. The library owns the
// container, manifest and spine; the OPF attributes it does not decode are
// read into extras.
type Reader struct {
	rootfile *goepub.Rootfile
	closer   io.Closer
	files    map[string]*zip.File

	opfDir    string
	extras    *model.Package
	resources []model.Resource
	byID      map[string]*goepub.Item
	byPath    map[string]*goepub.Item
	spine     []string
	titles    map[string]string
}

func Open(name string) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat epub %s: %w", name, err)
	}
	r, err := newReader(f, info.Size(), f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	return newReader(ra, size, nil)
}

func newReader(ra io.ReaderAt, size int64, closer io.Closer) (*Reader, error) {
	book, err := goepub.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read epub: %w: %v", ErrInvalidEPub, err)
	}
	if len(book.Rootfiles) == 0 {
		return nil, fmt.Errorf("no package document found: %w", ErrInvalidEPub)
	}
	// A second view of the archive serves the lookups goreader does
	// byte for byte: percent-encoded and miscased hrefs.
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read epub archive: %w", err)
	}
	r := &Reader{
		rootfile: book.Rootfiles[0],
		closer:   closer,
		files:    make(map[string]*zip.File, len(zr.File)),
		byID:     make(map[string]*goepub.Item),
		byPath:   make(map[string]*goepub.Item),
		titles:   make(map[string]string),
	}
	for _, f := range zr.File {
		r.files[strings.ToLower(f.Name)] = f
	}
	r.opfDir = path.Dir(r.rootfile.FullPath)

	data, err := r.readFile(r.rootfile.FullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read package document: %w", err)
	}
	extras := &model.Package{}
	if err := xml.Unmarshal(stripBOM(data), extras); err != nil {
		return nil, fmt.Errorf("failed to parse package document: %w: %v", ErrInvalidEPub, err)
	}
	r.extras = extras

	items := r.rootfile.Manifest.Items
	for i := range items {
		item := &items[i]
		if item.ID == "" || item.HREF == "" {
			continue
		}
		if _, dup := r.byID[item.ID]; dup {
			continue
		}
		full := r.resolve(item.HREF)
		r.byID[item.ID] = item
		r.byPath[full] = item
		r.resources = append(r.resources, model.Resource{
			ID:        item.ID,
			Path:      full,
			MediaType: item.MediaType,
		})
	}
	for _, ref := range r.rootfile.Spine.Itemrefs {
		if ref.IDREF == "" {
			continue
		}
		r.spine = append(r.spine, ref.IDREF)
	}
	r.loadNCX()
	return r, nil
}

// loadNCX collects navMap labels keyed by manifest id. A broken NCX only
// loses titles.
func (r *Reader) loadNCX() {
	item, ok := r.byID[r.extras.Spine.Toc]
	if !ok {
		return
	}
	data, err := r.read(item)
	if err != nil {
		return
	}
	ncx := model.TocNCX{}
	if err := xml.Unmarshal(stripBOM(data), &ncx); err != nil {
		return
	}
	base := path.Dir(r.resolve(item.HREF))
	ncx.NavMap.Walk(func(p *model.NavPoint) {
		src, _, _ := strings.Cut(p.Content.Src, "#")
		target, ok := r.byPath[joinPath(base, src)]
		if !ok {
			return
		}
		if _, seen := r.titles[target.ID]; !seen {
			r.titles[target.ID] = strings.TrimSpace(p.Label)
		}
	})
}

func (r *Reader) Metadata(key string) string {
	var v string
	switch key {
	case "title":
		v = r.rootfile.Title
	case "creator":
		v = r.rootfile.Creator
	case "description":
		v = r.rootfile.Description
	}
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return strings.TrimSpace(r.extras.Metadata.Value(key))
}

func (r *Reader) Resources() []model.Resource {
	out := make([]model.Resource, len(r.resources))
	copy(out, r.resources)
	return out
}

func (r *Reader) Spine() []string {
	out := make([]string, len(r.spine))
	copy(out, r.spine)
	return out
}

func (r *Reader) ChapterTitle(id string) string {
	return r.titles[id]
}

func (r *Reader) ResourceBytes(id string) ([]byte, error) {
	item, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("resource %q: %w", id, ErrFileNotFound)
	}
	return r.read(item)
}

func (r *Reader) ResourceText(id string) (string, error) {
	data, err := r.ResourceBytes(id)
	if err != nil {
		return "", err
	}
	return string(stripBOM(data)), nil
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// read opens item through goreader and falls back to the unescaped,
// case-insensitive path when the library cannot find the file.
func (r *Reader) read(item *goepub.Item) ([]byte, error) {
	rc, err := item.Open()
	if err != nil {
		return r.readFile(r.resolve(item.HREF))
	}
	defer rc.Close()
	return readAll(item.HREF, rc)
}

func (r *Reader) readFile(name string) ([]byte, error) {
	f, ok := r.files[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrFileNotFound)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()
	return readAll(name, rc)
}

func readAll(name string, rc io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) > maxEntrySize {
		return nil, fmt.Errorf("%s exceeds %d bytes", name, maxEntrySize)
	}
	return data, nil
}

func (r *Reader) resolve(href string) string {
	return joinPath(r.opfDir, href)
}

// joinPath resolves a percent-encoded href against an archive directory.
func joinPath(dir, href string) string {
	if u, err := url.PathUnescape(href); err == nil {
		href = u
	}
	if dir == "." || dir == "" {
		return path.Clean(href)
	}
	return path.Clean(path.Join(dir, href))
}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
}
