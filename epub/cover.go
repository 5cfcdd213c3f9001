package epub

import (
	"strings"

	goepub "github.com/taylorskalyo/goreader/epub"
)

// Cover returns the bytes of the declared cover image. The lookup order is
// the ePub 3 cover-image property, the ePub 2 cover meta, a cover guide
// reference and finally any image whose id or href mentions "cover".
func (r *Reader) Cover() ([]byte, bool) {
	for _, find := range []func() (*goepub.Item, bool){
		r.coverFromProperties,
		r.coverFromMeta,
		r.coverFromGuide,
		r.coverFromName,
	} {
		item, ok := find()
		if !ok {
			continue
		}
		data, err := r.read(item)
		if err != nil || len(data) == 0 {
			continue
		}
		return data, true
	}
	return nil, false
}

func (r *Reader) coverFromProperties() (*goepub.Item, bool) {
	for _, extra := range r.extras.Manifest.Items {
		for _, prop := range strings.Fields(extra.Properties) {
			if prop != "cover-image" {
				continue
			}
			if item, ok := r.byID[extra.ID]; ok {
				return item, true
			}
		}
	}
	return nil, false
}

func (r *Reader) coverFromMeta() (*goepub.Item, bool) {
	for _, meta := range r.extras.Metadata.Metas {
		if !strings.EqualFold(meta.Name, "cover") {
			continue
		}
		if item, ok := r.byID[meta.Content]; ok && isImage(item) {
			return item, true
		}
		// Some tools put the href in content instead of the id.
		if item, ok := r.byPath[r.resolve(meta.Content)]; ok && isImage(item) {
			return item, true
		}
	}
	return nil, false
}

func (r *Reader) coverFromGuide() (*goepub.Item, bool) {
	for _, ref := range r.extras.Guide.Items {
		if !strings.EqualFold(ref.Type, "cover") {
			continue
		}
		href, _, _ := strings.Cut(ref.Link, "#")
		if item, ok := r.byPath[r.resolve(href)]; ok && isImage(item) {
			return item, true
		}
	}
	return nil, false
}

func (r *Reader) coverFromName() (*goepub.Item, bool) {
	for _, res := range r.resources {
		item := r.byID[res.ID]
		if !isImage(item) {
			continue
		}
		if strings.Contains(strings.ToLower(item.ID), "cover") ||
			strings.Contains(strings.ToLower(item.HREF), "cover") {
			return item, true
		}
	}
	return nil, false
}

func isImage(item *goepub.Item) bool {
	return strings.HasPrefix(strings.ToLower(item.MediaType), "image/")
}
