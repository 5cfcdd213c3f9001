package converter

import "strings"

// Kind selects the pipeline a resource goes through.
type Kind int

const (
	KindRaw Kind = iota
	KindImage
	KindPage
	KindStylesheet
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindPage:
		return "page"
	case KindStylesheet:
		return "stylesheet"
	}
	return "raw"
}

// Classify routes a resource by its declared media type. GIFs are copied
// raw so animations survive.
func Classify(mediaType string) Kind {
	switch {
	case strings.Contains(mediaType, "image/") && !strings.Contains(mediaType, "gif"):
		return KindImage
	case strings.Contains(mediaType, "html"):
		return KindPage
	case strings.Contains(mediaType, "css"):
		return KindStylesheet
	}
	return KindRaw
}
