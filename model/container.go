package model

// Container is the read side of an ebook package.
type Container interface {
	// Metadata returns the first value of a Dublin Core element, or "".
	Metadata(key string) string
	Resources() []Resource
	// Spine returns resource ids in linear reading order.
	Spine() []string
	ResourceBytes(id string) ([]byte, error)
	ResourceText(id string) (string, error)
	// Cover returns the cover image bytes and false when none is declared.
	Cover() ([]byte, bool)
	Close() error
}

// ChapterTitler is implemented by containers that carry a navigation
// document with chapter labels.
type ChapterTitler interface {
	ChapterTitle(id string) string
}
