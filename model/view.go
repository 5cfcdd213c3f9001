package model

// View is what a template sees when rendering one output file.
type View struct {
	Meta    Metadata
	Chapter Chapter
	// Content is trusted markup produced by the content rewriter.
	Content     string
	Stylesheets []string
	// Cover and Icon are output file names, empty when the book has no cover.
	Cover    string
	Icon     string
	IconSize int
}
