package model

// Resource is one entry of the container's resource table.
type Resource struct {
	ID        string
	Path      string
	MediaType string
}

// Chapter carries the navigation context of a rendered page. Empty
// Previous or Next means there is no such neighbor.
type Chapter struct {
	ID       string
	Title    string
	Filename string
	Previous string
	Next     string
}

// Metadata is built once per book and never mutated afterwards.
type Metadata struct {
	Title       string
	Author      string
	Date        string
	Description string
	BaseURL     string
	InfoURL     string
}

func NewMetadata(c Container, book *Book) Metadata {
	return Metadata{
		Title:       c.Metadata("title"),
		Author:      c.Metadata("creator"),
		Date:        c.Metadata("date"),
		Description: book.Description,
		BaseURL:     book.BaseURL,
		InfoURL:     book.InfoURL,
	}
}
