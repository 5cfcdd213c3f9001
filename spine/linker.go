// Package spine derives chapter navigation from a container's reading order.
package spine

import "epub2pwa/model"

// coverNextIndex is the spine entry the cover page links to. Front matter
// usually occupies the first two entries.
const coverNextIndex = 2

type Linker struct {
	order     []string
	position  map[string]int
	filenames map[string]string
}

// NewLinker captures the reading order once. filenames maps resource ids to
// their output file names.
func NewLinker(order []string, filenames map[string]string) *Linker {
	l := &Linker{
		order:     append([]string(nil), order...),
		position:  make(map[string]int, len(order)),
		filenames: filenames,
	}
	for i, id := range l.order {
		if _, seen := l.position[id]; !seen {
			l.position[id] = i
		}
	}
	return l
}

// Chapter returns the navigation context of the page with the given id.
func (l *Linker) Chapter(id, title string) model.Chapter {
	ch := model.Chapter{
		ID:       id,
		Title:    title,
		Filename: l.filenames[id],
	}
	p, ok := l.position[id]
	if !ok {
		return ch
	}
	if p > 0 {
		ch.Previous = l.filenames[l.order[p-1]]
	}
	if p < len(l.order)-1 {
		ch.Next = l.filenames[l.order[p+1]]
	}
	return ch
}

// CoverNext is the page the cover links forward to: the third spine entry,
// or the first one for books with two entries or fewer.
func (l *Linker) CoverNext() string {
	switch {
	case len(l.order) > coverNextIndex:
		return l.filenames[l.order[coverNextIndex]]
	case len(l.order) > 0:
		return l.filenames[l.order[0]]
	}
	return ""
}
