package spine

// TOCSelector picks the page with the most anchors as the table of
// contents. Ties keep the page seen first; pages without anchors never win.
type TOCSelector struct {
	id    string
	links int
}

func (s *TOCSelector) Observe(id string, links int) {
	if links > s.links {
		s.id = id
		s.links = links
	}
}

// Selected returns the chosen page id and false when no page had anchors.
func (s *TOCSelector) Selected() (string, bool) {
	return s.id, s.links > 0
}
