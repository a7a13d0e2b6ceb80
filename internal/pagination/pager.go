package pagination

// Pager is the navigable state of the pager controls.
type Pager struct {
	Pages   []int
	Current int
}

// Visible reports whether pager controls should render at all.
func (p Pager) Visible() bool {
	return len(p.Pages) > 0
}

// Valid reports whether page is inside [1, len(Pages)].
func (p Pager) Valid(page int) bool {
	return page >= 1 && page <= len(p.Pages)
}

// HasPrev reports whether the "previous" control is enabled.
func (p Pager) HasPrev() bool {
	return p.Valid(p.Current - 1)
}

// HasNext reports whether the "next" control is enabled.
func (p Pager) HasNext() bool {
	return p.Valid(p.Current + 1)
}

// Prev returns the previous page, or false when the control is disabled.
func (p Pager) Prev() (int, bool) {
	if !p.HasPrev() {
		return p.Current, false
	}
	return p.Current - 1, true
}

// Next returns the next page, or false when the control is disabled.
func (p Pager) Next() (int, bool) {
	if !p.HasNext() {
		return p.Current, false
	}
	return p.Current + 1, true
}
