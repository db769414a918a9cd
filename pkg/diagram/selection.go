package diagram

import (
	"slices"
)

// Selection is the mutable set of selected element ids. It is the single
// source of truth for what is highlighted and is shared by every gesture.
//
// The zero value is an empty, usable selection.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add selects id.
func (s *Selection) Add(id string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
}

// Delete deselects id.
func (s *Selection) Delete(id string) {
	delete(s.ids, id)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	clear(s.ids)
}

// Size returns the number of selected ids.
func (s *Selection) Size() int {
	return len(s.ids)
}

// Replace makes id the only selected element.
func (s *Selection) Replace(id string) {
	s.Clear()
	s.Add(id)
}

// Toggle flips the membership of id and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	if s.Has(id) {
		s.Delete(id)
		return false
	}
	s.Add(id)
	return true
}

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
