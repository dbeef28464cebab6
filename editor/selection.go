// Package editor holds the transient, non-historied state of in-progress
// gestures: the current selection, element drags and connection drags. None
// of this state survives in history or persistence; gestures call into the
// document store's commit operations when they end.
package editor

// Selection is the set of selected element and relationship ids.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// IDs returns the selected ids in unspecified order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

// Count returns the number of selected ids.
func (s *Selection) Count() int {
	return len(s.ids)
}

// IsEmpty reports whether nothing is selected.
func (s *Selection) IsEmpty() bool {
	return len(s.ids) == 0
}

// IsSelected reports whether id is selected.
func (s *Selection) IsSelected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Select replaces the selection with a single id.
func (s *Selection) Select(id string) {
	s.ids = map[string]struct{}{id: {}}
}

// SelectMultiple replaces the selection with the given ids.
func (s *Selection) SelectMultiple(ids []string) {
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Toggle flips the selection state of id.
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// Add adds id to the selection.
func (s *Selection) Add(id string) {
	s.ids[id] = struct{}{}
}

// Remove drops id from the selection.
func (s *Selection) Remove(id string) {
	delete(s.ids, id)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	if len(s.ids) > 0 {
		s.ids = make(map[string]struct{})
	}
}
