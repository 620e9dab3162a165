package reconcile

import "sort"

// Selection is the set of volunteer ids a user wants assigned to one event.
// It is held by a single session and is not safe for concurrent use. The
// zero value is an empty selection.
type Selection struct {
	ids    map[string]struct{}
	allSet bool
}

// NewSelection starts a selection from ids, usually the event's current
// assignments. The input slice is copied.
func NewSelection(ids ...string) *Selection {
	return &Selection{ids: setOf(ids)}
}

// Toggle adds id if absent and removes it if present.
func (s *Selection) Toggle(id string) {
	if id == "" {
		return
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	if s.ids == nil {
		s.ids = map[string]struct{}{}
	}
	s.ids[id] = struct{}{}
}

// ToggleAll is the two-state "select all" control: the first call replaces
// the selection with every candidate, the next one clears it.
func (s *Selection) ToggleAll(candidates []Volunteer) {
	if s.allSet {
		s.ids = map[string]struct{}{}
		s.allSet = false
		return
	}
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	s.ids = setOf(ids)
	s.allSet = true
}

// AllSelected reports the state of the select-all control.
func (s *Selection) AllSelected() bool { return s.allSet }

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns a sorted copy of the selected ids.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
