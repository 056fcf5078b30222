package pinboard

import "slices"

// Selection is an ordered set of entity ids. The primary id, used for resize
// handles, exists only when exactly one entity is selected.
type Selection struct {
	ids []EntityID
}

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns a copy of the selected ids in selection order.
func (s *Selection) IDs() []EntityID { return slices.Clone(s.ids) }

// Contains reports whether id is selected.
func (s *Selection) Contains(id EntityID) bool { return slices.Contains(s.ids, id) }

// Primary returns the single selected id.
func (s *Selection) Primary() (EntityID, bool) {
	if len(s.ids) != 1 {
		return "", false
	}
	return s.ids[0], true
}

// Set replaces the selection. Duplicate ids are dropped.
func (s *Selection) Set(ids ...EntityID) {
	next := make([]EntityID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	s.ids = next
}

// Add selects id if it is not already selected.
func (s *Selection) Add(id EntityID) {
	if !s.Contains(id) {
		s.ids = append(s.ids, id)
	}
}

// Remove deselects id.
func (s *Selection) Remove(id EntityID) {
	s.ids = slices.DeleteFunc(s.ids, func(x EntityID) bool { return x == id })
}

// Toggle flips id in or out of the selection and reports whether it is now
// selected.
func (s *Selection) Toggle(id EntityID) bool {
	if s.Contains(id) {
		s.Remove(id)
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Clear empties the selection.
func (s *Selection) Clear() { s.ids = s.ids[:0] }

// Equal reports whether both selections hold the same ids in the same order.
func (s *Selection) Equal(other *Selection) bool { return slices.Equal(s.ids, other.ids) }
