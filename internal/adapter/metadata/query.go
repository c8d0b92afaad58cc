package metadata

import (
	"github.com/thushan/ollafree/internal/core/domain"
)

// Categories returns category names in load order (sorted by file name).
func (s *Store) Categories() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Records returns the records for one category, in file order.
func (s *Store) Records(category string) []domain.ModelRecord {
	return s.categories[category].Records
}

// AllRecords walks every category in load order.
func (s *Store) AllRecords() []domain.ModelRecord {
	var out []domain.ModelRecord
	for _, category := range s.order {
		out = append(out, s.categories[category].Records...)
	}
	return out
}

func (s *Store) Families() domain.FamilyIndex {
	return s.families
}
