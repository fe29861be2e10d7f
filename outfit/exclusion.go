package outfit

import (
	"sort"
	"strings"
)

// ExclusionState is the set of product ids and categories already shown in a
// session. Callers seed it from the previous response; Compose adds this
// call's picks to it.
type ExclusionState struct {
	UsedProductIDs map[int64]struct{}
	UsedCategories map[string]struct{}
}

// NewExclusionState seeds a state from caller-supplied ids and categories
func NewExclusionState(ids []int64, categories []string) *ExclusionState {
	s := &ExclusionState{
		UsedProductIDs: make(map[int64]struct{}, len(ids)),
		UsedCategories: make(map[string]struct{}, len(categories)),
	}
	for _, id := range ids {
		s.AddID(id)
	}
	for _, c := range categories {
		s.AddCategory(c)
	}
	return s
}

func (s *ExclusionState) init() {
	if s.UsedProductIDs == nil {
		s.UsedProductIDs = map[int64]struct{}{}
	}
	if s.UsedCategories == nil {
		s.UsedCategories = map[string]struct{}{}
	}
}

// AddID records a product id
func (s *ExclusionState) AddID(id int64) {
	s.init()
	if id > 0 {
		s.UsedProductIDs[id] = struct{}{}
	}
}

// AddCategory records a category, case-folded
func (s *ExclusionState) AddCategory(category string) {
	s.init()
	if c := normalizeCategory(category); c != "" {
		s.UsedCategories[c] = struct{}{}
	}
}

// HasID reports whether the id was already used
func (s *ExclusionState) HasID(id int64) bool {
	if s == nil {
		return false
	}
	_, ok := s.UsedProductIDs[id]
	return ok
}

// HasCategory reports whether the category was already used
func (s *ExclusionState) HasCategory(category string) bool {
	if s == nil {
		return false
	}
	_, ok := s.UsedCategories[normalizeCategory(category)]
	return ok
}

// Merge adds every entry of o to s
func (s *ExclusionState) Merge(o *ExclusionState) {
	if o == nil {
		return
	}
	for id := range o.UsedProductIDs {
		s.AddID(id)
	}
	for c := range o.UsedCategories {
		s.AddCategory(c)
	}
}

// IDs returns the used ids in ascending order
func (s *ExclusionState) IDs() []int64 {
	if s == nil {
		return nil
	}
	ids := make([]int64, 0, len(s.UsedProductIDs))
	for id := range s.UsedProductIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Categories returns the used categories in ascending order
func (s *ExclusionState) Categories() []string {
	if s == nil {
		return nil
	}
	cats := make([]string, 0, len(s.UsedCategories))
	for c := range s.UsedCategories {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

func normalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
