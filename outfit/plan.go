package outfit

import "strings"

// Slot is a role to fill plus the catalog categories that can fill it
type Slot struct {
	Role       Role     `json:"role" yaml:"role"`
	Categories []string `json:"categories" yaml:"categories"`
	// AllowBaseRole lets the slot hold an item with the base product's role.
	// Only accessory slots set it.
	AllowBaseRole bool `json:"allowBaseRole,omitempty" yaml:"allowBaseRole,omitempty"`
}

// Accepts reports whether any of the given category fields is one of the
// slot's categories, case-insensitive. It returns the matched slot category.
func (s Slot) Accepts(fields ...string) (string, bool) {
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		for _, c := range s.Categories {
			if strings.EqualFold(c, f) {
				return c, true
			}
		}
	}
	return "", false
}

// Plan is the ordered list of slots for one base product
type Plan struct {
	// Key is the table entry the plan came from, e.g. "Men/Shirts"
	Key   string
	Slots []Slot
}

// Empty reports whether no rule matched
func (p Plan) Empty() bool {
	return len(p.Slots) == 0
}

// ResolveByRole looks up the coarse role table
func (b *RuleBook) ResolveByRole(gender string, role Role) Plan {
	plans, ok := lookupFold(b.RolePlans, planGender(gender))
	if !ok {
		return Plan{}
	}
	slots, ok := plans[role]
	if !ok {
		return Plan{}
	}
	return Plan{Key: planGender(gender) + "/" + string(role), Slots: slots}
}

// ResolveByCategory looks up the fine per-gender category table, exact key
// first and then case-insensitive.
func (b *RuleBook) ResolveByCategory(gender, category string) Plan {
	category = strings.TrimSpace(category)
	if category == "" {
		return Plan{}
	}
	plans, ok := lookupFold(b.CategoryPlans, planGender(gender))
	if !ok {
		return Plan{}
	}
	slots, ok := lookupFold(plans, category)
	if !ok {
		return Plan{}
	}
	return Plan{Key: planGender(gender) + "/" + category, Slots: slots}
}

// Resolve picks the table for the policy. Ranked prefers the category table
// and drops back to the role table; Sampled uses the role table only.
func (b *RuleBook) Resolve(mode Mode, gender, category string, role Role) Plan {
	if mode == ModeRanked {
		if p := b.ResolveByCategory(gender, category); !p.Empty() {
			return p
		}
	}
	return b.ResolveByRole(gender, role)
}

// planGender maps an unknown or empty gender to the Unisex tables
func planGender(gender string) string {
	if g := NormalizeGender(gender); g != "" {
		return g
	}
	return GenderUnisex
}
