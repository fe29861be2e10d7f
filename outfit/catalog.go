package outfit

import (
	"context"
	"strings"

	"armario-outfits/models"
)

// Catalog is the read-only product store the engine queries
type Catalog interface {
	// Get returns one item or an error wrapping ErrNotFound
	Get(ctx context.Context, id int64) (*models.CatalogItem, error)
	// Query returns items matching the filter in a stable order
	Query(ctx context.Context, filter CatalogFilter) ([]models.CatalogItem, error)
	// Sample returns a random subset of the items matching the filter
	Sample(ctx context.Context, filter CatalogFilter) ([]models.CatalogItem, error)
}

// CatalogFilter describes one candidate query
type CatalogFilter struct {
	// Categories match category, subcategory or master category, case-insensitive
	Categories []string
	// Gender restricts to one gender tag when set
	Gender string
	// IncludeUnisex also admits Unisex items when Gender is set
	IncludeUnisex bool
	ExcludeIDs    []int64
	// ExcludeCategories drops items whose category matches, case-insensitive
	ExcludeCategories []string
	// Keywords keeps items whose name, category or subcategory mentions any
	// keyword, case-insensitive
	Keywords []string
	// OnlyAvailable keeps published items with stock
	OnlyAvailable bool
	// Limit caps the result size; zero means no cap
	Limit int
}

// Matches applies the filter to a single item. Stores that cannot express a
// condition in their query language use it to post-filter.
func (f CatalogFilter) Matches(item models.CatalogItem) bool {
	if f.OnlyAvailable && (!item.IsPublished || item.Stock <= 0) {
		return false
	}
	if f.Gender != "" {
		g := NormalizeGender(item.Gender)
		if g != f.Gender && !(f.IncludeUnisex && g == GenderUnisex) {
			return false
		}
	}
	for _, id := range f.ExcludeIDs {
		if item.ID == id {
			return false
		}
	}
	for _, c := range f.ExcludeCategories {
		if strings.EqualFold(strings.TrimSpace(item.Category), strings.TrimSpace(c)) {
			return false
		}
	}
	if len(f.Keywords) > 0 && !mentionsAny(item, f.Keywords) {
		return false
	}
	if len(f.Categories) == 0 {
		return true
	}
	_, ok := Slot{Categories: f.Categories}.Accepts(item.Category, item.SubCategory, item.MasterCategory)
	return ok
}

// mentionsAny reports whether any keyword occurs in the item text
func mentionsAny(item models.CatalogItem, keywords []string) bool {
	text := strings.ToLower(strings.Join([]string{item.Name, item.Category, item.SubCategory}, " "))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
