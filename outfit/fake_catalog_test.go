package outfit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"armario-outfits/models"
)

// memCatalog is an in-memory Catalog for engine tests
type memCatalog struct {
	mu      sync.Mutex
	items   []models.CatalogItem
	queries []CatalogFilter
	failOn  func(CatalogFilter) error
}

func newMemCatalog(items ...models.CatalogItem) *memCatalog {
	return &memCatalog{items: items}
}

func (m *memCatalog) Get(ctx context.Context, id int64) (*models.CatalogItem, error) {
	for _, it := range m.items {
		if it.ID == id {
			item := it
			return &item, nil
		}
	}
	return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
}

func (m *memCatalog) Query(ctx context.Context, f CatalogFilter) ([]models.CatalogItem, error) {
	m.mu.Lock()
	m.queries = append(m.queries, f)
	m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.failOn != nil {
		if err := m.failOn(f); err != nil {
			return nil, err
		}
	}
	var out []models.CatalogItem
	for _, it := range m.items {
		if f.Matches(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Sample returns matches in reverse id order; the Sampled policy reorders them
func (m *memCatalog) Sample(ctx context.Context, f CatalogFilter) ([]models.CatalogItem, error) {
	out, err := m.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

var nextID int64 = 1000

// product builds a published, in-stock catalog item
func product(id int64, gender, category, color string, price int64) models.CatalogItem {
	if id == 0 {
		nextID++
		id = nextID
	}
	return models.CatalogItem{
		ID:          id,
		Name:        fmt.Sprintf("%s %s %d", color, category, id),
		Slug:        fmt.Sprintf("%s-%d", category, id),
		Gender:      gender,
		Category:    category,
		ColorName:   color,
		Price:       price,
		Rating:      4,
		IsPublished: true,
		Stock:       5,
	}
}
