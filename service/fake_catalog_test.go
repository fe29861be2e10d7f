package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"armario-outfits/models"
	"armario-outfits/outfit"
	"armario-outfits/repository"
)

// memCatalog is an in-memory CatalogRepositoryInterface for service tests
type memCatalog struct {
	items    []models.CatalogItem
	variants map[int64][]models.Variant
}

var _ repository.CatalogRepositoryInterface = (*memCatalog)(nil)

func (m *memCatalog) Get(ctx context.Context, id int64) (*models.CatalogItem, error) {
	for _, it := range m.items {
		if it.ID == id {
			item := it
			return &item, nil
		}
	}
	return nil, fmt.Errorf("item %d: %w", id, outfit.ErrNotFound)
}

func (m *memCatalog) Query(ctx context.Context, f outfit.CatalogFilter) ([]models.CatalogItem, error) {
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

func (m *memCatalog) Sample(ctx context.Context, f outfit.CatalogFilter) ([]models.CatalogItem, error) {
	return m.Query(ctx, f)
}

func (m *memCatalog) GetByIDs(ctx context.Context, ids []int64) ([]models.CatalogItem, error) {
	out := []models.CatalogItem{}
	for _, id := range ids {
		if it, err := m.Get(ctx, id); err == nil {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *memCatalog) VariantsByProduct(ctx context.Context, ids []int64) (map[int64][]models.Variant, error) {
	out := map[int64][]models.Variant{}
	for _, id := range ids {
		if v, ok := m.variants[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

// memSessions is an in-memory SessionRepositoryInterface
type memSessions struct {
	mu   sync.Mutex
	data map[string][]int64
	err  error
}

func newMemSessions() *memSessions {
	return &memSessions{data: map[string][]int64{}}
}

func (m *memSessions) Load(ctx context.Context, sessionID string) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]int64(nil), m.data[sessionID]...), nil
}

func (m *memSessions) Append(ctx context.Context, sessionID string, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[sessionID] = append(m.data[sessionID], ids...)
	return nil
}

func item(id int64, gender, category, color string, price int64) models.CatalogItem {
	return models.CatalogItem{
		ID:          id,
		Name:        fmt.Sprintf("%s %s", color, category),
		Slug:        fmt.Sprintf("%s-%d", category, id),
		Gender:      gender,
		Category:    category,
		ColorName:   color,
		Price:       price,
		Rating:      4,
		IsPublished: true,
		Stock:       3,
	}
}
