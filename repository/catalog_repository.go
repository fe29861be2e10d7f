package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"armario-outfits/models"
	"armario-outfits/outfit"
)

// Dialect selects the SQL placeholder style
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// DialectFor maps a database/sql driver name to its dialect
func DialectFor(driver string) Dialect {
	if driver == "sqlite" {
		return DialectSQLite
	}
	return DialectPostgres
}

// CatalogRepository reads products for the outfit engine
type CatalogRepository struct {
	db      *sql.DB
	dialect Dialect
	log     *zap.Logger
}

// NewCatalogRepository creates a new CatalogRepository. A nil logger logs nothing.
func NewCatalogRepository(db *sql.DB, dialect Dialect, log *zap.Logger) *CatalogRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogRepository{db: db, dialect: dialect, log: log}
}

// Ensure CatalogRepository implements the engine's catalog and the service's variant lookup
var (
	_ outfit.Catalog             = (*CatalogRepository)(nil)
	_ CatalogRepositoryInterface = (*CatalogRepository)(nil)
)

const productColumns = `
	p.id, p.name, p.slug, p.gender, p.category,
	COALESCE(p.sub_category, '') AS sub_category,
	COALESCE(p.master_category, '') AS master_category,
	COALESCE(p.colour_name, '') AS colour_name,
	COALESCE(p.colour_hex, '') AS colour_hex,
	p.price, p.rating, p.is_published, p.stock,
	COALESCE(p.image_url, '') AS image_url
`

// queryBuilder accumulates WHERE conditions and numbered arguments
type queryBuilder struct {
	dialect    Dialect
	conditions []string
	args       []interface{}
}

func (b *queryBuilder) arg(v interface{}) string {
	b.args = append(b.args, v)
	if b.dialect == DialectSQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *queryBuilder) list(vals []string) string {
	ph := make([]string, len(vals))
	for i, v := range vals {
		ph[i] = b.arg(strings.ToLower(strings.TrimSpace(v)))
	}
	return strings.Join(ph, ", ")
}

func (b *queryBuilder) where(cond string) {
	b.conditions = append(b.conditions, cond)
}

// likeEscaper escapes LIKE wildcards in keywords
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// build turns a CatalogFilter into WHERE conditions
func (r *CatalogRepository) build(f outfit.CatalogFilter) *queryBuilder {
	b := &queryBuilder{dialect: r.dialect}

	if f.OnlyAvailable {
		b.where("p.is_published = TRUE AND p.stock > 0")
	}
	if f.Gender != "" {
		if f.IncludeUnisex {
			b.where(fmt.Sprintf("p.gender IN (%s, %s)", b.arg(f.Gender), b.arg(outfit.GenderUnisex)))
		} else {
			b.where(fmt.Sprintf("p.gender = %s", b.arg(f.Gender)))
		}
	}
	if len(f.Categories) > 0 {
		b.where(fmt.Sprintf("(LOWER(p.category) IN (%s) OR LOWER(COALESCE(p.sub_category, '')) IN (%s) OR LOWER(COALESCE(p.master_category, '')) IN (%s))",
			b.list(f.Categories), b.list(f.Categories), b.list(f.Categories)))
	}
	if len(f.Keywords) > 0 {
		var likes []string
		for _, kw := range f.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			pattern := "%" + likeEscaper.Replace(kw) + "%"
			for _, col := range []string{"p.name", "p.category", "COALESCE(p.sub_category, '')"} {
				likes = append(likes, fmt.Sprintf("LOWER(%s) LIKE %s ESCAPE '\\'", col, b.arg(pattern)))
			}
		}
		if len(likes) > 0 {
			b.where("(" + strings.Join(likes, " OR ") + ")")
		}
	}
	if len(f.ExcludeIDs) > 0 {
		ph := make([]string, len(f.ExcludeIDs))
		for i, id := range f.ExcludeIDs {
			ph[i] = b.arg(id)
		}
		b.where(fmt.Sprintf("p.id NOT IN (%s)", strings.Join(ph, ", ")))
	}
	if len(f.ExcludeCategories) > 0 {
		b.where(fmt.Sprintf("LOWER(p.category) NOT IN (%s)", b.list(f.ExcludeCategories)))
	}
	return b
}

func (r *CatalogRepository) selectItems(ctx context.Context, f outfit.CatalogFilter, orderBy string) ([]models.CatalogItem, error) {
	b := r.build(f)
	query := "SELECT " + productColumns + " FROM products p"
	if len(b.conditions) > 0 {
		query += " WHERE " + strings.Join(b.conditions, " AND ")
	}
	query += " ORDER BY " + orderBy
	if f.Limit > 0 {
		query += " LIMIT " + b.arg(f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		r.log.Error("❌ Error querying catalog", zap.Error(err))
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			r.log.Warn("⚠️  Skipping unreadable catalog item", zap.Error(err))
			continue
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog items: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Slug,
		&item.Gender,
		&item.Category,
		&item.SubCategory,
		&item.MasterCategory,
		&item.ColorName,
		&item.ColorHex,
		&item.Price,
		&item.Rating,
		&item.IsPublished,
		&item.Stock,
		&item.ImageURL,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Get retrieves one product by id
func (r *CatalogRepository) Get(ctx context.Context, id int64) (*models.CatalogItem, error) {
	b := &queryBuilder{dialect: r.dialect}
	query := "SELECT " + productColumns + " FROM products p WHERE p.id = " + b.arg(id)

	item, err := scanItem(r.db.QueryRowContext(ctx, query, b.args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, outfit.ErrNotFound)
		}
		r.log.Error("❌ Error fetching product", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return item, nil
}

// Query returns matching products in id order
func (r *CatalogRepository) Query(ctx context.Context, f outfit.CatalogFilter) ([]models.CatalogItem, error) {
	return r.selectItems(ctx, f, "p.id ASC")
}

// Sample returns a random subset of matching products
func (r *CatalogRepository) Sample(ctx context.Context, f outfit.CatalogFilter) ([]models.CatalogItem, error) {
	return r.selectItems(ctx, f, "RANDOM()")
}

// GetByIDs returns the products with the given ids, in the order given.
// Unknown ids are skipped.
func (r *CatalogRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.CatalogItem, error) {
	if len(ids) == 0 {
		return []models.CatalogItem{}, nil
	}
	b := &queryBuilder{dialect: r.dialect}
	ph := make([]string, len(ids))
	for i, id := range ids {
		ph[i] = b.arg(id)
	}
	query := "SELECT " + productColumns + " FROM products p WHERE p.id IN (" + strings.Join(ph, ", ") + ")"

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	byID := map[int64]models.CatalogItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		byID[item.ID] = *item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	out := make([]models.CatalogItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// VariantsByProduct returns in-stock variants grouped by product id
func (r *CatalogRepository) VariantsByProduct(ctx context.Context, productIDs []int64) (map[int64][]models.Variant, error) {
	out := make(map[int64][]models.Variant, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	b := &queryBuilder{dialect: r.dialect}
	ph := make([]string, len(productIDs))
	for i, id := range productIDs {
		ph[i] = b.arg(id)
	}
	query := `
		SELECT v.id, v.product_id, v.size, COALESCE(v.colour, '') AS colour, v.stock
		FROM product_variants v
		WHERE v.stock > 0 AND v.product_id IN (` + strings.Join(ph, ", ") + `)
		ORDER BY v.product_id ASC, v.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		r.log.Error("❌ Error querying variants", zap.Error(err))
		return nil, fmt.Errorf("failed to query variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v models.Variant
		var productID int64
		if err := rows.Scan(&v.ID, &productID, &v.Size, &v.Color, &v.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		out[productID] = append(out[productID], v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate variants: %w", err)
	}
	return out, nil
}
