package models

// CatalogItem represents a product as read from the catalog store
type CatalogItem struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	Gender         string  `json:"gender"`         // Men, Women, Kids or Unisex
	Category       string  `json:"category"`       // e.g. "Shirts"
	SubCategory    string  `json:"subCategory"`    // e.g. "Topwear"
	MasterCategory string  `json:"masterCategory"` // e.g. "Apparel"
	ColorName      string  `json:"colorName"`      // e.g. "navy blue"
	ColorHex       string  `json:"colorHex"`       // e.g. "#1f2a44", optional
	Price          int64   `json:"price"`          // minor units
	Rating         float64 `json:"rating"`
	IsPublished    bool    `json:"isPublished"`
	Stock          int     `json:"stock"`
	ImageURL       string  `json:"imageUrl"`
}

// Variant represents a purchasable size/color of a product
type Variant struct {
	ID    int64  `json:"id"`
	Size  string `json:"size"`
	Color string `json:"color,omitempty"`
	Stock int    `json:"stock"`
}

// ProductProjection is the product shape returned inside an outfit so the
// client can render it without a second lookup
type ProductProjection struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Price      int64     `json:"price"`
	PriceLabel string    `json:"priceLabel,omitempty"`
	Image      string    `json:"image"`
	Gender     string    `json:"gender"`
	Category   string    `json:"category"`
	Color      string    `json:"color,omitempty"`
	Rating     float64   `json:"rating"`
	Variants   []Variant `json:"variants"`
}

// NewProductProjection builds a projection without variants
func NewProductProjection(item CatalogItem) *ProductProjection {
	color := item.ColorName
	if color == "" {
		color = item.ColorHex
	}
	return &ProductProjection{
		ID:       item.ID,
		Name:     item.Name,
		Slug:     item.Slug,
		Price:    item.Price,
		Image:    item.ImageURL,
		Gender:   item.Gender,
		Category: item.Category,
		Color:    color,
		Rating:   item.Rating,
		Variants: []Variant{},
	}
}
