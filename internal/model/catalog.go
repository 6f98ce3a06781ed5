package model

// CatalogItem is a reference item in the static grocery catalog. Rows are
// seeded once at first run; only the category is ever mutated afterwards.
type CatalogItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
}
