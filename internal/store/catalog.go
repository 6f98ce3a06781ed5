package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/pantry/internal/model"
)

type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func scanCatalogItem(scanner interface{ Scan(...any) error }) (*model.CatalogItem, error) {
	var item model.CatalogItem
	var category sql.NullString

	err := scanner.Scan(&item.ID, &item.Name, &item.Price, &category)
	if err != nil {
		return nil, err
	}

	item.Category = category.String
	return &item, nil
}

const catalogCols = `id, name, price, category`

// Search returns catalog items whose name contains query, case-insensitively,
// in storage order. An empty query returns the full catalog.
func (s *CatalogStore) Search(query string) ([]model.CatalogItem, error) {
	q := `SELECT ` + catalogCols + ` FROM catalog_items ORDER BY id ASC`
	args := []any{}
	if query != "" {
		q = `SELECT ` + catalogCols + ` FROM catalog_items WHERE name LIKE ? ESCAPE '\' ORDER BY id ASC`
		args = append(args, "%"+escapeLike(query)+"%")
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	defer rows.Close()

	var items []model.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ListByCategory returns catalog items whose category equals category,
// case-insensitively. An unknown category yields an empty result.
func (s *CatalogStore) ListByCategory(category string) ([]model.CatalogItem, error) {
	rows, err := s.db.Query(
		`SELECT `+catalogCols+` FROM catalog_items WHERE category IS NOT NULL AND LOWER(category) = LOWER(?) ORDER BY id ASC`,
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("list catalog by category: %w", err)
	}
	defer rows.Close()

	var items []model.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *CatalogStore) GetByID(id int64) (*model.CatalogItem, error) {
	row := s.db.QueryRow(`SELECT `+catalogCols+` FROM catalog_items WHERE id = ?`, id)
	item, err := scanCatalogItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return item, nil
}

// AssignCategory overwrites the category of the item with the given id,
// folded to lowercase. Returns nil when the id does not exist.
func (s *CatalogStore) AssignCategory(id int64, category string) (*model.CatalogItem, error) {
	result, err := s.db.Exec(
		`UPDATE catalog_items SET category = LOWER(?) WHERE id = ?`,
		category, id,
	)
	if err != nil {
		return nil, fmt.Errorf("assign category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetByID(id)
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
