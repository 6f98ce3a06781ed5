package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/pantry/internal/model"
)

type CartStore struct {
	db *sql.DB
}

func NewCartStore(db *sql.DB) *CartStore {
	return &CartStore{db: db}
}

func scanCartEntry(scanner interface{ Scan(...any) error }) (*model.CartEntry, error) {
	var e model.CartEntry
	var upc, category, priority, description sql.NullString
	var addedAt, dueDate sql.NullInt64
	var reminderShown int

	err := scanner.Scan(
		&e.ID, &e.Name, &upc, &e.Price, &e.Quantity, &category,
		&priority, &description, &addedAt, &reminderShown, &dueDate,
	)
	if err != nil {
		return nil, err
	}

	e.UPC = upc.String
	e.Category = category.String
	e.Priority = priority.String
	e.Description = description.String
	e.UrgentReminderShown = reminderShown != 0
	if addedAt.Valid {
		t := time.UnixMilli(addedAt.Int64).UTC()
		e.AddedAt = &t
	}
	if dueDate.Valid {
		t := time.UnixMilli(dueDate.Int64).UTC()
		e.DueDate = &t
	}
	return &e, nil
}

const cartCols = `id, name, upc, price, quantity, category, priority, description, added_at, urgent_reminder_shown, due_date`

// AddOrMerge inserts a cart entry, or, when an entry with the same name
// already exists (case-insensitively), increments its quantity instead. On
// merge every other field of the existing row is preserved and the new call's
// values are discarded. New entries get added_at = now and priority "regular"
// when none is supplied. The upsert keyed on the unique name index makes the
// read-then-write merge a single atomic statement.
func (s *CartStore) AddOrMerge(name, upc string, price float64, quantity int, category, priority, description string, dueDate *time.Time) (*model.CartEntry, error) {
	if priority == "" {
		priority = model.PriorityRegular
	}

	var due sql.NullInt64
	if dueDate != nil {
		due = sql.NullInt64{Int64: dueDate.UnixMilli(), Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO cart_entries (name, upc, price, quantity, category, priority, description, added_at, urgent_reminder_shown, due_date)
		 VALUES (?, ?, ?, ?, LOWER(?), ?, ?, ?, 0, ?)
		 ON CONFLICT(name) DO UPDATE SET quantity = quantity + excluded.quantity`,
		name, nullString(upc), price, quantity, nullString(category),
		priority, nullString(description), time.Now().UnixMilli(), due,
	)
	if err != nil {
		return nil, fmt.Errorf("add or merge cart entry: %w", err)
	}

	return s.getByName(name)
}

func (s *CartStore) getByName(name string) (*model.CartEntry, error) {
	row := s.db.QueryRow(`SELECT `+cartCols+` FROM cart_entries WHERE name = ?`, name)
	entry, err := scanCartEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart entry by name: %w", err)
	}
	return entry, nil
}

func (s *CartStore) GetByID(id int64) (*model.CartEntry, error) {
	row := s.db.QueryRow(`SELECT `+cartCols+` FROM cart_entries WHERE id = ?`, id)
	entry, err := scanCartEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart entry: %w", err)
	}
	return entry, nil
}

// List returns cart entries in storage order. A non-empty categoryFilter
// keeps only entries whose category matches case-insensitively; entries
// without a category never match a filter.
func (s *CartStore) List(categoryFilter string) ([]model.CartEntry, error) {
	q := `SELECT ` + cartCols + ` FROM cart_entries ORDER BY id ASC`
	args := []any{}
	if categoryFilter != "" {
		q = `SELECT ` + cartCols + ` FROM cart_entries WHERE category IS NOT NULL AND LOWER(category) = LOWER(?) ORDER BY id ASC`
		args = append(args, categoryFilter)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list cart entries: %w", err)
	}
	defer rows.Close()

	var entries []model.CartEntry
	for rows.Next() {
		entry, err := scanCartEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Remove deletes the entry with the given id and reports how many rows were
// removed (0 or 1).
func (s *CartStore) Remove(id int64) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM cart_entries WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("remove cart entry: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// UpdateQuantity sets the quantity of the entry with the given id. A quantity
// of zero or less removes the entry instead.
func (s *CartStore) UpdateQuantity(id int64, quantity int) (*model.CartEntry, error) {
	if quantity <= 0 {
		if _, err := s.Remove(id); err != nil {
			return nil, err
		}
		return nil, nil
	}

	_, err := s.db.Exec(`UPDATE cart_entries SET quantity = ? WHERE id = ?`, quantity, id)
	if err != nil {
		return nil, fmt.Errorf("update quantity: %w", err)
	}
	return s.GetByID(id)
}

// Clear removes all cart entries.
func (s *CartStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM cart_entries`); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Summary returns the cart total (sum of price*quantity) and the total item
// count (sum of quantities).
func (s *CartStore) Summary() (model.CartSummary, error) {
	var sum model.CartSummary
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(price * quantity), 0), COALESCE(SUM(quantity), 0) FROM cart_entries`,
	).Scan(&sum.Total, &sum.ItemCount)
	if err != nil {
		return model.CartSummary{}, fmt.Errorf("cart summary: %w", err)
	}
	return sum, nil
}

// FindDueForReminder returns urgent entries added at least threshold ago that
// have not had a reminder surfaced yet, ordered by age (oldest first).
func (s *CartStore) FindDueForReminder(threshold time.Duration) ([]model.CartEntry, error) {
	cutoff := time.Now().Add(-threshold).UnixMilli()

	rows, err := s.db.Query(
		`SELECT `+cartCols+` FROM cart_entries
		 WHERE LOWER(priority) = ? AND added_at IS NOT NULL AND added_at <= ? AND urgent_reminder_shown = 0
		 ORDER BY added_at ASC, id ASC`,
		model.PriorityUrgent, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("find due for reminder: %w", err)
	}
	defer rows.Close()

	var entries []model.CartEntry
	for rows.Next() {
		entry, err := scanCartEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// MarkReminded flags the given entries as having had their reminder shown.
// Unknown ids are ignored; an empty slice issues no write.
func (s *CartStore) MarkReminded(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?, ", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := s.db.Exec(
		`UPDATE cart_entries SET urgent_reminder_shown = 1 WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
