// Package checklist tracks a named subset of catalog items against the
// current cart. Reconciliation is pure and matches by name only.
package checklist

import (
	"errors"
	"strings"
	"sync"

	"github.com/dukerupert/pantry/internal/model"
)

var (
	ErrEmptyName = errors.New("checklist name is required")
	ErrNoItems   = errors.New("checklist needs at least one item")
)

// Checklist is a named, ordered list of catalog items the user wants to
// re-purchase. Only the item names matter for matching.
type Checklist struct {
	Name  string              `json:"name"`
	Items []model.CatalogItem `json:"items"`
}

// Progress returns the fraction of checklist items present in the cart, in
// [0, 1]. A checklist item counts as found when any cart entry name matches
// it case-insensitively. An empty checklist is never complete and reports 0.
func Progress(c *Checklist, cart []model.CartEntry) float64 {
	if c == nil || len(c.Items) == 0 {
		return 0
	}

	found := 0
	for _, item := range c.Items {
		if inCart(item.Name, cart) {
			found++
		}
	}
	return float64(found) / float64(len(c.Items))
}

// Missing returns the checklist items with no matching cart entry, in the
// checklist's original order.
func Missing(c *Checklist, cart []model.CartEntry) []model.CatalogItem {
	if c == nil {
		return nil
	}

	var missing []model.CatalogItem
	for _, item := range c.Items {
		if !inCart(item.Name, cart) {
			missing = append(missing, item)
		}
	}
	return missing
}

func inCart(name string, cart []model.CartEntry) bool {
	for _, entry := range cart {
		if strings.EqualFold(entry.Name, name) {
			return true
		}
	}
	return false
}

// Manager holds the single session checklist. There is no persistence:
// creating a new checklist destructively replaces the previous one, and the
// lifetime is the process.
type Manager struct {
	mu      sync.RWMutex
	current *Checklist
}

func NewManager() *Manager {
	return &Manager{}
}

// Replace validates and installs a new checklist, discarding any previous
// one. The items slice is copied so later mutation by the caller cannot
// change the stored checklist.
func (m *Manager) Replace(name string, items []model.CatalogItem) (*Checklist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	c := &Checklist{
		Name:  name,
		Items: append([]model.CatalogItem(nil), items...),
	}

	m.mu.Lock()
	m.current = c
	m.mu.Unlock()
	return c, nil
}

// Current returns the active checklist, or nil when none has been created
// this session.
func (m *Manager) Current() *Checklist {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}
