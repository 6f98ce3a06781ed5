package model

import "time"

// Priority values carried on cart entries. Urgent is a legacy tag that the
// reminder flow still keys on; new entries default to regular.
const (
	PriorityUrgent  = "urgent"
	PriorityRegular = "regular"
)

// CartEntry is one user-owned line item. The name acts as the natural key:
// adding an item whose name already exists merges into the existing row by
// incrementing its quantity.
type CartEntry struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	UPC                 string     `json:"upc,omitempty"`
	Price               float64    `json:"price"`
	Quantity            int        `json:"quantity"`
	Category            string     `json:"category,omitempty"`
	Priority            string     `json:"priority,omitempty"`
	Description         string     `json:"description,omitempty"`
	AddedAt             *time.Time `json:"added_at"`
	UrgentReminderShown bool       `json:"urgent_reminder_shown"`
	DueDate             *time.Time `json:"due_date,omitempty"`
}

// CartSummary aggregates the cart for display.
type CartSummary struct {
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}
