package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/pantry/internal/database"
	"github.com/dukerupert/pantry/internal/model"
	"github.com/dukerupert/pantry/internal/reminder"
	"github.com/dukerupert/pantry/internal/store"
	ws "github.com/dukerupert/pantry/internal/websocket"
)

func setupCartHandler(t *testing.T, threshold time.Duration) (*CartHandler, *store.CartStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.DiscardHandler)
	cs := store.NewCartStore(db)
	n := reminder.NewNotifier(cs, threshold, logger)
	return NewCartHandler(cs, n, ws.NewHub(logger), logger), cs
}

func postJSON(t *testing.T, h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestAddValidation(t *testing.T) {
	h, cs := setupCartHandler(t, reminder.DefaultThreshold)

	tests := []struct {
		name string
		body string
	}{
		{"empty name", `{"name": "", "quantity": 1}`},
		{"whitespace name", `{"name": "   ", "quantity": 1}`},
		{"zero quantity", `{"name": "Milk", "quantity": 0}`},
		{"negative quantity", `{"name": "Milk", "quantity": -2}`},
		{"negative price", `{"name": "Milk", "quantity": 1, "price": -1}`},
		{"bad priority", `{"name": "Milk", "quantity": 1, "priority": "asap"}`},
		{"bad due date", `{"name": "Milk", "quantity": 1, "due_date": "tomorrow"}`},
		{"bad JSON", `{`},
	}

	for _, tt := range tests {
		rec := postJSON(t, h.Add, "/api/cart", tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rec.Code)
		}
	}

	// Rejected requests never touch storage.
	entries, _ := cs.List("")
	if len(entries) != 0 {
		t.Errorf("validation failures wrote %d entries", len(entries))
	}
}

func TestAddAndMergeFlow(t *testing.T) {
	h, _ := setupCartHandler(t, reminder.DefaultThreshold)

	rec := postJSON(t, h.Add, "/api/cart", `{"name": "Milk", "quantity": 2, "price": 3.99, "category": "Dairy"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var first model.CartEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if first.Quantity != 2 || first.Category != "dairy" {
		t.Errorf("entry = %+v, want quantity 2 and category dairy", first)
	}

	// Repeat add merges by name, keeping the first call's metadata.
	rec = postJSON(t, h.Add, "/api/cart", `{"name": "milk", "quantity": 1, "price": 9.99}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var merged model.CartEntry
	json.Unmarshal(rec.Body.Bytes(), &merged)
	if merged.ID != first.ID {
		t.Errorf("merge created new entry %d, want %d", merged.ID, first.ID)
	}
	if merged.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", merged.Quantity)
	}
	if merged.Price != 3.99 {
		t.Errorf("price = %v, want first call's 3.99", merged.Price)
	}
}

func TestRemoveNotFound(t *testing.T) {
	h, _ := setupCartHandler(t, reminder.DefaultThreshold)

	req := httptest.NewRequest(http.MethodDelete, "/api/cart/999", nil)
	req.SetPathValue("id", "999")
	rec := httptest.NewRecorder()
	h.Remove(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateQuantityRemovesAtZero(t *testing.T) {
	h, cs := setupCartHandler(t, reminder.DefaultThreshold)

	entry, _ := cs.AddOrMerge("Milk", "", 3.99, 2, "", "", "", nil)

	req := httptest.NewRequest(http.MethodPut, "/api/cart/1/quantity", strings.NewReader(`{"quantity": 0}`))
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.UpdateQuantity(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got, _ := cs.GetByID(entry.ID); got != nil {
		t.Error("entry should be removed when quantity drops to zero")
	}
}

func TestReminderEndpointFlow(t *testing.T) {
	// A nanosecond threshold makes the fresh urgent entry immediately due.
	h, cs := setupCartHandler(t, time.Nanosecond)

	cs.AddOrMerge("Milk", "", 3.99, 1, "", model.PriorityUrgent, "", nil)
	time.Sleep(5 * time.Millisecond)

	rec := httptest.NewRecorder()
	h.Reminders(rec, httptest.NewRequest(http.MethodGet, "/api/cart/reminders", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Entries []model.CartEntry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("expected 1 due entry, got %d", len(resp.Entries))
	}

	// While the batch is up, a second poll returns an empty batch.
	rec = httptest.NewRecorder()
	h.Reminders(rec, httptest.NewRequest(http.MethodGet, "/api/cart/reminders", nil))
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Entries) != 0 {
		t.Errorf("latched poll returned %d entries, want 0", len(resp.Entries))
	}

	// Acknowledge, then the entry stays gone for good.
	rec = httptest.NewRecorder()
	h.AcknowledgeReminders(rec, httptest.NewRequest(http.MethodPost, "/api/cart/reminders/ack", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("ack status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Reminders(rec, httptest.NewRequest(http.MethodGet, "/api/cart/reminders", nil))
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Entries) != 0 {
		t.Errorf("acknowledged entry resurfaced")
	}
}
