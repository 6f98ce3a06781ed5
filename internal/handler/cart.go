package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/pantry/internal/model"
	"github.com/dukerupert/pantry/internal/reminder"
	"github.com/dukerupert/pantry/internal/store"
	ws "github.com/dukerupert/pantry/internal/websocket"
)

type CartHandler struct {
	cart     *store.CartStore
	notifier *reminder.Notifier
	hub      *ws.Hub
	logger   *slog.Logger
}

func NewCartHandler(cs *store.CartStore, n *reminder.Notifier, hub *ws.Hub, logger *slog.Logger) *CartHandler {
	return &CartHandler{cart: cs, notifier: n, hub: hub, logger: logger}
}

type cartAddRequest struct {
	Name        string  `json:"name"`
	UPC         string  `json:"upc"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"` // RFC 3339
}

// Add creates a cart entry or merges into an existing one by name. All
// validation happens here, before any storage call, so a rejected request
// leaves the cart untouched.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req cartAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}
	if req.Priority != "" && req.Priority != model.PriorityUrgent && req.Priority != model.PriorityRegular {
		writeError(w, http.StatusBadRequest, "priority must be urgent or regular")
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		t, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "due_date must be RFC 3339")
			return
		}
		dueDate = &t
	}

	entry, err := h.cart.AddOrMerge(req.Name, req.UPC, req.Price, req.Quantity, req.Category, req.Priority, req.Description, dueDate)
	if err != nil {
		h.logger.Error("add cart entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}

	h.hub.Broadcast(ws.NewMessage("cart", "updated", entry.ID))
	writeJSON(w, http.StatusCreated, entry)
}

func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.cart.List(r.URL.Query().Get("category"))
	if err != nil {
		h.logger.Error("list cart", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list cart")
		return
	}
	if entries == nil {
		entries = []model.CartEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	count, err := h.cart.Remove(id)
	if err != nil {
		h.logger.Error("remove cart entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to remove entry")
		return
	}
	if count == 0 {
		writeError(w, http.StatusNotFound, "cart entry not found")
		return
	}

	h.hub.Broadcast(ws.NewMessage("cart", "deleted", id))
	writeJSON(w, http.StatusOK, map[string]int64{"removed": count})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.cart.GetByID(id)
	if err != nil {
		h.logger.Error("get cart entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get entry")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "cart entry not found")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	entry, err := h.cart.UpdateQuantity(id, req.Quantity)
	if err != nil {
		h.logger.Error("update quantity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update quantity")
		return
	}

	if entry == nil {
		// Quantity dropped to zero or below; the entry was removed.
		h.hub.Broadcast(ws.NewMessage("cart", "deleted", id))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.hub.Broadcast(ws.NewMessage("cart", "updated", id))
	writeJSON(w, http.StatusOK, entry)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(); err != nil {
		h.logger.Error("clear cart", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	h.hub.Broadcast(ws.NewMessage("cart", "cleared", 0))
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.cart.Summary()
	if err != nil {
		h.logger.Error("cart summary", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// Reminders returns the batch of stale urgent entries due for a reminder.
// The UI calls this once after every cart reload; while a batch is being
// presented, further calls return an empty batch.
func (h *CartHandler) Reminders(w http.ResponseWriter, r *http.Request) {
	entries, err := h.notifier.Pending()
	if err != nil {
		h.logger.Error("pending reminders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check reminders")
		return
	}
	if entries == nil {
		entries = []model.CartEntry{}
	}
	if len(entries) > 0 {
		h.hub.Broadcast(ws.NewMessage("reminder", "due", 0))
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// AcknowledgeReminders marks the presented batch as shown.
func (h *CartHandler) AcknowledgeReminders(w http.ResponseWriter, r *http.Request) {
	if err := h.notifier.Acknowledge(); err != nil {
		h.logger.Error("acknowledge reminders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to acknowledge reminders")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DismissReminders releases the presentation latch without marking, so the
// batch resurfaces on the next cart load.
func (h *CartHandler) DismissReminders(w http.ResponseWriter, r *http.Request) {
	h.notifier.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}
