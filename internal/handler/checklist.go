package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/pantry/internal/checklist"
	"github.com/dukerupert/pantry/internal/model"
	"github.com/dukerupert/pantry/internal/store"
	ws "github.com/dukerupert/pantry/internal/websocket"
)

type ChecklistHandler struct {
	manager *checklist.Manager
	cart    *store.CartStore
	hub     *ws.Hub
	logger  *slog.Logger
}

func NewChecklistHandler(m *checklist.Manager, cs *store.CartStore, hub *ws.Hub, logger *slog.Logger) *ChecklistHandler {
	return &ChecklistHandler{manager: m, cart: cs, hub: hub, logger: logger}
}

// Replace installs a new session checklist. The previous checklist is
// discarded; callers confirm the overwrite before issuing the request.
func (h *ChecklistHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string              `json:"name"`
		Items []model.CatalogItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	c, err := h.manager.Replace(req.Name, req.Items)
	if err != nil {
		if errors.Is(err, checklist.ErrEmptyName) || errors.Is(err, checklist.ErrNoItems) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("replace checklist", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to replace checklist")
		return
	}

	h.hub.Broadcast(ws.NewMessage("checklist", "replaced", 0))
	writeJSON(w, http.StatusOK, c)
}

func (h *ChecklistHandler) Get(w http.ResponseWriter, r *http.Request) {
	c := h.manager.Current()
	if c == nil {
		writeError(w, http.StatusNotFound, "no checklist for this session")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Progress reconciles the current checklist against the cart and reports the
// completion fraction plus the still-missing items in checklist order.
func (h *ChecklistHandler) Progress(w http.ResponseWriter, r *http.Request) {
	c := h.manager.Current()
	if c == nil {
		writeError(w, http.StatusNotFound, "no checklist for this session")
		return
	}

	entries, err := h.cart.List("")
	if err != nil {
		h.logger.Error("list cart for progress", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	missing := checklist.Missing(c, entries)
	if missing == nil {
		missing = []model.CatalogItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":     c.Name,
		"progress": checklist.Progress(c, entries),
		"missing":  missing,
	})
}
