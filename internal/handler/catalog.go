package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pantry/internal/model"
	"github.com/dukerupert/pantry/internal/store"
	ws "github.com/dukerupert/pantry/internal/websocket"
)

type CatalogHandler struct {
	catalog *store.CatalogStore
	hub     *ws.Hub
	logger  *slog.Logger
}

func NewCatalogHandler(cs *store.CatalogStore, hub *ws.Hub, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: cs, hub: hub, logger: logger}
}

// List serves the catalog. ?category= filters by assigned category;
// otherwise ?q= searches names and an empty query returns everything.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	var items []model.CatalogItem
	var err error

	if category := r.URL.Query().Get("category"); category != "" {
		items, err = h.catalog.ListByCategory(category)
	} else {
		items, err = h.catalog.Search(r.URL.Query().Get("q"))
	}
	if err != nil {
		h.logger.Error("list catalog", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list catalog")
		return
	}

	if items == nil {
		items = []model.CatalogItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) AssignCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	item, err := h.catalog.AssignCategory(id, req.Category)
	if err != nil {
		h.logger.Error("assign category", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to assign category")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "catalog item not found")
		return
	}

	h.hub.Broadcast(ws.NewMessage("catalog", "updated", item.ID))
	writeJSON(w, http.StatusOK, item)
}
