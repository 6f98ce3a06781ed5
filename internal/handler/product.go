package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/pantry/internal/product"
)

type ProductHandler struct {
	client *product.Client
	logger *slog.Logger
}

func NewProductHandler(c *product.Client, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{client: c, logger: logger}
}

// Lookup resolves a scanned barcode to product display data. Failures are
// non-fatal for the UI: it keeps its placeholder fields and lets the user
// type the details in manually.
func (h *ProductHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	barcode := r.PathValue("barcode")
	if barcode == "" {
		writeError(w, http.StatusBadRequest, "barcode is required")
		return
	}

	p, err := h.client.Lookup(r.Context(), barcode)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Warn("product lookup failed", "barcode", barcode, "error", err)
		writeError(w, http.StatusBadGateway, "product lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, p)
}
