package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/pantry/internal/checklist"
	"github.com/dukerupert/pantry/internal/handler"
	"github.com/dukerupert/pantry/internal/middleware"
	"github.com/dukerupert/pantry/internal/product"
	"github.com/dukerupert/pantry/internal/reminder"
	"github.com/dukerupert/pantry/internal/store"
	ws "github.com/dukerupert/pantry/internal/websocket"
)

// Config holds the server-level knobs read from the environment.
type Config struct {
	ReminderThreshold time.Duration
	ProductAPIURL     string
}

// Server is the composition root: it owns the stores, the checklist
// session, the reminder notifier, and the broadcast hub, and wires them
// into HTTP handlers. The database handle is injected, never global.
type Server struct {
	db         *sql.DB
	hub        *ws.Hub
	catalogH   *handler.CatalogHandler
	cartH      *handler.CartHandler
	checklistH *handler.ChecklistHandler
	productH   *handler.ProductHandler
	logger     *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	catalogStore := store.NewCatalogStore(db)
	cartStore := store.NewCartStore(db)
	checklistMgr := checklist.NewManager()

	notifier := reminder.NewNotifier(cartStore, cfg.ReminderThreshold, logger.With("component", "reminder"))
	productClient := product.NewClient(product.Config{BaseURL: cfg.ProductAPIURL})

	return &Server{
		db:         db,
		hub:        hub,
		catalogH:   handler.NewCatalogHandler(catalogStore, hub, logger.With("component", "catalog")),
		cartH:      handler.NewCartHandler(cartStore, notifier, hub, logger.With("component", "cart")),
		checklistH: handler.NewChecklistHandler(checklistMgr, cartStore, hub, logger.With("component", "checklist")),
		productH:   handler.NewProductHandler(productClient, logger.With("component", "product")),
		logger:     logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Catalog
	mux.HandleFunc("GET /api/catalog", s.catalogH.List)
	mux.HandleFunc("PUT /api/catalog/{id}/category", s.catalogH.AssignCategory)

	// Cart
	mux.HandleFunc("GET /api/cart", s.cartH.List)
	mux.HandleFunc("POST /api/cart", s.cartH.Add)
	mux.HandleFunc("DELETE /api/cart", s.cartH.Clear)
	mux.HandleFunc("DELETE /api/cart/{id}", s.cartH.Remove)
	mux.HandleFunc("PUT /api/cart/{id}/quantity", s.cartH.UpdateQuantity)
	mux.HandleFunc("GET /api/cart/summary", s.cartH.Summary)

	// Reminders, polled once per cart load
	mux.HandleFunc("GET /api/cart/reminders", s.cartH.Reminders)
	mux.HandleFunc("POST /api/cart/reminders/ack", s.cartH.AcknowledgeReminders)
	mux.HandleFunc("POST /api/cart/reminders/dismiss", s.cartH.DismissReminders)

	// Checklist (session-scoped, in memory)
	mux.HandleFunc("PUT /api/checklist", s.checklistH.Replace)
	mux.HandleFunc("GET /api/checklist", s.checklistH.Get)
	mux.HandleFunc("GET /api/checklist/progress", s.checklistH.Progress)

	// Barcode lookup
	mux.HandleFunc("GET /api/products/{barcode}", s.productH.Lookup)

	// Change notifications
	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
