package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dukerupert/pantry/internal/database"
	"github.com/dukerupert/pantry/internal/logging"
	"github.com/dukerupert/pantry/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("PANTRY_LOG_LEVEL"))

	port := os.Getenv("PANTRY_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("PANTRY_DB_PATH")
	if dbPath == "" {
		dbPath = "pantry.db"
	}

	cfg := server.Config{
		ProductAPIURL: os.Getenv("PANTRY_PRODUCT_API_URL"),
	}
	if days := os.Getenv("PANTRY_REMINDER_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			cfg.ReminderThreshold = time.Duration(n) * 24 * time.Hour
		}
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, cfg, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Pantry running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
