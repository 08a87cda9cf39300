/*
main.go - Detection API server entry point

PURPOSE:
  Starts the payroll anomaly detection HTTP server. Handles
  configuration, dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and read environment
  2. Open the SQLite record source
  3. Optionally import a seed CSV
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

ENVIRONMENT:
  PORT      HTTP server port (default: 8080)
  DB_PATH   SQLite database path (default: payroll.db, ":memory:" works)
  SEED_CSV  Optional CSV export imported on startup

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the database connection
  4. Exit
*/
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/warp/payroll-auditor/api"
	"github.com/warp/payroll-auditor/loader"
	"github.com/warp/payroll-auditor/store/sqlite"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	dbPath := getEnv("DB_PATH", "payroll.db")
	seedCSV := getEnv("SEED_CSV", "")

	source, err := sqlite.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to open record source: %v", err)
	}
	defer source.Close()

	if seedCSV != "" {
		if err := seed(source, seedCSV); err != nil {
			log.Fatalf("Failed to seed from %s: %v", seedCSV, err)
		}
		log.Printf("Seeded record source from %s", seedCSV)
	}

	handler := api.NewHandler(source)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Detection API listening on http://localhost:%s/api", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func seed(source *sqlite.Source, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ds, err := loader.Load(f)
	if err != nil {
		return err
	}
	return source.Import(context.Background(), ds)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
