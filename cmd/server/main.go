/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the cylinder traceability server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse environment configuration, then command-line flags (flags win)
  2. Initialize SQLite store
  3. Create API handler with dependencies
  4. Configure HTTP router
  5. Start the monthly report scheduler
  6. Start server with graceful shutdown

CONFIGURATION:
  Environment variables (overridable by flags):
    PORT               HTTP server port (default: 8080)
    DB_PATH            SQLite database path (default: cylinders.db)
                       Use ":memory:" for an in-memory database
    SCHEDULER_ENABLED  Monthly report scheduler on/off (default: true)
  Flags:
    -port      HTTP server port
    -db        SQLite database path
    -scheduler Enable the monthly report scheduler

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the scheduler and close the database
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/cylinders.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port without the scheduler
  PORT=3000 ./server -scheduler=false

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/andina/cylinder-engine/api"
	"github.com/andina/cylinder-engine/store/sqlite"
)

// Config is the environment-driven configuration. Flags override it.
type Config struct {
	Port             int    `env:"PORT" envDefault:"8080"`
	DBPath           string `env:"DB_PATH" envDefault:"cylinders.db"`
	SchedulerEnabled bool   `env:"SCHEDULER_ENABLED" envDefault:"true"`
}

func main() {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}

	// Flags override environment
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	schedulerEnabled := flag.Bool("scheduler", cfg.SchedulerEnabled, "Enable the monthly report scheduler")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler (wires recorder -> daily aggregator)
	handler := api.NewHandler(store, nil)

	// Create router
	router := api.NewRouter(handler)

	// Start the monthly report scheduler
	scheduler := api.NewMonthlyReportScheduler(handler)
	scheduler.Enabled = *schedulerEnabled
	scheduler.Start()
	defer scheduler.Stop()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
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
