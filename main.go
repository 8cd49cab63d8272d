package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/fleet.report/internal/api"
	"github.com/banshee-data/fleet.report/internal/config"
	"github.com/banshee-data/fleet.report/internal/db"
	"github.com/banshee-data/fleet.report/internal/timeutil"
)

var (
	listen        = flag.String("listen", ":8080", "Listen address")
	dbFile        = flag.String("db", "fleet.db", "Path to the SQLite database")
	configFile    = flag.String("config", "", "Path to a planner config JSON file")
	importCSV     = flag.String("import", "", "Import a fleet log CSV into the database and exit")
	migrationsDir = flag.String("migrations", "migrations", "Path to the schema migrations directory")
	planNow       = flag.Bool("plan-now", false, "Compute today's plan immediately on startup")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.MigrateUp(*migrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// One-shot import mode: load the CSV and exit without serving.
	if *importCSV != "" {
		n, err := database.ImportCSV(*importCSV)
		if err != nil {
			log.Fatalf("Failed to import %s: %v", *importCSV, err)
		}
		log.Printf("Imported %d fleet log rows from %s", n, *importCSV)
		return
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// nightly plan worker
	worker := db.NewPlanWorker(database, cfg.Weights(), cfg.GetPlanSchedule())
	if err := worker.Start(); err != nil {
		log.Fatalf("Failed to start plan worker: %v", err)
	}
	defer worker.Stop()

	if *planNow {
		if err := worker.RunOnce(ctx); err != nil {
			log.Printf("startup plan run failed: %v", err)
		}
	}

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		// mount the admin debugging routes (accessible only over Tailscale)
		database.AttachAdminRoutes(mux)

		apiMux := api.NewServer(database, cfg, timeutil.RealClock{}).ServeMux()
		mux.Handle("/api/", http.StripPrefix("/api", apiMux))

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("Listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
