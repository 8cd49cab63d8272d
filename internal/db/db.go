// Package db stores the raw fleet log and the derived daily plans in
// SQLite. The store is deliberately dumb: log columns are kept as text and
// parsing belongs to the fleet Normalizer, so a malformed source row never
// fails an import.
package db

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"
)

type DB struct {
	*sql.DB
}

// NewDB opens (and if necessary creates) the fleet database at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS fleet_log (
			train_id          TEXT,
			log_date          TEXT,
			mileage_km        TEXT,
			fitness_validity  TEXT,
			job_card_status   TEXT,
			branding_active   TEXT,
			last_cleaned      TEXT,
			yard_position     TEXT,
			train_status      TEXT,
			imported_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS override_audit (
			id                TEXT PRIMARY KEY,
			train_id          TEXT,
			changes           TEXT,
			applied_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS daily_plans (
			run_id            TEXT,
			plan_date         TEXT,
			rank              INTEGER,
			train_id          TEXT,
			composite_score   DOUBLE,
			recommended_action TEXT,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// AttachAdminRoutes mounts the debug endpoints: a live SQL console over
// the fleet database and an on-demand backup download.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://fleet.db", db.DB, &tailsql.DBOptions{
		Label: "Fleet DB",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backupPath := fmt.Sprintf("backup-%d.db", time.Now().Unix())
		if _, err := db.DB.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		defer func() {
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		backup, err := os.ReadFile(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to read backup file: %v", err), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		if _, err := w.Write(backup); err != nil {
			log.Printf("Failed to send backup: %v", err)
		}
	}))
}
