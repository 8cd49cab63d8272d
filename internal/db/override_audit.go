package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OverrideAudit is one logged operator correction. The audit trail records
// what was asked for; it is a log, not state. Override effects are
// per-request and never replayed.
type OverrideAudit struct {
	ID        string    `json:"id"`
	TrainID   string    `json:"train_id"`
	Changes   string    `json:"changes"` // JSON as submitted
	AppliedAt time.Time `json:"applied_at"`
}

// RecordOverride logs an applied override and returns its audit id.
func (db *DB) RecordOverride(trainID string, changes []byte) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO override_audit (id, train_id, changes) VALUES (?, ?, ?)`,
		id, trainID, string(changes),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record override: %w", err)
	}
	return id, nil
}

// RecentOverrides returns the most recent override audit entries, newest
// first.
func (db *DB) RecentOverrides(limit int) ([]OverrideAudit, error) {
	rows, err := db.Query(`
		SELECT id, train_id, changes, applied_at
		FROM override_audit
		ORDER BY applied_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query override audit: %w", err)
	}
	defer rows.Close()

	var out []OverrideAudit
	for rows.Next() {
		var a OverrideAudit
		if err := rows.Scan(&a.ID, &a.TrainID, &a.Changes, &a.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan override audit row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
