package db

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/banshee-data/fleet.report/internal/fleet"
)

// InsertLogRow appends one raw row to the fleet log.
func (db *DB) InsertLogRow(row fleet.RawRow) error {
	_, err := db.Exec(
		`INSERT INTO fleet_log (
			train_id, log_date, mileage_km, fitness_validity, job_card_status,
			branding_active, last_cleaned, yard_position, train_status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.TrainID, row.Date, row.MileageKM, row.FitnessValidity, row.JobCardStatus,
		row.BrandingActive, row.LastCleaned, row.YardPosition, row.TrainStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fleet log row: %w", err)
	}
	return nil
}

// FleetLog returns every raw log row in insertion order. Rowid order keeps
// the same-date tie-breaking ("later input row wins") stable across runs.
func (db *DB) FleetLog() ([]fleet.RawRow, error) {
	rows, err := db.Query(`
		SELECT train_id, log_date, mileage_km, fitness_validity, job_card_status,
		       branding_active, last_cleaned, yard_position, train_status
		FROM fleet_log
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fleet log: %w", err)
	}
	defer rows.Close()

	var out []fleet.RawRow
	for rows.Next() {
		var r fleet.RawRow
		if err := rows.Scan(
			&r.TrainID, &r.Date, &r.MileageKM, &r.FitnessValidity, &r.JobCardStatus,
			&r.BrandingActive, &r.LastCleaned, &r.YardPosition, &r.TrainStatus,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fleet log row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// csvColumns maps the upstream CSV headers onto RawRow fields. Header
// matching is case-insensitive on the trimmed name.
var csvColumns = map[string]func(*fleet.RawRow, string){
	"train id":         func(r *fleet.RawRow, v string) { r.TrainID = v },
	"date":             func(r *fleet.RawRow, v string) { r.Date = v },
	"mileage (km)":     func(r *fleet.RawRow, v string) { r.MileageKM = v },
	"fitness validity": func(r *fleet.RawRow, v string) { r.FitnessValidity = v },
	"job-card status":  func(r *fleet.RawRow, v string) { r.JobCardStatus = v },
	"branding active":  func(r *fleet.RawRow, v string) { r.BrandingActive = v },
	"last cleaned":     func(r *fleet.RawRow, v string) { r.LastCleaned = v },
	"yard position":    func(r *fleet.RawRow, v string) { r.YardPosition = v },
	"status":           func(r *fleet.RawRow, v string) { r.TrainStatus = v },
}

// ImportCSV loads a fleet log export into the store and returns the number
// of rows inserted. Unknown columns are ignored; field values are stored
// verbatim (the Normalizer handles bad dates and numbers later). A missing
// or headerless file is a real error: that is a boundary problem, not a
// bad data row.
func (db *DB) ImportCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open fleet log CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	setters := make([]func(*fleet.RawRow, string), len(header))
	for i, name := range header {
		setters[i] = csvColumns[strings.ToLower(strings.TrimSpace(name))]
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO fleet_log (
		train_id, log_date, mileage_km, fitness_validity, job_card_status,
		branding_active, last_cleaned, yard_position, train_status
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read CSV row: %w", err)
		}

		var row fleet.RawRow
		for i, v := range fields {
			if i < len(setters) && setters[i] != nil {
				setters[i](&row, v)
			}
		}
		if _, err := stmt.Exec(
			row.TrainID, row.Date, row.MileageKM, row.FitnessValidity, row.JobCardStatus,
			row.BrandingActive, row.LastCleaned, row.YardPosition, row.TrainStatus,
		); err != nil {
			return 0, fmt.Errorf("failed to insert CSV row: %w", err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}
