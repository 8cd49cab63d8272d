// Package fleet implements the scoring and ranking engine for daily
// rail-fleet induction planning. It turns a per-train daily log into
// current-state snapshots, composite scores, and ranked Service /
// Maintenance / Standby recommendations.
//
// All functions in this package are pure over their inputs. Storage and
// transport live in internal/db and internal/api.
package fleet

import "time"

// DateLayout is the day-first layout used throughout the fleet log.
const DateLayout = "02-01-2006"

// RawRow is one unparsed row of the fleet log, exactly as it came out of
// the data source. Every field is free text; the Normalizer owns parsing.
type RawRow struct {
	TrainID         string `json:"train_id"`
	Date            string `json:"date"`
	MileageKM       string `json:"mileage_km"`
	FitnessValidity string `json:"fitness_validity_date"`
	JobCardStatus   string `json:"job_card_status"`
	BrandingActive  string `json:"branding_active"`
	LastCleaned     string `json:"last_cleaned"`
	YardPosition    string `json:"yard_position"`
	TrainStatus     string `json:"train_status"`
}

// RawRecord is a normalized fleet-log row. Dates that failed to parse are
// the zero time.Time; a mileage that failed to parse is a nil pointer.
// A record is never rejected for bad fields.
type RawRecord struct {
	TrainID         string
	Date            time.Time
	MileageKM       *float64
	FitnessValidity time.Time
	JobCardStatus   string
	BrandingActive  string
	LastCleaned     time.Time
	YardPosition    string
	TrainStatus     string
}

// Snapshot is the single current-state record for one train, derived from
// its most recent log row plus the full history. Snapshots are value
// objects; ApplyOverrides returns modified copies and never mutates the
// aggregated originals.
type Snapshot struct {
	TrainID         string    `json:"train_id"`
	Date            time.Time `json:"date"`
	MileageKM       *float64  `json:"mileage_km"`
	FitnessValidity time.Time `json:"fitness_validity_date"`
	JobCardStatus   string    `json:"job_card_status"`
	BrandingActive  string    `json:"branding_active"`
	LastCleaned     time.Time `json:"last_cleaned"`
	YardPosition    string    `json:"yard_position"`
	TrainStatus     string    `json:"train_status"`

	FitnessDaysLeft int     `json:"fitness_days_left"`
	Mileage30       float64 `json:"mileage_30"`
	JobCardOpen     bool    `json:"job_card_open"`
	BrandingBoost   int     `json:"branding_boost"`
	DaysSinceClean  int     `json:"days_since_clean"`
	NeedsCleaning   bool    `json:"needs_cleaning"`
}

// Action is the recommended disposition for a train on the ranked plan.
type Action string

const (
	ActionService     Action = "Service"
	ActionMaintenance Action = "Maintenance"
	ActionStandby     Action = "Standby"
)

// ScoredSnapshot is a Snapshot plus its fleet-relative sub-scores and the
// recommended action. Created fresh on every scoring pass.
type ScoredSnapshot struct {
	Snapshot

	FitnessScore   float64 `json:"fitness_score"`
	MileageScore   float64 `json:"mileage_score"`
	CleanPenalty   float64 `json:"clean_penalty"`
	JobCardPenalty float64 `json:"job_card_penalty"`
	CompositeScore float64 `json:"composite_score"`

	RecommendedAction Action `json:"recommended_action"`
}

// midnight maps t to the start of its calendar day, pinned to UTC. Log
// dates parse as UTC while the live-status reference date comes from the
// host clock in local time; pinning both to the same zone keeps day
// differences exact multiples of 24h.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole calendar days from a to b (negative when b
// is before a). Both arguments are truncated to their calendar day first.
func daysBetween(a, b time.Time) int {
	return int(midnight(b).Sub(midnight(a)).Hours() / 24)
}

// LatestDate returns the maximum observation date across the whole record
// set. This is the batch reference date: one global "today" per aggregation
// run. Returns the zero time for an empty or all-unparsable input.
func LatestDate(records []RawRecord) time.Time {
	var latest time.Time
	for _, r := range records {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	return latest
}
