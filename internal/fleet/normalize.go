package fleet

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the accepted log date formats, tried in order. The fleet
// log convention is day-first; ISO dates show up in operator overrides and
// hand-edited rows.
var dateLayouts = []string{DateLayout, "2006-01-02"}

// ParseDate parses a fleet-log date, trying the day-first convention first.
// Returns the zero time when the value is empty or unparsable; callers
// treat the zero time as a missing date.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseMileage parses a mileage value, returning nil when it is missing or
// not a non-negative number.
func parseMileage(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// Normalize maps raw log rows into typed records. Parsing never drops a
// row and never fails the batch: any field that does not parse becomes a
// missing marker and the reduced information propagates downstream.
func Normalize(rows []RawRow) []RawRecord {
	records := make([]RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, RawRecord{
			TrainID:         strings.TrimSpace(row.TrainID),
			Date:            ParseDate(row.Date),
			MileageKM:       parseMileage(row.MileageKM),
			FitnessValidity: ParseDate(row.FitnessValidity),
			JobCardStatus:   row.JobCardStatus,
			BrandingActive:  row.BrandingActive,
			LastCleaned:     ParseDate(row.LastCleaned),
			YardPosition:    row.YardPosition,
			TrainStatus:     row.TrainStatus,
		})
	}
	return records
}

// jobCardOpen reports whether the free-text job-card status indicates
// outstanding work. The convention is a case-insensitive "open" substring.
func jobCardOpen(status string) bool {
	return strings.Contains(strings.ToLower(status), "open")
}

// brandingBoost maps the free-text branding flag to its score bonus:
// 1 for "yes" (trimmed, case-insensitive), 0 for anything else.
func brandingBoost(active string) int {
	if strings.EqualFold(strings.TrimSpace(active), "yes") {
		return 1
	}
	return 0
}
