package fleet

import (
	"sort"
	"strings"
	"time"
)

// FitnessStatus is the three-level health classification used by the
// status and recommendation queries.
type FitnessStatus string

const (
	StatusCritical FitnessStatus = "Critical"
	StatusMinor    FitnessStatus = "Minor"
	StatusHealthy  FitnessStatus = "Healthy"
)

// minorWindowDays is the look-ahead for the Minor classification: a
// certificate expiring within this many days is flagged before it lapses.
const minorWindowDays = 5

// reasonWindowDays is the tighter look-ahead the recommendation reason
// uses for "expiring soon".
const reasonWindowDays = 3

// Classify maps a train's fitness validity and job-card status to a
// FitnessStatus as of referenceDate. A missing validity date is treated as
// expiring today, which makes it Critical.
func Classify(fitnessValidity time.Time, jobCardStatus string, referenceDate time.Time) FitnessStatus {
	today := midnight(referenceDate)
	validity := midnight(fitnessValidity)
	if fitnessValidity.IsZero() {
		validity = today
	}

	status := strings.ToLower(jobCardStatus)
	switch {
	case strings.HasPrefix(status, "open-critical") || !validity.After(today):
		return StatusCritical
	case strings.HasPrefix(status, "open-minor") || !validity.After(today.AddDate(0, 0, minorWindowDays)):
		return StatusMinor
	default:
		return StatusHealthy
	}
}

// Consequence describes what skipping attention risks for a train in the
// given state. Pure lookup.
func Consequence(status FitnessStatus) string {
	switch status {
	case StatusCritical:
		return "Safety risk, possible downtime"
	case StatusMinor:
		return "May cause minor delays or service issues"
	default:
		return "No immediate risk"
	}
}

// RecommendationReason explains why a train appears on the daily
// recommendation list, in priority order: an open-critical job card beats
// an open-minor one, which beats a certificate expiring within
// reasonWindowDays; everything else is ordinary scheduled service. A
// missing validity date cannot be "expiring soon" here; the status query's
// Classify handles that case.
func RecommendationReason(fitnessValidity time.Time, jobCardStatus string, referenceDate time.Time) string {
	status := strings.ToLower(jobCardStatus)
	switch {
	case strings.HasPrefix(status, "open-critical"):
		return "Open-Critical Job Card"
	case strings.HasPrefix(status, "open-minor"):
		return "Open-Minor Job Card"
	case !fitnessValidity.IsZero() &&
		!midnight(fitnessValidity).After(midnight(referenceDate).AddDate(0, 0, reasonWindowDays)):
		return "Fitness Validity expiring soon"
	default:
		return "Scheduled Service"
	}
}

// urgencyRank orders statuses Critical first, Healthy last.
func urgencyRank(status FitnessStatus) int {
	switch status {
	case StatusCritical:
		return 0
	case StatusMinor:
		return 1
	default:
		return 2
	}
}

// SortByUrgency stably sorts items by their fitness status, Critical
// first, preserving input order within each tier.
func SortByUrgency[T any](items []T, status func(T) FitnessStatus) {
	sort.SliceStable(items, func(i, j int) bool {
		return urgencyRank(status(items[i])) < urgencyRank(status(items[j]))
	})
}
