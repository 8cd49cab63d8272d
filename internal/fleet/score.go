package fleet

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Weights are the composite-score coefficients. Fitness dominates, mileage
// wear comes second, branding is a flat bonus, cleanliness a minor nudge,
// and an open job card is close to disqualifying.
type Weights struct {
	Fitness        float64 `json:"fitness"`
	Mileage        float64 `json:"mileage"`
	Branding       float64 `json:"branding"`
	CleanPenalty   float64 `json:"clean_penalty"`
	JobCardPenalty float64 `json:"job_card_penalty"`
}

// DefaultWeights are the production coefficients.
var DefaultWeights = Weights{
	Fitness:        3,
	Mileage:        2,
	Branding:       1,
	CleanPenalty:   -0.5,
	JobCardPenalty: -5,
}

// Score ranks the fleet with DefaultWeights.
func Score(snapshots []Snapshot) []ScoredSnapshot {
	return ScoreWith(snapshots, DefaultWeights)
}

// ScoreWith converts the fleet's snapshots into fleet-relative sub-scores
// and a weighted composite, then sorts descending by composite score.
//
// Scores are relative across the given fleet, not per-train absolutes:
//   - fitness_score = fitness_days_left / (max_days + 1), where max_days is
//     the fleet maximum floored at 1. Not clamped, so an expired
//     certificate drives the score negative.
//   - mileage_score is an inverted min-max normalization of mileage_30 (the
//     hardest-used train scores lowest). When every train has the same
//     spread there is nothing to discriminate and everyone gets 0.5.
//
// A train with an open job card is recommended for Maintenance regardless
// of its composite score; otherwise a positive composite means Service and
// anything else Standby. The sort is stable, so equal composites keep
// their input order. An empty fleet yields an empty result.
func ScoreWith(snapshots []Snapshot, w Weights) []ScoredSnapshot {
	if len(snapshots) == 0 {
		return []ScoredSnapshot{}
	}

	maxDays := 1
	spreads := make([]float64, len(snapshots))
	for i, s := range snapshots {
		if s.FitnessDaysLeft > maxDays {
			maxDays = s.FitnessDaysLeft
		}
		spreads[i] = s.Mileage30
	}
	minSpread := floats.Min(spreads)
	maxSpread := floats.Max(spreads)

	scored := make([]ScoredSnapshot, len(snapshots))
	for i, s := range snapshots {
		sc := ScoredSnapshot{Snapshot: s}

		sc.FitnessScore = float64(s.FitnessDaysLeft) / float64(maxDays+1)

		if maxSpread != minSpread {
			sc.MileageScore = 1 - (s.Mileage30-minSpread)/(maxSpread-minSpread)
		} else {
			sc.MileageScore = 0.5
		}

		if s.NeedsCleaning {
			sc.CleanPenalty = w.CleanPenalty
		}
		if s.JobCardOpen {
			sc.JobCardPenalty = w.JobCardPenalty
		}

		sc.CompositeScore = w.Fitness*sc.FitnessScore +
			w.Mileage*sc.MileageScore +
			w.Branding*float64(s.BrandingBoost) +
			sc.CleanPenalty +
			sc.JobCardPenalty

		switch {
		case s.JobCardOpen:
			sc.RecommendedAction = ActionMaintenance
		case sc.CompositeScore > 0:
			sc.RecommendedAction = ActionService
		default:
			sc.RecommendedAction = ActionStandby
		}

		scored[i] = sc
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CompositeScore > scored[j].CompositeScore
	})
	return scored
}
