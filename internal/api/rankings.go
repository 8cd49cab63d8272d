package api

import (
	"encoding/json"
	"net/http"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/fleet.report/internal/fleet"
	"github.com/banshee-data/fleet.report/internal/httputil"
)

// RankingsResponse carries the scored fleet plus the reference date the
// scores were computed against.
type RankingsResponse struct {
	ReferenceDate *string                `json:"reference_date"`
	Rankings      []fleet.ScoredSnapshot `json:"rankings"`
}

// showRankings scores the full fleet log and returns the induction
// ranking, best candidate first. The reference date is the newest date in
// the log, so a replayed historical log ranks against its own "today".
func (s *Server) showRankings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	records, err := s.loadRecords()
	if err != nil {
		httputil.InternalServerError(w, "failed to load fleet log")
		return
	}

	referenceDate := fleet.LatestDate(records)
	scored := fleet.ScoreWith(fleet.Aggregate(records, referenceDate), s.cfg.Weights())

	httputil.WriteJSONOK(w, RankingsResponse{
		ReferenceDate: formatDate(referenceDate),
		Rankings:      scored,
	})
}

// applyOverrides accepts a map of train id to correction, re-scores the
// fleet with the corrections applied, and returns the adjusted ranking.
// Each submitted override is recorded in the audit log. Overrides for
// unknown train ids are accepted and ignored, matching the engine.
func (s *Server) applyOverrides(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var overrides map[string]fleet.Override
	if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil {
		httputil.BadRequest(w, "invalid override payload: "+err.Error())
		return
	}

	records, err := s.loadRecords()
	if err != nil {
		httputil.InternalServerError(w, "failed to load fleet log")
		return
	}

	referenceDate := fleet.LatestDate(records)
	snapshots := fleet.Aggregate(records, referenceDate)
	adjusted := fleet.ApplyOverridesWith(snapshots, overrides, fleet.OverrideOptions{
		RecomputeFitnessDaysLeft: s.cfg.GetRecomputeFitnessOnOverride(),
		ReferenceDate:            referenceDate,
	})
	scored := fleet.ScoreWith(adjusted, s.cfg.Weights())

	for trainID, ov := range overrides {
		changes, err := json.Marshal(ov)
		if err != nil {
			httputil.InternalServerError(w, "failed to encode override for audit")
			return
		}
		if _, err := s.db.RecordOverride(trainID, changes); err != nil {
			httputil.InternalServerError(w, "failed to record override audit")
			return
		}
	}

	httputil.WriteJSONOK(w, RankingsResponse{
		ReferenceDate: formatDate(referenceDate),
		Rankings:      scored,
	})
}

// FleetSummary aggregates the scored fleet into headline numbers for the
// control-room dashboard.
type FleetSummary struct {
	TrainCount    int     `json:"train_count"`
	MeanComposite float64 `json:"mean_composite_score"`
	StdComposite  float64 `json:"std_composite_score"`
	MaxComposite  float64 `json:"max_composite_score"`
	MinComposite  float64 `json:"min_composite_score"`

	ActionCounts map[string]int `json:"action_counts"`
	StatusCounts map[string]int `json:"fitness_status_counts"`
}

func (s *Server) showFleetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	records, err := s.loadRecords()
	if err != nil {
		httputil.InternalServerError(w, "failed to load fleet log")
		return
	}

	referenceDate := fleet.LatestDate(records)
	scored := fleet.ScoreWith(fleet.Aggregate(records, referenceDate), s.cfg.Weights())

	summary := FleetSummary{
		TrainCount:   len(scored),
		ActionCounts: map[string]int{},
		StatusCounts: map[string]int{},
	}
	composites := make([]float64, 0, len(scored))
	for _, sc := range scored {
		composites = append(composites, sc.CompositeScore)
		summary.ActionCounts[string(sc.RecommendedAction)]++
		status := fleet.Classify(sc.FitnessValidity, sc.JobCardStatus, referenceDate)
		summary.StatusCounts[string(status)]++
	}
	if len(composites) > 0 {
		summary.MeanComposite = stat.Mean(composites, nil)
		summary.MaxComposite = floats.Max(composites)
		summary.MinComposite = floats.Min(composites)
	}
	// StdDev is undefined for a single sample; leave it at zero.
	if len(composites) > 1 {
		summary.StdComposite = stat.StdDev(composites, nil)
	}

	httputil.WriteJSONOK(w, summary)
}
