package api

import (
	"net/http"

	"github.com/banshee-data/fleet.report/internal/fleet"
	"github.com/banshee-data/fleet.report/internal/httputil"
)

// TrainStatusAPI is one row of the live status query. Nullable fields are
// pointers so missing dates and mileage serialize as JSON null rather than
// zero values.
type TrainStatusAPI struct {
	TrainID               string  `json:"train_id"`
	YardPosition          string  `json:"yard_position"`
	LastRunDate           *string `json:"last_run_date"`
	NextServiceDueDate    string  `json:"next_service_due_date"`
	NextServiceDueMileage int     `json:"next_service_due_mileage"`
	DaysUntilNextService  int     `json:"days_until_next_service"`
	MileageRemaining      *int    `json:"mileage_remaining"`
	FitnessStatus         string  `json:"fitness_status"`
	FitnessValidity       *string `json:"fitness_validity"`
	DaysUntilExpiry       *int    `json:"days_until_fitness_expiry"`
	JobCardStatus         string  `json:"job_card_status"`
	Status                string  `json:"status"`
	ConsequenceIfSkipped  string  `json:"consequence_if_skipped"`
}

// showCurrentStatus answers the live status query. Unlike the ranking
// endpoints this uses the wall-clock day as the reference date: a stale
// log reads as overdue here even though the rankings treat the newest
// logged day as "today".
func (s *Server) showCurrentStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	records, err := s.loadRecords()
	if err != nil {
		httputil.InternalServerError(w, "failed to load fleet log")
		return
	}

	today := s.clock.Now()
	snapshots := fleet.Aggregate(records, today)

	statusList := make([]TrainStatusAPI, 0, len(snapshots))
	for _, snap := range snapshots {
		forecast := fleet.ForecastWith(snap.LastCleaned, snap.MileageKM, today,
			s.cfg.GetServiceIntervalDays(), s.cfg.GetServiceMileageStep())
		fitnessStatus := fleet.Classify(snap.FitnessValidity, snap.JobCardStatus, today)

		row := TrainStatusAPI{
			TrainID:               snap.TrainID,
			YardPosition:          snap.YardPosition,
			LastRunDate:           formatDate(snap.Date),
			NextServiceDueDate:    forecast.NextServiceDate.Format(apiDateLayout),
			NextServiceDueMileage: forecast.NextServiceMileage,
			DaysUntilNextService:  forecast.DaysUntilNextService,
			MileageRemaining:      forecast.MileageRemaining,
			FitnessStatus:         string(fitnessStatus),
			FitnessValidity:       formatDate(snap.FitnessValidity),
			JobCardStatus:         snap.JobCardStatus,
			Status:                snap.TrainStatus,
			ConsequenceIfSkipped:  fleet.Consequence(fitnessStatus),
		}
		if !snap.FitnessValidity.IsZero() {
			days := snap.FitnessDaysLeft
			row.DaysUntilExpiry = &days
		}
		statusList = append(statusList, row)
	}

	httputil.WriteJSONOK(w, statusList)
}

// RecommendationAPI is one row of the daily recommendation query.
type RecommendationAPI struct {
	TrainID              string `json:"train_id"`
	Reason               string `json:"reason"`
	ConsequenceIfSkipped string `json:"consequence_if_skipped"`
	FitnessStatus        string `json:"fitness_status"`
}

// showRecommendation lists every train with the reason it needs attention
// today, most urgent tier first.
func (s *Server) showRecommendation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	records, err := s.loadRecords()
	if err != nil {
		httputil.InternalServerError(w, "failed to load fleet log")
		return
	}

	today := s.clock.Now()
	snapshots := fleet.Aggregate(records, today)

	recommendations := make([]RecommendationAPI, 0, len(snapshots))
	for _, snap := range snapshots {
		fitnessStatus := fleet.Classify(snap.FitnessValidity, snap.JobCardStatus, today)
		recommendations = append(recommendations, RecommendationAPI{
			TrainID:              snap.TrainID,
			Reason:               fleet.RecommendationReason(snap.FitnessValidity, snap.JobCardStatus, today),
			ConsequenceIfSkipped: fleet.Consequence(fitnessStatus),
			FitnessStatus:        string(fitnessStatus),
		})
	}

	fleet.SortByUrgency(recommendations, func(r RecommendationAPI) fleet.FitnessStatus {
		return fleet.FitnessStatus(r.FitnessStatus)
	})
	httputil.WriteJSONOK(w, recommendations)
}
