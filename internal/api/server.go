// Package api exposes the fleet engine over HTTP: live status, the daily
// recommendation list, fleet rankings, and operator overrides.
package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/fleet.report/internal/config"
	"github.com/banshee-data/fleet.report/internal/db"
	"github.com/banshee-data/fleet.report/internal/fleet"
	"github.com/banshee-data/fleet.report/internal/httputil"
	"github.com/banshee-data/fleet.report/internal/timeutil"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

const apiDateLayout = "2006-01-02"

type Server struct {
	db    *db.DB
	cfg   *config.PlannerConfig
	clock timeutil.Clock
}

// NewServer wires the API against the fleet store and planner config. The
// clock supplies "today" for the live-status queries; production callers
// pass timeutil.RealClock.
func NewServer(database *db.DB, cfg *config.PlannerConfig, clock timeutil.Clock) *Server {
	return &Server{
		db:    database,
		cfg:   cfg,
		clock: clock,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/current_status", s.showCurrentStatus)
	mux.HandleFunc("/recommendation", s.showRecommendation)
	mux.HandleFunc("/rankings", s.showRankings)
	mux.HandleFunc("/rankings/chart", s.showRankingsChart)
	mux.HandleFunc("/overrides", s.applyOverrides)
	mux.HandleFunc("/plan", s.showPlan)
	mux.HandleFunc("/fleet_summary", s.showFleetSummary)
	mux.HandleFunc("/config", s.showConfig)
	return mux
}

// loadRecords reads the full fleet log and normalizes it.
func (s *Server) loadRecords() ([]fleet.RawRecord, error) {
	rows, err := s.db.FleetLog()
	if err != nil {
		return nil, err
	}
	return fleet.Normalize(rows), nil
}

// formatDate renders a date for the API, or nil for a missing date.
func formatDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(apiDateLayout)
	return &s
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"weights":                       s.cfg.Weights(),
		"service_interval_days":         s.cfg.GetServiceIntervalDays(),
		"service_mileage_step":          s.cfg.GetServiceMileageStep(),
		"recompute_fitness_on_override": s.cfg.GetRecomputeFitnessOnOverride(),
		"plan_schedule":                 s.cfg.GetPlanSchedule(),
	})
}

func (s *Server) showPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	planDate := r.URL.Query().Get("date")
	if planDate == "" {
		planDate = s.clock.Now().Format(apiDateLayout)
	} else if _, err := time.Parse(apiDateLayout, planDate); err != nil {
		httputil.BadRequest(w, "invalid 'date' parameter, want YYYY-MM-DD")
		return
	}

	plan, err := s.db.PlanForDate(planDate)
	if err != nil {
		httputil.InternalServerError(w, "failed to load daily plan")
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"plan_date": planDate,
		"plan":      plan,
	})
}
