package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/banshee-data/fleet.report/internal/fleet"
	"github.com/banshee-data/fleet.report/internal/timeutil"
)

// PlanWorker recomputes the fleet's ranked induction plan on a cron
// schedule and stores the result in daily_plans, so the morning plan is
// ready before the control room asks for it. Re-runs for the same plan
// date replace the earlier rows.
type PlanWorker struct {
	DB       *DB
	Weights  fleet.Weights
	Schedule string // standard cron expression
	Clock    timeutil.Clock

	cron *cron.Cron
}

// NewPlanWorker builds a worker with the given scoring weights and cron
// schedule.
func NewPlanWorker(db *DB, weights fleet.Weights, schedule string) *PlanWorker {
	return &PlanWorker{
		DB:       db,
		Weights:  weights,
		Schedule: schedule,
		Clock:    timeutil.RealClock{},
	}
}

// Start registers the cron entry and begins running in the background.
func (w *PlanWorker) Start() error {
	w.cron = cron.New()
	if _, err := w.cron.AddFunc(w.Schedule, func() {
		if err := w.RunOnce(context.Background()); err != nil {
			log.Printf("plan worker run error: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid plan schedule %q: %w", w.Schedule, err)
	}
	w.cron.Start()
	log.Printf("Plan worker scheduled (%s)", w.Schedule)
	return nil
}

// Stop cancels the schedule. Blocks until a running job finishes.
func (w *PlanWorker) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

// RunOnce computes today's ranked plan from the full fleet log and stores
// it. The ranking uses the batch reference date (the newest date in the
// log), not the wall clock: the plan reflects the data's "today".
func (w *PlanWorker) RunOnce(ctx context.Context) error {
	rows, err := w.DB.FleetLog()
	if err != nil {
		return err
	}
	records := fleet.Normalize(rows)
	if len(records) == 0 {
		log.Printf("Plan worker run skipped (empty fleet log)")
		return nil
	}

	referenceDate := fleet.LatestDate(records)
	scored := fleet.ScoreWith(fleet.Aggregate(records, referenceDate), w.Weights)

	planDate := referenceDate.Format("2006-01-02")
	runID := uuid.NewString()

	tx, err := w.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			log.Printf("warning: failed to rollback transaction: %v", err)
		}
	}()

	// Replace any earlier plan for the same date before inserting, so
	// re-runs and manual triggers stay idempotent.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM daily_plans WHERE plan_date = ?`, planDate); err != nil {
		return fmt.Errorf("failed to delete stale plan rows: %w", err)
	}

	for i, s := range scored {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO daily_plans (run_id, plan_date, rank, train_id, composite_score, recommended_action)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, planDate, i+1, s.TrainID, s.CompositeScore, string(s.RecommendedAction),
		); err != nil {
			return fmt.Errorf("failed to insert plan row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("Plan worker stored plan %s for %s (%d trains)", runID, planDate, len(scored))
	return nil
}

// PlanRow is one stored row of a daily induction plan.
type PlanRow struct {
	RunID             string  `json:"run_id"`
	PlanDate          string  `json:"plan_date"`
	Rank              int     `json:"rank"`
	TrainID           string  `json:"train_id"`
	CompositeScore    float64 `json:"composite_score"`
	RecommendedAction string  `json:"recommended_action"`
}

// PlanForDate returns the stored plan for a YYYY-MM-DD date in rank order.
func (db *DB) PlanForDate(planDate string) ([]PlanRow, error) {
	rows, err := db.Query(`
		SELECT run_id, plan_date, rank, train_id, composite_score, recommended_action
		FROM daily_plans
		WHERE plan_date = ?
		ORDER BY rank`, planDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily plan: %w", err)
	}
	defer rows.Close()

	var out []PlanRow
	for rows.Next() {
		var p PlanRow
		if err := rows.Scan(&p.RunID, &p.PlanDate, &p.Rank, &p.TrainID, &p.CompositeScore, &p.RecommendedAction); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
