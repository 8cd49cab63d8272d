// Package config loads the planner configuration. The schema matches the
// /api/config endpoint so the same JSON works for startup configuration
// and for inspecting the effective values at runtime.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"

	"github.com/banshee-data/fleet.report/internal/fleet"
)

// PlannerConfig holds the tunable scoring and scheduling parameters.
// Fields omitted from the JSON file keep their defaults, so partial
// configs are safe.
type PlannerConfig struct {
	// Composite-score weights
	FitnessWeight  *float64 `json:"fitness_weight,omitempty"`
	MileageWeight  *float64 `json:"mileage_weight,omitempty"`
	BrandingBonus  *float64 `json:"branding_bonus,omitempty"`
	CleanPenalty   *float64 `json:"clean_penalty,omitempty"`
	JobCardPenalty *float64 `json:"job_card_penalty,omitempty"`

	// Next-service forecast params
	ServiceIntervalDays *int `json:"service_interval_days,omitempty"`
	ServiceMileageStep  *int `json:"service_mileage_step,omitempty"`

	// RecomputeFitnessOnOverride opts into recomputing fitness_days_left
	// when an operator overrides the validity date. Off by default to match
	// the historical override behaviour.
	RecomputeFitnessOnOverride *bool `json:"recompute_fitness_on_override,omitempty"`

	// PlanSchedule is the cron expression for the daily plan run.
	PlanSchedule *string `json:"plan_schedule,omitempty"`
}

// Default returns a PlannerConfig with all fields unset; the Get* methods
// supply the default values.
func Default() *PlannerConfig {
	return &PlannerConfig{}
}

// Load reads a PlannerConfig from a JSON file.
func Load(path string) (*PlannerConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *PlannerConfig) Validate() error {
	if c.CleanPenalty != nil && *c.CleanPenalty > 0 {
		return fmt.Errorf("clean_penalty must be <= 0, got %f", *c.CleanPenalty)
	}
	if c.JobCardPenalty != nil && *c.JobCardPenalty > 0 {
		return fmt.Errorf("job_card_penalty must be <= 0, got %f", *c.JobCardPenalty)
	}
	if c.ServiceIntervalDays != nil && *c.ServiceIntervalDays < 1 {
		return fmt.Errorf("service_interval_days must be >= 1, got %d", *c.ServiceIntervalDays)
	}
	if c.ServiceMileageStep != nil && *c.ServiceMileageStep < 0 {
		return fmt.Errorf("service_mileage_step must be non-negative, got %d", *c.ServiceMileageStep)
	}
	if c.PlanSchedule != nil && *c.PlanSchedule != "" {
		if _, err := cron.ParseStandard(*c.PlanSchedule); err != nil {
			return fmt.Errorf("invalid plan_schedule '%s': %w", *c.PlanSchedule, err)
		}
	}
	return nil
}

// Weights assembles the fleet scoring weights from the configured values.
func (c *PlannerConfig) Weights() fleet.Weights {
	w := fleet.DefaultWeights
	if c.FitnessWeight != nil {
		w.Fitness = *c.FitnessWeight
	}
	if c.MileageWeight != nil {
		w.Mileage = *c.MileageWeight
	}
	if c.BrandingBonus != nil {
		w.Branding = *c.BrandingBonus
	}
	if c.CleanPenalty != nil {
		w.CleanPenalty = *c.CleanPenalty
	}
	if c.JobCardPenalty != nil {
		w.JobCardPenalty = *c.JobCardPenalty
	}
	return w
}

// GetServiceIntervalDays returns the forecast interval or the default.
func (c *PlannerConfig) GetServiceIntervalDays() int {
	if c.ServiceIntervalDays == nil {
		return fleet.DefaultServiceIntervalDays
	}
	return *c.ServiceIntervalDays
}

// GetServiceMileageStep returns the forecast mileage step or the default.
func (c *PlannerConfig) GetServiceMileageStep() int {
	if c.ServiceMileageStep == nil {
		return fleet.DefaultServiceMileageStep
	}
	return *c.ServiceMileageStep
}

// GetRecomputeFitnessOnOverride returns the override recompute flag.
func (c *PlannerConfig) GetRecomputeFitnessOnOverride() bool {
	if c.RecomputeFitnessOnOverride == nil {
		return false
	}
	return *c.RecomputeFitnessOnOverride
}

// GetPlanSchedule returns the cron expression for the daily plan run.
func (c *PlannerConfig) GetPlanSchedule() string {
	if c.PlanSchedule == nil || *c.PlanSchedule == "" {
		return "0 4 * * *" // 04:00 daily, before morning induction
	}
	return *c.PlanSchedule
}
