package fleet

import "time"

// Override is one operator correction for a single train. Only the fields
// present in the request are applied; nil fields leave the snapshot alone.
type Override struct {
	JobCardStatus   *string `json:"job_card_status,omitempty"`
	MarkCleaned     *bool   `json:"mark_cleaned,omitempty"`
	BrandingActive  *string `json:"branding_active,omitempty"`
	FitnessValidity *string `json:"fitness_validity_date,omitempty"`
}

// OverrideOptions tune ApplyOverridesWith.
type OverrideOptions struct {
	// RecomputeFitnessDaysLeft opts into recomputing fitness_days_left when
	// an override replaces the fitness validity date. The default (false)
	// matches the historical behaviour: the stored date changes but the
	// derived day count stays at its pre-override value until the next
	// aggregation pass.
	RecomputeFitnessDaysLeft bool

	// ReferenceDate is the day fitness_days_left is recomputed against.
	// Only consulted when RecomputeFitnessDaysLeft is set.
	ReferenceDate time.Time
}

// ApplyOverrides applies operator corrections with the historical
// no-recompute behaviour. See ApplyOverridesWith.
func ApplyOverrides(snapshots []Snapshot, overrides map[string]Override) []Snapshot {
	return ApplyOverridesWith(snapshots, overrides, OverrideOptions{})
}

// ApplyOverridesWith returns a new snapshot set with the given per-train
// corrections applied. The input snapshots are never mutated; each call
// works from the base set, so repeated overrides do not accumulate.
//
// Train ids with no snapshot are silently ignored. A new job-card status
// or branding flag recomputes the dependent derived field with the same
// text conventions the Aggregator uses. mark_cleaned is an operator
// assertion: it zeroes days_since_clean and clears needs_cleaning no
// matter what the log says. An unparsable fitness validity value is
// ignored and the stored date kept.
//
// The result still needs a scoring pass; overrides never score.
func ApplyOverridesWith(snapshots []Snapshot, overrides map[string]Override, opts OverrideOptions) []Snapshot {
	out := make([]Snapshot, len(snapshots))
	copy(out, snapshots)
	if len(overrides) == 0 {
		return out
	}

	for i := range out {
		ov, ok := overrides[out[i].TrainID]
		if !ok {
			continue
		}

		if ov.JobCardStatus != nil {
			out[i].JobCardStatus = *ov.JobCardStatus
			out[i].JobCardOpen = jobCardOpen(*ov.JobCardStatus)
		}
		if ov.MarkCleaned != nil && *ov.MarkCleaned {
			out[i].DaysSinceClean = 0
			out[i].NeedsCleaning = false
		}
		if ov.BrandingActive != nil {
			out[i].BrandingActive = *ov.BrandingActive
			out[i].BrandingBoost = brandingBoost(*ov.BrandingActive)
		}
		if ov.FitnessValidity != nil {
			if d := ParseDate(*ov.FitnessValidity); !d.IsZero() {
				out[i].FitnessValidity = d
				if opts.RecomputeFitnessDaysLeft {
					out[i].FitnessDaysLeft = fitnessDaysLeft(d, opts.ReferenceDate)
				}
			}
		}
	}
	return out
}
