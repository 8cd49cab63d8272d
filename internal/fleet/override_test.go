package fleet

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSnapshots(t *testing.T) []Snapshot {
	t.Helper()
	return []Snapshot{
		{
			TrainID:         "T-401",
			FitnessValidity: date(t, "2025-09-20"),
			FitnessDaysLeft: 10,
			JobCardStatus:   "Closed",
			JobCardOpen:     false,
			BrandingActive:  "no",
			BrandingBoost:   0,
			DaysSinceClean:  5,
			NeedsCleaning:   true,
		},
		{
			TrainID:         "T-402",
			FitnessValidity: date(t, "2025-09-15"),
			FitnessDaysLeft: 5,
			JobCardStatus:   "Open-Minor: door sensor",
			JobCardOpen:     true,
		},
	}
}

func TestApplyOverridesUnknownTrain(t *testing.T) {
	t.Parallel()

	base := baseSnapshots(t)
	out := ApplyOverrides(base, map[string]Override{
		"T-999": {MarkCleaned: ptrBool(true)},
	})
	if diff := cmp.Diff(base, out); diff != "" {
		t.Errorf("unknown train id changed the snapshot set (-base +out):\n%s", diff)
	}
}

func TestApplyOverridesCopyOnWrite(t *testing.T) {
	t.Parallel()

	base := baseSnapshots(t)
	_ = ApplyOverrides(base, map[string]Override{
		"T-401": {MarkCleaned: ptrBool(true), JobCardStatus: ptrStr("Open-Critical: axle")},
	})

	// The base set must be untouched, so a second call starts from the same
	// facts instead of accumulating earlier overrides.
	assert.Equal(t, 5, base[0].DaysSinceClean)
	assert.Equal(t, "Closed", base[0].JobCardStatus)
	assert.False(t, base[0].JobCardOpen)
}

func TestApplyOverridesMarkCleaned(t *testing.T) {
	t.Parallel()

	out := ApplyOverrides(baseSnapshots(t), map[string]Override{
		"T-401": {MarkCleaned: ptrBool(true)},
	})
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].DaysSinceClean)
	assert.False(t, out[0].NeedsCleaning)

	t.Run("false trigger is a no-op", func(t *testing.T) {
		out := ApplyOverrides(baseSnapshots(t), map[string]Override{
			"T-401": {MarkCleaned: ptrBool(false)},
		})
		assert.Equal(t, 5, out[0].DaysSinceClean)
		assert.True(t, out[0].NeedsCleaning)
	})
}

func TestApplyOverridesJobCard(t *testing.T) {
	t.Parallel()

	t.Run("opening recomputes the flag", func(t *testing.T) {
		out := ApplyOverrides(baseSnapshots(t), map[string]Override{
			"T-401": {JobCardStatus: ptrStr("Open-Critical: brake caliper")},
		})
		assert.Equal(t, "Open-Critical: brake caliper", out[0].JobCardStatus)
		assert.True(t, out[0].JobCardOpen)
	})

	t.Run("closing recomputes the flag", func(t *testing.T) {
		out := ApplyOverrides(baseSnapshots(t), map[string]Override{
			"T-402": {JobCardStatus: ptrStr("Closed")},
		})
		assert.Equal(t, "Closed", out[1].JobCardStatus)
		assert.False(t, out[1].JobCardOpen)
	})
}

func TestApplyOverridesBranding(t *testing.T) {
	t.Parallel()

	out := ApplyOverrides(baseSnapshots(t), map[string]Override{
		"T-401": {BrandingActive: ptrStr(" Yes ")},
	})
	assert.Equal(t, 1, out[0].BrandingBoost)

	out = ApplyOverrides(out, map[string]Override{
		"T-401": {BrandingActive: ptrStr("expired")},
	})
	assert.Equal(t, 0, out[0].BrandingBoost)
}

func TestApplyOverridesFitnessValidity(t *testing.T) {
	t.Parallel()

	t.Run("parsable date replaces the stored value", func(t *testing.T) {
		out := ApplyOverrides(baseSnapshots(t), map[string]Override{
			"T-401": {FitnessValidity: ptrStr("25-12-2025")},
		})
		assert.Equal(t, date(t, "2025-12-25"), out[0].FitnessValidity)
		// The derived day count is deliberately left alone until the next
		// aggregation pass.
		assert.Equal(t, 10, out[0].FitnessDaysLeft)
	})

	t.Run("unparsable date is silently ignored", func(t *testing.T) {
		base := baseSnapshots(t)
		out := ApplyOverrides(base, map[string]Override{
			"T-401": {FitnessValidity: ptrStr("whenever")},
		})
		assert.Equal(t, base[0].FitnessValidity, out[0].FitnessValidity)
		assert.Equal(t, 10, out[0].FitnessDaysLeft)
	})

	t.Run("opt-in recompute updates days left", func(t *testing.T) {
		out := ApplyOverridesWith(baseSnapshots(t), map[string]Override{
			"T-401": {FitnessValidity: ptrStr("25-09-2025")},
		}, OverrideOptions{
			RecomputeFitnessDaysLeft: true,
			ReferenceDate:            date(t, "2025-09-10"),
		})
		assert.Equal(t, date(t, "2025-09-25"), out[0].FitnessValidity)
		assert.Equal(t, 15, out[0].FitnessDaysLeft)
	})
}
