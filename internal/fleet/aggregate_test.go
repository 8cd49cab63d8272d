package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateRoundTrip(t *testing.T) {
	t.Parallel()

	// Single train, single row: mileage 5000, cleaned on the reference day,
	// certificate valid for ten more days.
	ref := date(t, "2025-09-10")
	rows := []RawRow{{
		TrainID:         "T-201",
		Date:            "10-09-2025",
		MileageKM:       "5000",
		FitnessValidity: "20-09-2025",
		LastCleaned:     "10-09-2025",
		JobCardStatus:   "Closed",
		BrandingActive:  "No",
	}}

	snaps := Aggregate(Normalize(rows), ref)
	require.Len(t, snaps, 1)
	s := snaps[0]
	assert.Equal(t, 0, s.DaysSinceClean)
	assert.False(t, s.NeedsCleaning)
	assert.Equal(t, 10, s.FitnessDaysLeft)
	assert.Equal(t, 0.0, s.Mileage30)
	assert.False(t, s.JobCardOpen)
	assert.Equal(t, 0, s.BrandingBoost)
}

func TestAggregateLatestSelection(t *testing.T) {
	t.Parallel()

	t.Run("most recent date wins", func(t *testing.T) {
		rows := []RawRow{
			{TrainID: "T-202", Date: "01-09-2025", YardPosition: "Bay 1"},
			{TrainID: "T-202", Date: "03-09-2025", YardPosition: "Bay 3"},
			{TrainID: "T-202", Date: "02-09-2025", YardPosition: "Bay 2"},
		}
		snaps := Aggregate(Normalize(rows), date(t, "2025-09-03"))
		require.Len(t, snaps, 1)
		assert.Equal(t, "Bay 3", snaps[0].YardPosition)
	})

	t.Run("same-date tie resolves to later input row", func(t *testing.T) {
		rows := []RawRow{
			{TrainID: "T-203", Date: "03-09-2025", YardPosition: "first"},
			{TrainID: "T-203", Date: "03-09-2025", YardPosition: "second"},
		}
		snaps := Aggregate(Normalize(rows), date(t, "2025-09-03"))
		require.Len(t, snaps, 1)
		assert.Equal(t, "second", snaps[0].YardPosition)
	})

	t.Run("all-unparsable dates still produce a snapshot", func(t *testing.T) {
		rows := []RawRow{
			{TrainID: "T-204", Date: "??", YardPosition: "a"},
			{TrainID: "T-204", Date: "??", YardPosition: "b"},
		}
		snaps := Aggregate(Normalize(rows), date(t, "2025-09-03"))
		require.Len(t, snaps, 1)
		// Stable sort leaves the later input row last.
		assert.Equal(t, "b", snaps[0].YardPosition)
	})
}

func TestAggregateMileageSpread(t *testing.T) {
	t.Parallel()

	t.Run("spans the entire history", func(t *testing.T) {
		rows := []RawRow{
			{TrainID: "T-205", Date: "01-09-2025", MileageKM: "4000"},
			{TrainID: "T-205", Date: "02-09-2025", MileageKM: "4900"},
			{TrainID: "T-205", Date: "03-09-2025", MileageKM: "4350"},
		}
		snaps := Aggregate(Normalize(rows), date(t, "2025-09-03"))
		require.Len(t, snaps, 1)
		assert.Equal(t, 900.0, snaps[0].Mileage30)
	})

	t.Run("unparsable mileage rows are skipped", func(t *testing.T) {
		rows := []RawRow{
			{TrainID: "T-206", Date: "01-09-2025", MileageKM: "n/a"},
			{TrainID: "T-206", Date: "02-09-2025", MileageKM: "4100"},
			{TrainID: "T-206", Date: "03-09-2025", MileageKM: "4400"},
		}
		snaps := Aggregate(Normalize(rows), date(t, "2025-09-03"))
		require.Len(t, snaps, 1)
		assert.Equal(t, 300.0, snaps[0].Mileage30)
	})

	t.Run("no parsable mileage yields zero", func(t *testing.T) {
		rows := []RawRow{{TrainID: "T-207", Date: "01-09-2025", MileageKM: "?"}}
		snaps := Aggregate(Normalize(rows), date(t, "2025-09-03"))
		require.Len(t, snaps, 1)
		assert.Equal(t, 0.0, snaps[0].Mileage30)
	})
}

func TestAggregateDerivedFields(t *testing.T) {
	t.Parallel()

	ref := date(t, "2025-09-10")

	t.Run("missing cleaning date hits the sentinel", func(t *testing.T) {
		rows := []RawRow{{TrainID: "T-208", Date: "10-09-2025"}}
		snaps := Aggregate(Normalize(rows), ref)
		require.Len(t, snaps, 1)
		assert.Equal(t, SentinelDaysSinceClean, snaps[0].DaysSinceClean)
		assert.True(t, snaps[0].NeedsCleaning)
	})

	t.Run("cleaning threshold is strictly more than two days", func(t *testing.T) {
		rows := []RawRow{
			{TrainID: "A", Date: "10-09-2025", LastCleaned: "08-09-2025"},
			{TrainID: "B", Date: "10-09-2025", LastCleaned: "07-09-2025"},
		}
		snaps := Aggregate(Normalize(rows), ref)
		require.Len(t, snaps, 2)
		assert.Equal(t, 2, snaps[0].DaysSinceClean)
		assert.False(t, snaps[0].NeedsCleaning)
		assert.Equal(t, 3, snaps[1].DaysSinceClean)
		assert.True(t, snaps[1].NeedsCleaning)
	})

	t.Run("expired certificate goes negative, missing yields zero", func(t *testing.T) {
		rows := []RawRow{
			{TrainID: "A", Date: "10-09-2025", FitnessValidity: "05-09-2025"},
			{TrainID: "B", Date: "10-09-2025", FitnessValidity: ""},
		}
		snaps := Aggregate(Normalize(rows), ref)
		require.Len(t, snaps, 2)
		assert.Equal(t, -5, snaps[0].FitnessDaysLeft)
		assert.Equal(t, 0, snaps[1].FitnessDaysLeft)
	})
}

func TestAggregateFleetShape(t *testing.T) {
	t.Parallel()

	t.Run("one snapshot per train, sorted by id", func(t *testing.T) {
		rows := []RawRow{
			{TrainID: "T-302", Date: "01-09-2025"},
			{TrainID: "T-301", Date: "01-09-2025"},
			{TrainID: "T-302", Date: "02-09-2025"},
		}
		snaps := Aggregate(Normalize(rows), date(t, "2025-09-02"))
		require.Len(t, snaps, 2)
		assert.Equal(t, "T-301", snaps[0].TrainID)
		assert.Equal(t, "T-302", snaps[1].TrainID)
	})

	t.Run("empty history", func(t *testing.T) {
		assert.Empty(t, Aggregate(nil, date(t, "2025-09-02")))
	})
}

func TestLatestDate(t *testing.T) {
	t.Parallel()

	records := Normalize([]RawRow{
		{TrainID: "A", Date: "03-09-2025"},
		{TrainID: "B", Date: "07-09-2025"},
		{TrainID: "A", Date: "05-09-2025"},
		{TrainID: "C", Date: "bogus"},
	})
	assert.Equal(t, date(t, "2025-09-07"), LatestDate(records))
	assert.True(t, LatestDate(nil).IsZero())
}

func TestAggregateNonUTCReferenceDate(t *testing.T) {
	t.Parallel()

	// The live status path passes the host clock's local time as the
	// reference date while log dates parse as UTC. Day counts must still be
	// exact calendar-day differences, not zero-truncated fractions.
	ist := time.FixedZone("IST", 5*3600+1800)
	ref := time.Date(2025, 9, 10, 9, 0, 0, 0, ist)

	rows := []RawRow{
		{TrainID: "A", Date: "09-09-2025", LastCleaned: "09-09-2025", FitnessValidity: "09-09-2025"},
	}
	snaps := Aggregate(Normalize(rows), ref)
	require.Len(t, snaps, 1)

	assert.Equal(t, 1, snaps[0].DaysSinceClean)
	assert.Equal(t, -1, snaps[0].FitnessDaysLeft, "certificate expired yesterday must read negative")

	// A western zone whose local day lags UTC gives the same counts.
	pdt := time.FixedZone("PDT", -7*3600)
	snaps = Aggregate(Normalize(rows), time.Date(2025, 9, 10, 22, 0, 0, 0, pdt))
	require.Len(t, snaps, 1)
	assert.Equal(t, 1, snaps[0].DaysSinceClean)
	assert.Equal(t, -1, snaps[0].FitnessDaysLeft)
}
