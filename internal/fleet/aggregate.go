package fleet

import (
	"sort"
	"time"
)

// SentinelDaysSinceClean is reported when a train has no recorded cleaning
// date: "very stale", and always over the cleaning threshold.
const SentinelDaysSinceClean = 999

// cleaningThresholdDays is the number of days since cleaning after which a
// train needs cleaning again.
const cleaningThresholdDays = 2

// Aggregate collapses the normalized history into one Snapshot per train.
//
// Within each train the records are stably sorted by date ascending; the
// last record supplies the passthrough fields, so same-date ties resolve to
// the later input row. Mileage30 spans the train's entire history
// (max minus min), not only the latest row. The derived day counts are
// computed against referenceDate, which the caller chooses: the batch
// maximum date (see LatestDate) for ranking runs, or the wall-clock day for
// live status queries.
//
// The result is sorted by train id. A train whose dates all failed to parse
// still produces a Snapshot from whatever row the stable sort leaves last.
func Aggregate(records []RawRecord, referenceDate time.Time) []Snapshot {
	groups := make(map[string][]RawRecord)
	ids := make([]string, 0)
	for _, r := range records {
		if _, seen := groups[r.TrainID]; !seen {
			ids = append(ids, r.TrainID)
		}
		groups[r.TrainID] = append(groups[r.TrainID], r)
	}
	sort.Strings(ids)

	snapshots := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		group := groups[id]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})
		latest := group[len(group)-1]

		snapshots = append(snapshots, Snapshot{
			TrainID:         id,
			Date:            latest.Date,
			MileageKM:       latest.MileageKM,
			FitnessValidity: latest.FitnessValidity,
			JobCardStatus:   latest.JobCardStatus,
			BrandingActive:  latest.BrandingActive,
			LastCleaned:     latest.LastCleaned,
			YardPosition:    latest.YardPosition,
			TrainStatus:     latest.TrainStatus,

			FitnessDaysLeft: fitnessDaysLeft(latest.FitnessValidity, referenceDate),
			Mileage30:       mileageSpread(group),
			JobCardOpen:     jobCardOpen(latest.JobCardStatus),
			BrandingBoost:   brandingBoost(latest.BrandingActive),
			DaysSinceClean:  daysSinceClean(latest.LastCleaned, referenceDate),
			NeedsCleaning:   daysSinceClean(latest.LastCleaned, referenceDate) > cleaningThresholdDays,
		})
	}
	return snapshots
}

// fitnessDaysLeft is the signed day difference from referenceDate to the
// fitness validity date. Negative means the certificate is expired; a
// missing date yields 0 by convention, not an error.
func fitnessDaysLeft(validity, referenceDate time.Time) int {
	if validity.IsZero() {
		return 0
	}
	return daysBetween(referenceDate, validity)
}

// daysSinceClean is the day count from the last cleaning to referenceDate,
// or SentinelDaysSinceClean when no cleaning date is known.
func daysSinceClean(lastCleaned, referenceDate time.Time) int {
	if lastCleaned.IsZero() {
		return SentinelDaysSinceClean
	}
	return daysBetween(lastCleaned, referenceDate)
}

// mileageSpread is max minus min mileage over a train's history, skipping
// rows with unparsable mileage. The field is published as "mileage_30"
// although it is not windowed to 30 days: it spans whatever history the
// log holds, matching the upstream log's 30-day retention in practice.
func mileageSpread(group []RawRecord) float64 {
	var minKM, maxKM float64
	found := false
	for _, r := range group {
		if r.MileageKM == nil {
			continue
		}
		v := *r.MileageKM
		if !found {
			minKM, maxKM = v, v
			found = true
			continue
		}
		if v < minKM {
			minKM = v
		}
		if v > maxKM {
			maxKM = v
		}
	}
	if !found {
		return 0
	}
	return maxKM - minKM
}
