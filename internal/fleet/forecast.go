package fleet

import "time"

// Default service-forecast parameters: a train is due for service a fixed
// number of days after its last cleaning, or a fixed mileage after its
// current odometer reading, whichever the caller cares about.
const (
	DefaultServiceIntervalDays = 15
	DefaultServiceMileageStep  = 2000
)

// ServiceForecast is the next-service projection for one train.
type ServiceForecast struct {
	NextServiceDate      time.Time `json:"next_service_due_date"`
	NextServiceMileage   int       `json:"next_service_due_mileage"`
	DaysUntilNextService int       `json:"days_until_next_service"`

	// MileageRemaining is nil when the train's mileage is unknown.
	MileageRemaining *int `json:"mileage_remaining"`
}

// Forecast projects the next service with the default interval and
// mileage step. See ForecastWith.
func Forecast(lastCleaned time.Time, mileageKM *float64, referenceDate time.Time) ServiceForecast {
	return ForecastWith(lastCleaned, mileageKM, referenceDate,
		DefaultServiceIntervalDays, DefaultServiceMileageStep)
}

// ForecastWith projects when a train next needs service. A missing
// last-cleaned date anchors the projection at referenceDate; a missing
// mileage makes the due mileage the bare step with no remaining figure.
func ForecastWith(lastCleaned time.Time, mileageKM *float64, referenceDate time.Time, intervalDays, mileageStep int) ServiceForecast {
	anchor := lastCleaned
	if anchor.IsZero() {
		anchor = referenceDate
	}

	f := ServiceForecast{
		NextServiceDate:    midnight(anchor).AddDate(0, 0, intervalDays),
		NextServiceMileage: mileageStep,
	}
	if mileageKM != nil {
		f.NextServiceMileage = int(*mileageKM) + mileageStep
		remaining := f.NextServiceMileage - int(*mileageKM)
		f.MileageRemaining = &remaining
	}
	f.DaysUntilNextService = daysBetween(referenceDate, f.NextServiceDate)
	return f
}
