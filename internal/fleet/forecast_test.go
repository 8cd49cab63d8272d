package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecast(t *testing.T) {
	t.Parallel()

	ref := date(t, "2025-09-10")

	t.Run("known cleaning date and mileage", func(t *testing.T) {
		f := Forecast(date(t, "2025-09-04"), ptrFloat(5230.7), ref)
		assert.Equal(t, date(t, "2025-09-19"), f.NextServiceDate)
		assert.Equal(t, 7230, f.NextServiceMileage)
		assert.Equal(t, 9, f.DaysUntilNextService)
		require.NotNil(t, f.MileageRemaining)
		assert.Equal(t, 2000, *f.MileageRemaining)
	})

	t.Run("missing cleaning date anchors at the reference day", func(t *testing.T) {
		f := Forecast(time.Time{}, ptrFloat(4000), ref)
		assert.Equal(t, date(t, "2025-09-25"), f.NextServiceDate)
		assert.Equal(t, 15, f.DaysUntilNextService)
	})

	t.Run("missing mileage", func(t *testing.T) {
		f := Forecast(date(t, "2025-09-04"), nil, ref)
		assert.Equal(t, 2000, f.NextServiceMileage)
		assert.Nil(t, f.MileageRemaining)
	})

	t.Run("custom interval and step", func(t *testing.T) {
		f := ForecastWith(date(t, "2025-09-04"), ptrFloat(100), ref, 30, 5000)
		assert.Equal(t, date(t, "2025-10-04"), f.NextServiceDate)
		assert.Equal(t, 5100, f.NextServiceMileage)
	})
}
