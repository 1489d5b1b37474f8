package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeatherScore(t *testing.T) {
	july := time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)
	january := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	t.Run("missing climate data is neutral", func(t *testing.T) {
		assert.Equal(t, 75.0, weatherScore(Venue{Outdoor: true}, july))
		assert.Equal(t, 75.0, weatherScore(Venue{}, july))
	})

	t.Run("outdoor heat, rain and extreme days stack", func(t *testing.T) {
		v := Venue{
			Outdoor: true,
			Climate: map[time.Month]Climate{
				time.July: {AvgHighC: 35, PrecipDays: 20, HotDaysPct: 50},
			},
		}
		// 100 - 15 (hot) - 10 (wet) - 50*0.3 (extreme-hot days)
		assert.Equal(t, 60.0, weatherScore(v, july))
	})

	t.Run("outdoor cold", func(t *testing.T) {
		v := Venue{
			Outdoor: true,
			Climate: map[time.Month]Climate{
				time.January: {AvgHighC: 2, ColdDaysPct: 40},
			},
		}
		// 100 - 20 (cold) - 40*0.4 (extreme-cold days)
		assert.Equal(t, 64.0, weatherScore(v, january))
	})

	t.Run("indoor venues only penalized at the extremes", func(t *testing.T) {
		hot := Venue{Climate: map[time.Month]Climate{time.July: {AvgHighC: 38}}}
		assert.Equal(t, 95.0, weatherScore(hot, july))

		mild := Venue{Climate: map[time.Month]Climate{time.July: {AvgHighC: 35}}}
		assert.Equal(t, 100.0, weatherScore(mild, july))

		freezing := Venue{Climate: map[time.Month]Climate{time.January: {AvgHighC: 4, AvgLowC: -10}}}
		assert.Equal(t, 95.0, weatherScore(freezing, january))
	})

	t.Run("score floors at zero", func(t *testing.T) {
		v := Venue{
			Outdoor: true,
			Climate: map[time.Month]Climate{
				time.January: {AvgHighC: 2, PrecipDays: 20, HotDaysPct: 100, ColdDaysPct: 100},
			},
		}
		// 100 - 20 - 10 - 30 - 40 = 0
		assert.Equal(t, 0.0, weatherScore(v, january))
	})

	t.Run("month selects the profile", func(t *testing.T) {
		v := Venue{
			Outdoor: true,
			Climate: map[time.Month]Climate{
				time.July:    {AvgHighC: 35},
				time.January: {AvgHighC: 10},
			},
		}
		assert.Equal(t, 85.0, weatherScore(v, july))
		assert.Equal(t, 100.0, weatherScore(v, january))
	})
}
