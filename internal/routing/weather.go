package routing

import "time"

// neutralWeatherScore is assumed when a venue has no climate profile for
// the month in question.
const neutralWeatherScore = 75.0

// weatherScore rates how suitable a venue is for a show on the given date,
// 0-100. Outdoor venues are penalized for heat, cold and rain; indoor
// venues only take small penalties at the extremes (load-in still happens
// outside).
func weatherScore(v Venue, date time.Time) float64 {
	c, ok := v.Climate[date.Month()]
	if !ok {
		return neutralWeatherScore
	}

	score := 100.0

	if v.Outdoor {
		if c.AvgHighC > 30 {
			score -= 15
		}
		if c.AvgHighC < 5 {
			score -= 20
		}
		if c.PrecipDays > 15 {
			score -= 10
		}
		score -= c.HotDaysPct * 0.3
		score -= c.ColdDaysPct * 0.4
	} else {
		if c.AvgHighC > 35 {
			score -= 5
		}
		if c.AvgLowC < 0 {
			score -= 5
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
