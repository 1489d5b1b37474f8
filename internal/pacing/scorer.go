package pacing

import (
	"fmt"
	"math"
	"time"
)

// daysUntil counts whole days from now to the show date, rounding up, so a
// show later today still reads as 1 day out.
func daysUntil(showDate, now time.Time) int {
	return int(math.Ceil(showDate.Sub(now).Hours() / 24))
}

// AssessRisk scores a show's sales pacing from its most recent snapshot.
// latest may be nil, in which case zero tickets sold is assumed. The bands
// are evaluated in order and the first match wins; the final score is
// clamped to [0,100].
func AssessRisk(show Show, latest *Snapshot, now time.Time) Assessment {
	capacity := show.capacity()

	sold := 0
	if latest != nil {
		sold = latest.TicketsSold
	}

	sellThrough := float64(sold) / float64(capacity) * 100
	days := daysUntil(show.Date, now)

	a := Assessment{
		SellThroughPct: sellThrough,
		DaysUntilShow:  days,
		TicketsSold:    sold,
		Capacity:       capacity,
	}

	switch {
	case days <= 0:
		a.Level = RiskHealthy
		a.Score = 0
		a.Reasoning = "Show date has passed; nothing left to pace."

	case sellThrough >= 60 && days >= 14:
		a.Level = RiskHealthy
		a.Score = math.Max(0, 40-sellThrough)
		a.Reasoning = fmt.Sprintf("%.1f%% sold with %d days to go; pacing is on track.", sellThrough, days)

	case sellThrough >= 30 && sellThrough < 60 && days <= 14:
		a.Level = RiskNeedsAttention
		a.Score = 60 + (40 - sellThrough) + math.Max(0, float64(14-days))*2
		a.Reasoning = fmt.Sprintf("%.1f%% sold with only %d days to go; pacing is behind target.", sellThrough, days)
		if sellThrough < 40 {
			a.Recommendations = append(a.Recommendations, "Consider a limited-time price cut to lift demand")
		}
		if days <= 7 {
			a.Recommendations = append(a.Recommendations, "Increase marketing spend for the final week")
		}
		a.Recommendations = append(a.Recommendations, "Send a reminder email to past attendees")

	case sellThrough < 30 && days <= 7:
		a.Level = RiskAtRisk
		a.Score = 80 + (30 - sellThrough) + float64(7-days)*3
		a.Reasoning = fmt.Sprintf("Critical: only %.1f%% sold with %d days until the show.", sellThrough, days)
		a.Recommendations = append(a.Recommendations,
			"Cut ticket prices by 15%",
			"Increase ad spend immediately",
			"Consider adding a special guest to the bill",
			"Launch a targeted marketing campaign",
		)

	case sellThrough < 50 && days >= 30:
		a.Level = RiskNeedsAttention
		a.Score = 45 + (50 - sellThrough)
		a.Reasoning = fmt.Sprintf("%.1f%% sold %d days out; early pacing is soft.", sellThrough, days)
		a.Recommendations = append(a.Recommendations,
			"Monitor sales pacing weekly",
			"Launch an early-bird promotion",
		)

	default:
		a.Level = RiskHealthy
		a.Score = math.Max(0, 40-sellThrough)
		a.Reasoning = fmt.Sprintf("%.1f%% sold with %d days to go; no action needed.", sellThrough, days)
	}

	a.Score = clamp(a.Score, 0, 100)
	return a
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
