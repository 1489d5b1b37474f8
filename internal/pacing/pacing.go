package pacing

import (
	"sort"
	"time"
)

// velocityWindow caps how many recent snapshots feed the velocity estimate.
const velocityWindow = 7

// fallbackTicketPrice is used when neither snapshots nor the show carry
// price information.
const fallbackTicketPrice = 50.0

func sortedByCaptureTime(snaps []Snapshot) []Snapshot {
	out := make([]Snapshot, len(snaps))
	copy(out, snaps)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CapturedAt.Before(out[j].CapturedAt)
	})
	return out
}

// Curve projects snapshots onto a pacing curve ordered by capture time.
// Days-until-show is computed relative to each snapshot's capture time, so
// the curve reads "how sold were we N days out".
func Curve(show Show, snaps []Snapshot) []Point {
	capacity := show.capacity()
	sorted := sortedByCaptureTime(snaps)

	points := make([]Point, 0, len(sorted))
	for _, s := range sorted {
		points = append(points, Point{
			Date:           s.CapturedAt,
			TicketsSold:    s.TicketsSold,
			SellThroughPct: float64(s.TicketsSold) / float64(capacity) * 100,
			DaysUntilShow:  daysUntil(show.Date, s.CapturedAt),
			GrossSales:     s.GrossSales,
		})
	}
	return points
}

// Velocity estimates tickets sold per day from the most recent snapshots
// (at most velocityWindow of them). It returns 0 when there are fewer than
// two snapshots or the window spans no time.
func Velocity(snaps []Snapshot) float64 {
	if len(snaps) < 2 {
		return 0
	}

	sorted := sortedByCaptureTime(snaps)
	if len(sorted) > velocityWindow {
		sorted = sorted[len(sorted)-velocityWindow:]
	}

	first := sorted[0]
	last := sorted[len(sorted)-1]

	spanDays := last.CapturedAt.Sub(first.CapturedAt).Hours() / 24
	if spanDays == 0 {
		return 0
	}

	return float64(last.TicketsSold-first.TicketsSold) / spanDays
}

// Predict extrapolates final sell-through and gross from the current sales
// velocity. Far-out shows are damped (the curve flattens mid-cycle) and
// shows inside three days get a last-minute rush multiplier.
func Predict(show Show, snaps []Snapshot, now time.Time) Prediction {
	if len(snaps) == 0 {
		return Prediction{
			Confidence: ConfidenceLow,
			Note:       "No sales snapshots recorded yet.",
		}
	}

	capacity := show.capacity()
	sorted := sortedByCaptureTime(snaps)
	latest := sorted[len(sorted)-1]

	days := daysUntil(show.Date, now)
	if days < 0 {
		days = 0
	}

	multiplier := 1.0
	switch {
	case days > 14:
		multiplier = 0.8
	case days <= 3:
		multiplier = 1.3
	}

	projected := float64(latest.TicketsSold) + Velocity(snaps)*float64(days)*multiplier
	if projected > float64(capacity) {
		projected = float64(capacity)
	}
	if projected < 0 {
		projected = 0
	}

	price := fallbackTicketPrice
	if latest.TicketsSold > 0 && latest.GrossSales > 0 {
		price = latest.GrossSales / float64(latest.TicketsSold)
	} else if show.TicketPrice != nil && *show.TicketPrice > 0 {
		price = *show.TicketPrice
	}

	p := Prediction{
		ProjectedSellThroughPct: projected / float64(capacity) * 100,
		ProjectedGross:          projected * price,
	}

	switch {
	case len(snaps) >= 5 && days >= 7:
		p.Confidence = ConfidenceHigh
		p.Note = "Enough sales history and runway for a stable projection."
	case len(snaps) >= 3:
		p.Confidence = ConfidenceMedium
		p.Note = "Projection based on a short sales history."
	default:
		p.Confidence = ConfidenceLow
		p.Note = "Too few snapshots for a reliable projection."
	}

	return p
}
