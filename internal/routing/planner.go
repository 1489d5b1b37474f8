package routing

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Scenario scoring weights. The base score keeps a venue with unknown
// coordinates, capacity and climate competitive instead of zeroing it out.
const (
	baseScore          = 50.0
	weatherWeight      = 0.3
	capacityFitBonus   = 20.0
	nearBonus          = 15.0
	midBonus           = 10.0
	farPenalty         = 10.0
	requiredVenueBonus = 50.0

	nearDistanceKm = 200.0
	midDistanceKm  = 500.0
	farDistanceKm  = 1000.0

	longDriveMin     = 240
	weatherRiskBelow = 60.0
)

// PlanRoute greedily assigns one venue per eligible date in the constraint
// window and returns the ordered stop sequence. Venues are never reused;
// the loop ends when either dates or venues run out. The drive-time limit
// is advisory: when no ranked alternative satisfies it, the best-scoring
// venue wins anyway.
//
// The greedy pass has no lookahead and no backtracking. That is a deliberate
// trade: promoters iterate on scenarios interactively, so a fast plausible
// route beats a slow optimal one.
func PlanRoute(venues []Venue, c Constraints) ([]Stop, error) {
	dates := candidateDates(c)
	if len(dates) == 0 {
		return nil, ErrNoCandidateDates
	}

	candidates := filterByState(venues, c.States)
	if len(candidates) == 0 {
		return nil, ErrNoCandidateVenues
	}

	required := make(map[int64]bool, len(c.RequiredVenues))
	for _, id := range c.RequiredVenues {
		required[id] = true
	}

	used := make(map[int64]bool, len(candidates))
	var prev *Venue
	var stops []Stop

	for _, date := range dates {
		ranked := rankVenues(candidates, used, date, prev, c, required)
		if len(ranked) == 0 {
			break
		}

		chosen := ranked[0]
		if prev != nil && c.MaxDriveHours > 0 {
			maxMin := int(c.MaxDriveHours * 60)
			if dt, ok := driveTimeMin(*prev, chosen.venue); ok && dt > maxMin {
				// Walk down the ranking for the first venue inside the
				// limit; keep the original pick if nobody qualifies.
				for _, alt := range ranked[1:] {
					altDt, altOk := driveTimeMin(*prev, alt.venue)
					if !altOk || altDt <= maxMin {
						chosen = alt
						break
					}
				}
			}
		}

		stop := Stop{
			VenueID:      chosen.venue.ID,
			VenueName:    chosen.venue.Name,
			Date:         date,
			WeatherScore: chosen.weather,
		}
		if prev != nil {
			if dt, ok := driveTimeMin(*prev, chosen.venue); ok {
				stop.DriveTimeMin = &dt
			}
		}

		stops = append(stops, stop)
		used[chosen.venue.ID] = true
		v := chosen.venue
		prev = &v
	}

	annotate(stops)
	return stops, nil
}

// candidateDates enumerates show days in [start,end]: off-days are skipped
// (and reset the consecutive-day counter), and once the cap of consecutive
// show days is hit the next eligible day is dropped outright to force a
// rest day.
func candidateDates(c Constraints) []time.Time {
	off := make(map[time.Weekday]bool, len(c.OffDays))
	for _, d := range c.OffDays {
		off[d] = true
	}

	start := truncateToDay(c.Start)
	end := truncateToDay(c.End)

	var dates []time.Time
	consecutive := 0

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if off[d.Weekday()] {
			consecutive = 0
			continue
		}
		if c.MaxConsecutiveDays > 0 && consecutive >= c.MaxConsecutiveDays {
			consecutive = 0
			continue
		}
		dates = append(dates, d)
		consecutive++
	}
	return dates
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func filterByState(venues []Venue, states []string) []Venue {
	if len(states) == 0 {
		return venues
	}

	allowed := make(map[string]bool, len(states))
	for _, s := range states {
		allowed[strings.ToUpper(s)] = true
	}

	var out []Venue
	for _, v := range venues {
		if allowed[strings.ToUpper(v.State)] {
			out = append(out, v)
		}
	}
	return out
}

type rankedVenue struct {
	venue   Venue
	score   float64
	weather float64
}

// rankVenues scores every unused venue for the date and returns them in
// descending score order. The sort is stable so ties keep input order, which
// keeps scenario output deterministic.
func rankVenues(venues []Venue, used map[int64]bool, date time.Time, prev *Venue, c Constraints, required map[int64]bool) []rankedVenue {
	ranked := make([]rankedVenue, 0, len(venues))
	for _, v := range venues {
		if used[v.ID] {
			continue
		}
		score, weather := scoreVenue(v, date, prev, c, required)
		ranked = append(ranked, rankedVenue{venue: v, score: score, weather: weather})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

func scoreVenue(v Venue, date time.Time, prev *Venue, c Constraints, required map[int64]bool) (score, weather float64) {
	score = baseScore

	weather = weatherScore(v, date)
	score += weather * weatherWeight

	if capacityFits(v, c) {
		score += capacityFitBonus
	}

	if prev != nil {
		if km, ok := distanceKm(*prev, v); ok {
			switch {
			case km < nearDistanceKm:
				score += nearBonus
			case km < midDistanceKm:
				score += midBonus
			case km > farDistanceKm:
				score -= farPenalty
			}
		}
	}

	if required[v.ID] {
		score += requiredVenueBonus
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, weather
}

// capacityFits reports whether the venue's capacity lands inside the
// requested range. No bonus without a known capacity and at least one bound;
// a missing bound is treated as unbounded on that side.
func capacityFits(v Venue, c Constraints) bool {
	if v.Capacity == nil {
		return false
	}
	if c.MinCapacity == nil && c.MaxCapacity == nil {
		return false
	}
	if c.MinCapacity != nil && *v.Capacity < *c.MinCapacity {
		return false
	}
	if c.MaxCapacity != nil && *v.Capacity > *c.MaxCapacity {
		return false
	}
	return true
}

// annotate fills each stop's Notes with semicolon-joined flags a promoter
// scans for: brutal drives, weather risk and the tour bookends.
func annotate(stops []Stop) {
	for i := range stops {
		var notes []string

		if stops[i].DriveTimeMin != nil && *stops[i].DriveTimeMin > longDriveMin {
			hours := int(math.Round(float64(*stops[i].DriveTimeMin) / 60))
			notes = append(notes, fmt.Sprintf("Long drive: %d hours", hours))
		}
		if stops[i].WeatherScore < weatherRiskBelow {
			notes = append(notes, fmt.Sprintf("Weather risk: %.0f/100", stops[i].WeatherScore))
		}
		if i == 0 {
			notes = append(notes, "Tour opener")
		}
		if i == len(stops)-1 {
			notes = append(notes, "Tour closer")
		}

		stops[i].Notes = strings.Join(notes, "; ")
	}
}
