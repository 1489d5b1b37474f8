package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func coordVenue(id int64, state string, lat, lng float64) Venue {
	return Venue{ID: id, State: state, Lat: &lat, Lng: &lng}
}

func TestPlanRoute_TwoVenueScenario(t *testing.T) {
	venues := []Venue{
		{ID: 1, Name: "Red Rocks", State: "CO"},
		{ID: 2, Name: "Mission Ballroom", State: "CO"},
	}
	c := Constraints{
		Start:              day(2025, time.June, 1),
		End:                day(2025, time.June, 3),
		MaxDriveHours:      5,
		MaxConsecutiveDays: 3,
	}

	stops, err := PlanRoute(venues, c)
	require.NoError(t, err)
	require.Len(t, stops, 2) // capped by venue count

	assert.Equal(t, day(2025, time.June, 1), stops[0].Date)
	assert.Equal(t, day(2025, time.June, 2), stops[1].Date)
	assert.NotEqual(t, stops[0].VenueID, stops[1].VenueID)
	assert.Contains(t, stops[0].Notes, "Tour opener")
	assert.Contains(t, stops[1].Notes, "Tour closer")
	assert.Nil(t, stops[0].DriveTimeMin)
	assert.Nil(t, stops[1].DriveTimeMin) // no coordinates on either venue
}

func TestPlanRoute_NoDuplicateVenues(t *testing.T) {
	var venues []Venue
	for i := int64(1); i <= 10; i++ {
		venues = append(venues, Venue{ID: i, State: "TX"})
	}
	c := Constraints{
		Start: day(2025, time.March, 3),
		End:   day(2025, time.March, 9),
	}

	stops, err := PlanRoute(venues, c)
	require.NoError(t, err)
	require.Len(t, stops, 7) // one per candidate date

	seen := map[int64]bool{}
	for _, s := range stops {
		assert.False(t, seen[s.VenueID], "venue %d assigned twice", s.VenueID)
		seen[s.VenueID] = true
		assert.False(t, s.Date.Before(c.Start) || s.Date.After(c.End))
	}
}

func TestPlanRoute_StopsWhenVenuesRunOut(t *testing.T) {
	venues := []Venue{{ID: 1, State: "TX"}, {ID: 2, State: "TX"}}
	c := Constraints{
		Start: day(2025, time.March, 3),
		End:   day(2025, time.March, 9),
	}

	stops, err := PlanRoute(venues, c)
	require.NoError(t, err)
	assert.Len(t, stops, 2)
}

func TestPlanRoute_OffDayExclusion(t *testing.T) {
	var venues []Venue
	for i := int64(1); i <= 14; i++ {
		venues = append(venues, Venue{ID: i, State: "TX"})
	}
	c := Constraints{
		Start:   day(2025, time.June, 2), // Monday
		End:     day(2025, time.June, 15),
		OffDays: []time.Weekday{time.Saturday, time.Sunday},
	}

	stops, err := PlanRoute(venues, c)
	require.NoError(t, err)
	require.NotEmpty(t, stops)

	for _, s := range stops {
		assert.NotEqual(t, time.Saturday, s.Date.Weekday())
		assert.NotEqual(t, time.Sunday, s.Date.Weekday())
	}
}

func TestPlanRoute_ConsecutiveDayCap(t *testing.T) {
	var venues []Venue
	for i := int64(1); i <= 20; i++ {
		venues = append(venues, Venue{ID: i, State: "TX"})
	}
	c := Constraints{
		Start:              day(2025, time.June, 1),
		End:                day(2025, time.June, 10),
		MaxConsecutiveDays: 3,
	}

	stops, err := PlanRoute(venues, c)
	require.NoError(t, err)
	require.NotEmpty(t, stops)

	// After three show days the fourth calendar day is dropped, so the
	// plan must never contain a run of four consecutive dates.
	run := 1
	for i := 1; i < len(stops); i++ {
		if stops[i].Date.Sub(stops[i-1].Date) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		assert.LessOrEqual(t, run, 3)
	}

	// June 1-10 with a cap of 3: days 4 and 8 are rest days.
	require.Len(t, stops, 8)
	assert.Equal(t, day(2025, time.June, 3), stops[2].Date)
	assert.Equal(t, day(2025, time.June, 5), stops[3].Date)
}

func TestPlanRoute_EmptyInputs(t *testing.T) {
	venues := []Venue{{ID: 1, State: "CO"}}

	t.Run("range of only off-days", func(t *testing.T) {
		c := Constraints{
			Start:   day(2025, time.June, 7), // Saturday
			End:     day(2025, time.June, 8), // Sunday
			OffDays: []time.Weekday{time.Saturday, time.Sunday},
		}
		_, err := PlanRoute(venues, c)
		assert.ErrorIs(t, err, ErrNoCandidateDates)
	})

	t.Run("region filter matches nothing", func(t *testing.T) {
		c := Constraints{
			Start:  day(2025, time.June, 1),
			End:    day(2025, time.June, 3),
			States: []string{"TX"},
		}
		_, err := PlanRoute(venues, c)
		assert.ErrorIs(t, err, ErrNoCandidateVenues)
	})

	t.Run("end before start", func(t *testing.T) {
		c := Constraints{
			Start: day(2025, time.June, 3),
			End:   day(2025, time.June, 1),
		}
		_, err := PlanRoute(venues, c)
		assert.ErrorIs(t, err, ErrNoCandidateDates)
	})
}

func TestPlanRoute_StateFilterIsCaseInsensitive(t *testing.T) {
	venues := []Venue{{ID: 1, State: "co"}, {ID: 2, State: "TX"}}
	c := Constraints{
		Start:  day(2025, time.June, 1),
		End:    day(2025, time.June, 1),
		States: []string{"CO"},
	}

	stops, err := PlanRoute(venues, c)
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, int64(1), stops[0].VenueID)
}

func TestPlanRoute_RequiredVenueWins(t *testing.T) {
	capacity := 800
	min, max := 500, 1000
	venues := []Venue{
		{ID: 1, State: "TX", Capacity: &capacity}, // capacity fit, not required
		{ID: 2, State: "TX"},                      // required
	}
	c := Constraints{
		Start:          day(2025, time.June, 1),
		End:            day(2025, time.June, 1),
		RequiredVenues: []int64{2},
		MinCapacity:    &min,
		MaxCapacity:    &max,
	}

	stops, err := PlanRoute(venues, c)
	require.NoError(t, err)
	require.Len(t, stops, 1)
	// +50 required beats +20 capacity fit.
	assert.Equal(t, int64(2), stops[0].VenueID)
}

func TestPlanRoute_DriveTimeSubstitution(t *testing.T) {
	anchor := coordVenue(1, "CO", 39.7392, -104.9903) // Denver
	far := coordVenue(2, "CO", 47.6062, -122.3321)    // Seattle
	near := coordVenue(3, "CO", 40.0150, -105.2705)   // Boulder

	c := Constraints{
		Start:          day(2025, time.June, 1),
		End:            day(2025, time.June, 2),
		MaxDriveHours:  4,
		RequiredVenues: []int64{1, 2},
	}

	stops, err := PlanRoute([]Venue{anchor, far, near}, c)
	require.NoError(t, err)
	require.Len(t, stops, 2)

	// Day one goes to the first required venue; day two's top pick (the
	// other required venue) is a 20+ hour drive, so the nearby venue is
	// substituted in.
	assert.Equal(t, int64(1), stops[0].VenueID)
	assert.Equal(t, int64(3), stops[1].VenueID)
	require.NotNil(t, stops[1].DriveTimeMin)
	assert.LessOrEqual(t, *stops[1].DriveTimeMin, 4*60)
}

func TestPlanRoute_DriveTimeLimitIsAdvisory(t *testing.T) {
	anchor := coordVenue(1, "CO", 39.7392, -104.9903)
	far := coordVenue(2, "CO", 47.6062, -122.3321)

	c := Constraints{
		Start:         day(2025, time.June, 1),
		End:           day(2025, time.June, 2),
		MaxDriveHours: 1,
	}

	stops, err := PlanRoute([]Venue{anchor, far}, c)
	require.NoError(t, err)
	require.Len(t, stops, 2)

	// With no alternative inside the limit the over-limit venue is kept.
	assert.Equal(t, int64(2), stops[1].VenueID)
	require.NotNil(t, stops[1].DriveTimeMin)
	assert.Greater(t, *stops[1].DriveTimeMin, 60)
	assert.Contains(t, stops[1].Notes, "Long drive")
}

func TestPlanRoute_WeatherRiskNote(t *testing.T) {
	risky := Venue{
		ID:      1,
		State:   "AZ",
		Outdoor: true,
		Climate: map[time.Month]Climate{
			time.July: {AvgHighC: 41, PrecipDays: 2, HotDaysPct: 90},
		},
	}
	c := Constraints{
		Start: day(2025, time.July, 1),
		End:   day(2025, time.July, 1),
	}

	stops, err := PlanRoute([]Venue{risky}, c)
	require.NoError(t, err)
	require.Len(t, stops, 1)

	// 100 - 15 - 27 = 58, under the 60 risk threshold.
	assert.InDelta(t, 58.0, stops[0].WeatherScore, 0.0001)
	assert.Contains(t, stops[0].Notes, "Weather risk: 58/100")
	// A one-stop route is both opener and closer.
	assert.Contains(t, stops[0].Notes, "Tour opener")
	assert.Contains(t, stops[0].Notes, "Tour closer")
}
