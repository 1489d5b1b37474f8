package routing

import (
	"errors"
	"time"
)

var (
	// ErrNoCandidateDates means the date range, off-days and consecutive-day
	// cap left no day a show could land on.
	ErrNoCandidateDates = errors.New("no valid show dates in the requested range")

	// ErrNoCandidateVenues means the region filter eliminated every venue.
	ErrNoCandidateVenues = errors.New("no venues match the requested regions")
)

// Climate holds precomputed monthly weather statistics for a venue's
// location.
type Climate struct {
	AvgHighC    float64 `json:"avg_high_c"`
	AvgLowC     float64 `json:"avg_low_c"`
	PrecipDays  float64 `json:"precip_days"`
	HotDaysPct  float64 `json:"hot_days_pct"`
	ColdDaysPct float64 `json:"cold_days_pct"`
}

// Venue is the read-only view of a venue the planner scores. Coordinates,
// capacity and climate are all optional; scoring degrades to neutral
// adjustments when they are missing.
type Venue struct {
	ID       int64
	Name     string
	Lat      *float64
	Lng      *float64
	Capacity *int
	Outdoor  bool
	State    string
	Climate  map[time.Month]Climate
}

// Constraints bound a routing scenario.
type Constraints struct {
	Start              time.Time
	End                time.Time
	States             []string
	MaxDriveHours      float64
	MaxConsecutiveDays int
	RequiredVenues     []int64
	OffDays            []time.Weekday
	MinCapacity        *int
	MaxCapacity        *int
}

// Stop is one dated entry of a planned route. DriveTimeMin is nil for the
// first stop and whenever either endpoint lacks coordinates.
type Stop struct {
	VenueID      int64     `json:"venue_id"`
	VenueName    string    `json:"venue_name,omitempty"`
	Date         time.Time `json:"date"`
	DriveTimeMin *int      `json:"drive_time_min,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	WeatherScore float64   `json:"weather_score"`
}
