package main

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"tourline/internal/routing"
	"tourline/internal/store"
)

type PlanRoutePayload struct {
	Start              time.Time `json:"start" validate:"required"`
	End                time.Time `json:"end" validate:"required"`
	States             []string  `json:"states,omitempty" validate:"omitempty,dive,len=2"`
	MaxDriveHours      float64   `json:"max_drive_hours,omitempty" validate:"omitempty,gt=0"`
	MaxConsecutiveDays int       `json:"max_consecutive_days,omitempty" validate:"omitempty,gt=0"`
	RequiredVenues     []int64   `json:"required_venues,omitempty"`
	OffDays            []string  `json:"off_days,omitempty" validate:"omitempty,dive,weekday"`
	MinCapacity        *int      `json:"min_capacity,omitempty" validate:"omitempty,gt=0"`
	MaxCapacity        *int      `json:"max_capacity,omitempty" validate:"omitempty,gt=0"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func routingVenue(v *store.Venue) routing.Venue {
	var climate map[time.Month]routing.Climate
	if len(v.Climate) > 0 {
		climate = make(map[time.Month]routing.Climate, len(v.Climate))
		for m, c := range v.Climate {
			climate[time.Month(m)] = routing.Climate{
				AvgHighC:    c.AvgHighC,
				AvgLowC:     c.AvgLowC,
				PrecipDays:  c.PrecipDays,
				HotDaysPct:  c.HotDaysPct,
				ColdDaysPct: c.ColdDaysPct,
			}
		}
	}

	return routing.Venue{
		ID:       v.ID,
		Name:     v.Name,
		Lat:      v.Latitude,
		Lng:      v.Longitude,
		Capacity: v.Capacity,
		Outdoor:  v.Outdoor,
		State:    v.State,
		Climate:  climate,
	}
}

// planRouteHandler godoc
//
//	@Summary		Plan a tour route
//	@Description	Greedily assigns the org's venues to candidate dates, respecting off-days, the consecutive-show cap and region filters. The drive-time limit is advisory; a stop over the limit is kept with a note when no closer venue works.
//	@Tags			routing
//	@Accept			json
//	@Produce		json
//	@Param			tourID	path		int					true	"Tour ID"
//	@Param			payload	body		PlanRoutePayload	true	"Routing constraints"
//	@Success		200		{array}		routing.Stop
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		422		{object}	error	"No candidate dates or venues"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/tours/{tourID}/route-plan [post]
func (app *application) planRouteHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload PlanRoutePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	offDays := make([]time.Weekday, 0, len(payload.OffDays))
	for _, name := range payload.OffDays {
		offDays = append(offDays, weekdayNames[strings.ToLower(name)])
	}

	venues, err := app.store.Venues.List(r.Context(), store.VenueFilter{OrgID: user.OrgID})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	candidates := make([]routing.Venue, 0, len(venues))
	for i := range venues {
		candidates = append(candidates, routingVenue(&venues[i]))
	}

	constraints := routing.Constraints{
		Start:              payload.Start,
		End:                payload.End,
		States:             payload.States,
		MaxDriveHours:      payload.MaxDriveHours,
		MaxConsecutiveDays: payload.MaxConsecutiveDays,
		RequiredVenues:     payload.RequiredVenues,
		OffDays:            offDays,
		MinCapacity:        payload.MinCapacity,
		MaxCapacity:        payload.MaxCapacity,
	}

	stops, err := routing.PlanRoute(candidates, constraints)
	if err != nil {
		switch {
		case errors.Is(err, routing.ErrNoCandidateDates), errors.Is(err, routing.ErrNoCandidateVenues):
			app.unprocessableEntityResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logActivity(r, "planned", "tour", tourIDFromURL(r), "route")

	if err := app.jsonResponse(w, http.StatusOK, stops); err != nil {
		app.internalServerError(w, r, err)
	}
}
