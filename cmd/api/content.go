package main

import (
	"errors"
	"net/http"
	"time"
	"tourline/internal/contentgen"
	"tourline/internal/pacing"
	"tourline/internal/store"
)

type PromoCopyPayload struct {
	Tone string `json:"tone,omitempty" validate:"omitempty,max=100"`
}

// generatePromoCopyHandler godoc
//
//	@Summary		Generate promo copy for a show
//	@Description	Asks the content generator for a short social post pushing remaining tickets, seeded with the show's pacing numbers
//	@Tags			content
//	@Accept			json
//	@Produce		json
//	@Param			showID	path		int					true	"Show ID"
//	@Param			payload	body		PromoCopyPayload	true	"Generation options"
//	@Success		200		{object}	map[string]string
//	@Failure		404		{object}	error
//	@Failure		503		{object}	error	"Content generation not configured"
//	@Security		ApiKeyAuth
//	@Router			/shows/{showID}/promo-copy [post]
func (app *application) generatePromoCopyHandler(w http.ResponseWriter, r *http.Request) {
	if app.contentgen == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "content generation is not configured")
		return
	}

	user := getUserFromContext(r)

	show, ok := app.showFromRequest(w, r)
	if !ok {
		return
	}

	var payload PromoCopyPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	venue, err := app.store.Venues.GetByID(r.Context(), user.OrgID, show.VenueID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	tour, err := app.store.Tours.GetByID(r.Context(), user.OrgID, show.TourID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	artist, err := app.store.Artists.GetByID(r.Context(), user.OrgID, tour.ArtistID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	latest, err := app.store.Snapshots.LatestByShow(r.Context(), show.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		app.internalServerError(w, r, err)
		return
	}

	var snap *pacing.Snapshot
	if latest != nil {
		s := pacingSnapshot(latest)
		snap = &s
	}
	assessment := pacing.AssessRisk(pacingShow(show), snap, time.Now().UTC())

	copyText, err := app.contentgen.PromoCopy(r.Context(), contentgen.PromoRequest{
		ArtistName:     artist.Name,
		VenueName:      venue.Name,
		City:           venue.City,
		ShowDate:       show.Date.Format("Monday, January 2"),
		SellThroughPct: assessment.SellThroughPct,
		DaysUntilShow:  assessment.DaysUntilShow,
		Tone:           payload.Tone,
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"copy": copyText}); err != nil {
		app.internalServerError(w, r, err)
	}
}
