package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
	"tourline/internal/store"

	"github.com/go-chi/chi/v5"
)

type CreateShowPayload struct {
	TourID      int64     `json:"tour_id" validate:"required,gt=0"`
	VenueID     int64     `json:"venue_id" validate:"required,gt=0"`
	Date        time.Time `json:"date" validate:"required"`
	TicketPrice *float64  `json:"ticket_price,omitempty" validate:"omitempty,gt=0"`
	Capacity    *int      `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Notes       *string   `json:"notes,omitempty"`
}

// createShowHandler godoc
//
//	@Summary		Create a show
//	@Description	Places a hold on a venue for a date. A venue can host only one show per date.
//	@Tags			shows
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateShowPayload	true	"Show details"
//	@Success		201		{object}	store.Show
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	error	"Venue already booked on that date"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/shows/ [post]
func (app *application) createShowHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateShowPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// tour and venue must both live in the caller's org
	if _, err := app.store.Tours.GetByID(r.Context(), user.OrgID, payload.TourID); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("unknown tour"))
		return
	}
	if _, err := app.store.Venues.GetByID(r.Context(), user.OrgID, payload.VenueID); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("unknown venue"))
		return
	}

	show := &store.Show{
		OrgID:       user.OrgID,
		TourID:      payload.TourID,
		VenueID:     payload.VenueID,
		Date:        payload.Date,
		Status:      store.ShowStatusHold,
		TicketPrice: payload.TicketPrice,
		Capacity:    payload.Capacity,
		Notes:       payload.Notes,
	}

	if err := app.store.Shows.Create(r.Context(), show); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logActivity(r, "created", "show", show.ID, "")

	if err := app.jsonResponse(w, http.StatusCreated, show); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listShowsHandler godoc
//
//	@Summary		List shows by date range
//	@Description	Lists the org's shows between two dates (inclusive)
//	@Tags			shows
//	@Produce		json
//	@Param			from	query		string	true	"Start date (RFC 3339)"
//	@Param			to		query		string	true	"End date (RFC 3339)"
//	@Success		200		{array}		store.Show
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/shows/ [get]
func (app *application) listShowsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid from date"))
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid to date"))
		return
	}

	shows, err := app.store.Shows.ListByDateRange(r.Context(), user.OrgID, from, to)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, shows); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listTourShowsHandler godoc
//
//	@Summary	List a tour's shows in date order
//	@Tags		tours
//	@Produce	json
//	@Param		tourID	path		int	true	"Tour ID"
//	@Success	200		{array}		store.Show
//	@Failure	500		{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/tours/{tourID}/shows [get]
func (app *application) listTourShowsHandler(w http.ResponseWriter, r *http.Request) {
	tourID := tourIDFromURL(r)

	shows, err := app.store.Shows.ListByTour(r.Context(), tourID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, shows); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getShowHandler godoc
//
//	@Summary	Get a show
//	@Tags		shows
//	@Produce	json
//	@Param		showID	path		int	true	"Show ID"
//	@Success	200		{object}	store.Show
//	@Failure	404		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/shows/{showID}/ [get]
func (app *application) getShowHandler(w http.ResponseWriter, r *http.Request) {
	show, ok := app.showFromRequest(w, r)
	if !ok {
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, show); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateShowPayload struct {
	Date        *time.Time `json:"date,omitempty"`
	TicketPrice *float64   `json:"ticket_price,omitempty" validate:"omitempty,gt=0"`
	Capacity    *int       `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Notes       *string    `json:"notes,omitempty"`
}

// updateShowHandler godoc
//
//	@Summary	Update show information
//	@Tags		shows
//	@Accept		json
//	@Produce	json
//	@Param		showID	path		int					true	"Show ID"
//	@Param		payload	body		UpdateShowPayload	true	"Fields to update"
//	@Success	204		{string}	string				"No Content"
//	@Failure	400		{object}	ErrorBadRequestResponse
//	@Failure	404		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/shows/{showID}/ [patch]
func (app *application) updateShowHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	showID, err := strconv.ParseInt(chi.URLParam(r, "showID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid show ID"))
		return
	}

	var payload UpdateShowPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updateData := map[string]interface{}{}
	if payload.Date != nil {
		updateData["date"] = *payload.Date
	}
	if payload.TicketPrice != nil {
		updateData["ticket_price"] = *payload.TicketPrice
	}
	if payload.Capacity != nil {
		updateData["capacity"] = *payload.Capacity
	}
	if payload.Notes != nil {
		updateData["notes"] = *payload.Notes
	}

	if len(updateData) == 0 {
		app.badRequestResponse(w, r, errors.New("no fields to update"))
		return
	}

	if err := app.store.Shows.Update(r.Context(), user.OrgID, showID, updateData); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, store.ErrConflict):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logActivity(r, "updated", "show", showID, "")

	w.WriteHeader(http.StatusNoContent)
}

// deleteShowHandler godoc
//
//	@Summary	Delete a show
//	@Tags		shows
//	@Param		showID	path		int		true	"Show ID"
//	@Success	204		{string}	string	"No Content"
//	@Failure	404		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/shows/{showID}/ [delete]
func (app *application) deleteShowHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	showID, err := strconv.ParseInt(chi.URLParam(r, "showID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid show ID"))
		return
	}

	if err := app.store.Shows.Delete(r.Context(), user.OrgID, showID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logActivity(r, "deleted", "show", showID, "")

	w.WriteHeader(http.StatusNoContent)
}

type UpdateShowStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=hold confirmed settled canceled"`
}

// updateShowStatusHandler godoc
//
//	@Summary		Change a show's status
//	@Description	Moves the show along its lifecycle: hold → confirmed → settled, with canceled reachable from hold or confirmed.
//	@Tags			shows
//	@Accept			json
//	@Produce		json
//	@Param			showID	path		int						true	"Show ID"
//	@Param			payload	body		UpdateShowStatusPayload	true	"Target status"
//	@Success		204		{string}	string					"No Content"
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error
//	@Failure		422		{object}	error	"Invalid transition"
//	@Security		ApiKeyAuth
//	@Router			/shows/{showID}/status [put]
func (app *application) updateShowStatusHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	showID, err := strconv.ParseInt(chi.URLParam(r, "showID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid show ID"))
		return
	}

	var payload UpdateShowStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Shows.UpdateStatus(r.Context(), user.OrgID, showID, payload.Status); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, store.ErrInvalidTransition):
			app.unprocessableEntityResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logActivity(r, payload.Status, "show", showID, "")

	w.WriteHeader(http.StatusNoContent)
}

// showFromRequest loads the show named in the URL, scoped to the caller's
// org, writing the error response itself when it fails.
func (app *application) showFromRequest(w http.ResponseWriter, r *http.Request) (*store.Show, bool) {
	user := getUserFromContext(r)

	showID, err := strconv.ParseInt(chi.URLParam(r, "showID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid show ID"))
		return nil, false
	}

	show, err := app.store.Shows.GetByID(r.Context(), user.OrgID, showID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return nil, false
	}
	return show, true
}
