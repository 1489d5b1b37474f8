package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
	"tourline/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/speps/go-hashids/v2"
)

type CreateTourPayload struct {
	ArtistID  int64      `json:"artist_id" validate:"required,gt=0"`
	Name      string     `json:"name" validate:"required,max=200"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// createTourHandler godoc
//
//	@Summary		Create a tour
//	@Description	Creates a tour for one of the org's artists; the creator joins the crew list automatically
//	@Tags			tours
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateTourPayload	true	"Tour details"
//	@Success		201		{object}	store.Tour
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/tours/ [post]
func (app *application) createTourHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateTourPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if payload.StartDate != nil && payload.EndDate != nil && payload.EndDate.Before(*payload.StartDate) {
		app.badRequestResponse(w, r, errors.New("end_date must not be before start_date"))
		return
	}

	// artist must belong to the caller's org
	if _, err := app.store.Artists.GetByID(r.Context(), user.OrgID, payload.ArtistID); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("unknown artist"))
		return
	}

	tour := &store.Tour{
		OrgID:     user.OrgID,
		ArtistID:  payload.ArtistID,
		Name:      payload.Name,
		Status:    "planning",
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
		CreatedBy: user.ID,
	}

	if err := app.store.Tours.Create(r.Context(), tour); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logActivity(r, "created", "tour", tour.ID, tour.Name)

	if err := app.jsonResponse(w, http.StatusCreated, tour); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listToursHandler godoc
//
//	@Summary	List the org's tours
//	@Tags		tours
//	@Produce	json
//	@Success	200	{array}		store.Tour
//	@Failure	500	{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/tours/ [get]
func (app *application) listToursHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	tours, err := app.store.Tours.List(r.Context(), user.OrgID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, tours); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getTourHandler godoc
//
//	@Summary	Get a tour
//	@Tags		tours
//	@Produce	json
//	@Param		tourID	path		int	true	"Tour ID"
//	@Success	200		{object}	store.Tour
//	@Failure	404		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/tours/{tourID}/ [get]
func (app *application) getTourHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	tourID := tourIDFromURL(r)

	tour, err := app.store.Tours.GetByID(r.Context(), user.OrgID, tourID)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, tour); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateTourPayload struct {
	Name      *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Status    *string    `json:"status,omitempty" validate:"omitempty,oneof=planning announced active completed"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// updateTourHandler godoc
//
//	@Summary	Update tour information
//	@Tags		tours
//	@Accept		json
//	@Produce	json
//	@Param		tourID	path		int					true	"Tour ID"
//	@Param		payload	body		UpdateTourPayload	true	"Fields to update"
//	@Success	204		{string}	string				"No Content"
//	@Failure	400		{object}	ErrorBadRequestResponse
//	@Failure	404		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/tours/{tourID}/ [patch]
func (app *application) updateTourHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	tourID := tourIDFromURL(r)

	var payload UpdateTourPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updateData := map[string]interface{}{}
	if payload.Name != nil {
		updateData["name"] = *payload.Name
	}
	if payload.Status != nil {
		updateData["status"] = *payload.Status
	}
	if payload.StartDate != nil {
		updateData["start_date"] = *payload.StartDate
	}
	if payload.EndDate != nil {
		updateData["end_date"] = *payload.EndDate
	}

	if len(updateData) == 0 {
		app.badRequestResponse(w, r, errors.New("no fields to update"))
		return
	}

	if err := app.store.Tours.Update(r.Context(), user.OrgID, tourID, updateData); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logActivity(r, "updated", "tour", tourID, "")

	w.WriteHeader(http.StatusNoContent)
}

// deleteTourHandler godoc
//
//	@Summary	Delete a tour
//	@Tags		tours
//	@Param		tourID	path		int		true	"Tour ID"
//	@Success	204		{string}	string	"No Content"
//	@Failure	404		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/tours/{tourID}/ [delete]
func (app *application) deleteTourHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	tourID := tourIDFromURL(r)

	if err := app.store.Tours.Delete(r.Context(), user.OrgID, tourID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logActivity(r, "deleted", "tour", tourID, "")

	w.WriteHeader(http.StatusNoContent)
}

// shareCode encodes the tour ID plus a random nonce with the server salt,
// so codes can't be guessed from IDs and regenerating one invalidates the
// previous link.
func (app *application) shareCode(tourID int64) (string, error) {
	hd := hashids.NewData()
	hd.Salt = app.config.shareSalt
	hd.MinLength = 8

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return "", err
	}
	return h.EncodeInt64([]int64{tourID, int64(uuid.New().ID())})
}

// createShareLinkHandler godoc
//
//	@Summary		Create a tour share link
//	@Description	Generates (or regenerates) the tour's read-only share code
//	@Tags			tours
//	@Produce		json
//	@Param			tourID	path		int	true	"Tour ID"
//	@Success		200		{object}	map[string]string
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/tours/{tourID}/share [post]
func (app *application) createShareLinkHandler(w http.ResponseWriter, r *http.Request) {
	tourID := tourIDFromURL(r)

	code, err := app.shareCode(tourID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Tours.SetShareCode(r.Context(), tourID, code); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	shareURL := fmt.Sprintf("%s/shared/%s", app.config.frontendURL, code)

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{
		"share_code": code,
		"share_url":  shareURL,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getSharedTourHandler godoc
//
//	@Summary		View a shared tour
//	@Description	Returns a read-only view of a tour and its shows by share code; no login required
//	@Tags			tours
//	@Produce		json
//	@Param			code	path		string	true	"Share code"
//	@Success		200		{object}	map[string]any
//	@Failure		404		{object}	error
//	@Router			/shared/{code} [get]
func (app *application) getSharedTourHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	tour, err := app.store.Tours.GetByShareCode(r.Context(), code)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	shows, err := app.store.Shows.ListByTour(r.Context(), tour.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"tour":  tour,
		"shows": shows,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type AddTourMemberPayload struct {
	UserID int64  `json:"user_id" validate:"required,gt=0"`
	Role   string `json:"role" validate:"required,oneof=manager viewer"`
}

// addTourMemberHandler godoc
//
//	@Summary	Add a crew member to a tour
//	@Tags		tours
//	@Accept		json
//	@Param		tourID	path		int						true	"Tour ID"
//	@Param		payload	body		AddTourMemberPayload	true	"Member details"
//	@Success	204		{string}	string					"No Content"
//	@Failure	400		{object}	ErrorBadRequestResponse
//	@Security	ApiKeyAuth
//	@Router		/tours/{tourID}/members [post]
func (app *application) addTourMemberHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	tourID := tourIDFromURL(r)

	var payload AddTourMemberPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// new member must be in the same org
	member, err := app.store.Users.GetByID(r.Context(), payload.UserID)
	if err != nil || member.OrgID != user.OrgID {
		app.badRequestResponse(w, r, errors.New("unknown user"))
		return
	}

	if err := app.store.Tours.AddMember(r.Context(), tourID, payload.UserID, payload.Role); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// removeTourMemberHandler godoc
//
//	@Summary	Remove a crew member from a tour
//	@Tags		tours
//	@Param		tourID	path		int		true	"Tour ID"
//	@Param		userID	path		int		true	"User ID"
//	@Success	204		{string}	string	"No Content"
//	@Failure	400		{object}	ErrorBadRequestResponse
//	@Security	ApiKeyAuth
//	@Router		/tours/{tourID}/members/{userID} [delete]
func (app *application) removeTourMemberHandler(w http.ResponseWriter, r *http.Request) {
	tourID := tourIDFromURL(r)

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid user ID"))
		return
	}

	if err := app.store.Tours.RemoveMember(r.Context(), tourID, userID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// tourIDFromURL reads the tour ID already validated by RequireTourMember.
func tourIDFromURL(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "tourID"), 10, 64)
	return id
}
