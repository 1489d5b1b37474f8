package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"tourline/internal/store"

	"github.com/go-chi/chi/v5"
)

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type CreateVenuePayload struct {
	Name      string                `json:"name" validate:"required,max=200"`
	Address   *string               `json:"address,omitempty"`
	City      string                `json:"city" validate:"required,max=100"`
	State     string                `json:"state" validate:"required,len=2"`
	Latitude  *float64              `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64              `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Capacity  *int                  `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Outdoor   bool                  `json:"outdoor"`
	Climate   map[int]store.Climate `json:"climate,omitempty"`
}

// createVenueHandler godoc
//
//	@Summary		Create a venue
//	@Description	Creates a venue in the caller's organization
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateVenuePayload	true	"Venue details"
//	@Success		201		{object}	store.Venue
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/venues/ [post]
func (app *application) createVenueHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateVenuePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	venue := &store.Venue{
		OrgID:     user.OrgID,
		Name:      payload.Name,
		Address:   payload.Address,
		City:      payload.City,
		State:     payload.State,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
		Capacity:  payload.Capacity,
		Outdoor:   payload.Outdoor,
		Climate:   payload.Climate,
	}

	if err := app.store.Venues.Create(r.Context(), venue); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logActivity(r, "created", "venue", venue.ID, venue.Name)

	if err := app.jsonResponse(w, http.StatusCreated, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listVenuesHandler godoc
//
//	@Summary		List venues
//	@Description	Lists the org's venues, optionally filtered by state and capacity range
//	@Tags			venues
//	@Produce		json
//	@Param			state			query		string	false	"Comma-separated state codes"
//	@Param			min_capacity	query		int		false	"Minimum capacity"
//	@Param			max_capacity	query		int		false	"Maximum capacity"
//	@Success		200				{array}		store.Venue
//	@Failure		500				{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/venues/ [get]
func (app *application) listVenuesHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	filter := store.VenueFilter{OrgID: user.OrgID}
	if states := r.URL.Query().Get("state"); states != "" {
		filter.States = splitCSV(states)
	}
	if v := r.URL.Query().Get("min_capacity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid min_capacity"))
			return
		}
		filter.MinCapacity = &n
	}
	if v := r.URL.Query().Get("max_capacity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid max_capacity"))
			return
		}
		filter.MaxCapacity = &n
	}

	venues, err := app.store.Venues.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, venues); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getVenueHandler godoc
//
//	@Summary		Get a venue
//	@Tags			venues
//	@Produce		json
//	@Param			venueID	path		int	true	"Venue ID"
//	@Success		200		{object}	store.Venue
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/ [get]
func (app *application) getVenueHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	venue, err := app.store.Venues.GetByID(r.Context(), user.OrgID, venueID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateVenuePayload struct {
	Name      *string               `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Address   *string               `json:"address,omitempty"`
	City      *string               `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	State     *string               `json:"state,omitempty" validate:"omitempty,len=2"`
	Latitude  *float64              `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64              `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Capacity  *int                  `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Outdoor   *bool                 `json:"outdoor,omitempty"`
	Climate   map[int]store.Climate `json:"climate,omitempty"`
}

// updateVenueHandler godoc
//
//	@Summary		Update venue information
//	@Description	Partially updates a venue; only provided fields change
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int					true	"Venue ID"
//	@Param			payload	body		UpdateVenuePayload	true	"Fields to update"
//	@Success		204		{string}	string				"No Content"
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/ [patch]
func (app *application) updateVenueHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	var payload UpdateVenuePayload
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
	if payload.Address != nil {
		updateData["address"] = *payload.Address
	}
	if payload.City != nil {
		updateData["city"] = *payload.City
	}
	if payload.State != nil {
		updateData["state"] = *payload.State
	}
	if payload.Latitude != nil {
		updateData["latitude"] = *payload.Latitude
	}
	if payload.Longitude != nil {
		updateData["longitude"] = *payload.Longitude
	}
	if payload.Capacity != nil {
		updateData["capacity"] = *payload.Capacity
	}
	if payload.Outdoor != nil {
		updateData["outdoor"] = *payload.Outdoor
	}
	if payload.Climate != nil {
		updateData["climate"] = payload.Climate
	}

	if len(updateData) == 0 {
		app.badRequestResponse(w, r, errors.New("no fields to update"))
		return
	}

	if err := app.store.Venues.Update(r.Context(), user.OrgID, venueID, updateData); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logActivity(r, "updated", "venue", venueID, "")

	w.WriteHeader(http.StatusNoContent)
}

// deleteVenueHandler godoc
//
//	@Summary		Delete a venue
//	@Tags			venues
//	@Param			venueID	path		int		true	"Venue ID"
//	@Success		204		{string}	string	"No Content"
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/ [delete]
func (app *application) deleteVenueHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	if err := app.store.Venues.Delete(r.Context(), user.OrgID, venueID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logActivity(r, "deleted", "venue", venueID, "")

	w.WriteHeader(http.StatusNoContent)
}

// uploadVenuePhotoHandler godoc
//
//	@Summary		Upload a venue photo
//	@Description	Uploads a photo to Cloudinary and appends its URL to the venue
//	@Tags			venues
//	@Accept			mpfd
//	@Produce		json
//	@Param			venueID	path		int		true	"Venue ID"
//	@Param			photo	formData	file	true	"Photo file, size limit is 5MB"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	error	"Unable to parse form or retrieve file"
//	@Failure		500		{object}	error	"Failed to upload image to Cloudinary or save URL in database"
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/photos [post]
func (app *application) uploadVenuePhotoHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	// venue must exist in the caller's org
	if _, err := app.store.Venues.GetByID(r.Context(), user.OrgID, venueID); err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(5 << 20); err != nil { // 5 MB
		http.Error(w, "Unable to parse form, file size limit is 5MB", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Unable to retrieve file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	publicID := fmt.Sprintf("venue_%d_image_%d", venueID, time.Now().UnixNano())
	photoURL, err := app.uploadToCloudinaryWithID(file, "venues", publicID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Venues.AddPhotoURL(r.Context(), venueID, photoURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"photo_url": photoURL}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteVenuePhotoHandler godoc
//
//	@Summary		Delete a venue photo
//	@Description	Removes the photo URL from the venue and deletes the asset from Cloudinary
//	@Tags			venues
//	@Param			venueID		path		int		true	"Venue ID"
//	@Param			photo_url	query		string	true	"Photo URL to remove"
//	@Success		204			{string}	string	"No Content"
//	@Failure		400			{object}	error
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/photos [delete]
func (app *application) deleteVenuePhotoHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	photoURL := r.URL.Query().Get("photo_url")
	if photoURL == "" {
		app.badRequestResponse(w, r, errors.New("photo_url query parameter is required"))
		return
	}

	if _, err := app.store.Venues.GetByID(r.Context(), user.OrgID, venueID); err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	if err := app.deletePhotoFromCloudinary(photoURL); err != nil {
		app.logger.Errorw("error deleting photo from cloudinary", "error", err)
	}

	if err := app.store.Venues.RemovePhotoURL(r.Context(), venueID, photoURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
