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

type CreateArtistPayload struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Genre    *string `json:"genre,omitempty" validate:"omitempty,max=100"`
	HomeCity *string `json:"home_city,omitempty" validate:"omitempty,max=100"`
	Bio      *string `json:"bio,omitempty"`
	DrawSize *int    `json:"draw_size,omitempty" validate:"omitempty,gt=0"`
}

// createArtistHandler godoc
//
//	@Summary		Create an artist
//	@Tags			artists
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateArtistPayload	true	"Artist details"
//	@Success		201		{object}	store.Artist
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/artists/ [post]
func (app *application) createArtistHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateArtistPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	artist := &store.Artist{
		OrgID:    user.OrgID,
		Name:     payload.Name,
		Genre:    payload.Genre,
		HomeCity: payload.HomeCity,
		Bio:      payload.Bio,
		DrawSize: payload.DrawSize,
	}

	if err := app.store.Artists.Create(r.Context(), artist); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logActivity(r, "created", "artist", artist.ID, artist.Name)

	if err := app.jsonResponse(w, http.StatusCreated, artist); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listArtistsHandler godoc
//
//	@Summary	List the org's artists
//	@Tags		artists
//	@Produce	json
//	@Success	200	{array}		store.Artist
//	@Failure	500	{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/artists/ [get]
func (app *application) listArtistsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	artists, err := app.store.Artists.List(r.Context(), user.OrgID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, artists); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getArtistHandler godoc
//
//	@Summary	Get an artist
//	@Tags		artists
//	@Produce	json
//	@Param		artistID	path		int	true	"Artist ID"
//	@Success	200			{object}	store.Artist
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/artists/{artistID}/ [get]
func (app *application) getArtistHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	artistID, err := strconv.ParseInt(chi.URLParam(r, "artistID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid artist ID"))
		return
	}

	artist, err := app.store.Artists.GetByID(r.Context(), user.OrgID, artistID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, artist); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateArtistPayload struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Genre    *string `json:"genre,omitempty" validate:"omitempty,max=100"`
	HomeCity *string `json:"home_city,omitempty" validate:"omitempty,max=100"`
	Bio      *string `json:"bio,omitempty"`
	DrawSize *int    `json:"draw_size,omitempty" validate:"omitempty,gt=0"`
}

// updateArtistHandler godoc
//
//	@Summary	Update artist information
//	@Tags		artists
//	@Accept		json
//	@Produce	json
//	@Param		artistID	path		int					true	"Artist ID"
//	@Param		payload		body		UpdateArtistPayload	true	"Fields to update"
//	@Success	204			{string}	string				"No Content"
//	@Failure	400			{object}	ErrorBadRequestResponse
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/artists/{artistID}/ [patch]
func (app *application) updateArtistHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	artistID, err := strconv.ParseInt(chi.URLParam(r, "artistID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid artist ID"))
		return
	}

	var payload UpdateArtistPayload
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
	if payload.Genre != nil {
		updateData["genre"] = *payload.Genre
	}
	if payload.HomeCity != nil {
		updateData["home_city"] = *payload.HomeCity
	}
	if payload.Bio != nil {
		updateData["bio"] = *payload.Bio
	}
	if payload.DrawSize != nil {
		updateData["draw_size"] = *payload.DrawSize
	}

	if len(updateData) == 0 {
		app.badRequestResponse(w, r, errors.New("no fields to update"))
		return
	}

	if err := app.store.Artists.Update(r.Context(), user.OrgID, artistID, updateData); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logActivity(r, "updated", "artist", artistID, "")

	w.WriteHeader(http.StatusNoContent)
}

// deleteArtistHandler godoc
//
//	@Summary	Delete an artist
//	@Tags		artists
//	@Param		artistID	path		int		true	"Artist ID"
//	@Success	204			{string}	string	"No Content"
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/artists/{artistID}/ [delete]
func (app *application) deleteArtistHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	artistID, err := strconv.ParseInt(chi.URLParam(r, "artistID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid artist ID"))
		return
	}

	if err := app.store.Artists.Delete(r.Context(), user.OrgID, artistID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logActivity(r, "deleted", "artist", artistID, "")

	w.WriteHeader(http.StatusNoContent)
}

// uploadArtistImageHandler godoc
//
//	@Summary		Upload an artist image
//	@Description	Uploads a press photo to Cloudinary and saves its URL
//	@Tags			artists
//	@Accept			mpfd
//	@Produce		json
//	@Param			artistID	path		int		true	"Artist ID"
//	@Param			image		formData	file	true	"Image file, size limit is 5MB"
//	@Success		200			{object}	map[string]string
//	@Failure		400			{object}	error
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/artists/{artistID}/image [post]
func (app *application) uploadArtistImageHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	artistID, err := strconv.ParseInt(chi.URLParam(r, "artistID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid artist ID"))
		return
	}

	if _, err := app.store.Artists.GetByID(r.Context(), user.OrgID, artistID); err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(5 << 20); err != nil { // 5 MB
		http.Error(w, "Unable to parse form, file size limit is 5MB", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Unable to retrieve file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	publicID := fmt.Sprintf("artist_%d_image_%d", artistID, time.Now().UnixNano())
	imageURL, err := app.uploadToCloudinaryWithID(file, "artists", publicID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Artists.SetImageURL(r.Context(), artistID, imageURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"image_url": imageURL}); err != nil {
		app.internalServerError(w, r, err)
	}
}
