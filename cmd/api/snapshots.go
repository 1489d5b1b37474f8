package main

import (
	"net/http"
	"time"
	"tourline/internal/store"
)

type CreateSnapshotPayload struct {
	CapturedAt       *time.Time `json:"captured_at,omitempty"`
	TicketsSold      int        `json:"tickets_sold" validate:"gte=0"`
	TicketsAvailable int        `json:"tickets_available" validate:"gte=0"`
	GrossSales       float64    `json:"gross_sales" validate:"gte=0"`
}

// createSnapshotHandler godoc
//
//	@Summary		Record a ticket count snapshot
//	@Description	Appends a point-in-time ticket count for a show. Snapshots are append-only; pacing math reads from them.
//	@Tags			snapshots
//	@Accept			json
//	@Produce		json
//	@Param			showID	path		int						true	"Show ID"
//	@Param			payload	body		CreateSnapshotPayload	true	"Snapshot data"
//	@Success		201		{object}	store.TicketSnapshot
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/shows/{showID}/snapshots [post]
func (app *application) createSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	show, ok := app.showFromRequest(w, r)
	if !ok {
		return
	}

	var payload CreateSnapshotPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	capturedAt := time.Now().UTC()
	if payload.CapturedAt != nil {
		capturedAt = *payload.CapturedAt
	}

	snapshot := &store.TicketSnapshot{
		ShowID:           show.ID,
		CapturedAt:       capturedAt,
		TicketsSold:      payload.TicketsSold,
		TicketsAvailable: payload.TicketsAvailable,
		GrossSales:       payload.GrossSales,
	}

	if err := app.store.Snapshots.Create(r.Context(), snapshot); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, snapshot); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listSnapshotsHandler godoc
//
//	@Summary	List a show's snapshots in capture order
//	@Tags		snapshots
//	@Produce	json
//	@Param		showID	path		int	true	"Show ID"
//	@Success	200		{array}		store.TicketSnapshot
//	@Failure	404		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/shows/{showID}/snapshots [get]
func (app *application) listSnapshotsHandler(w http.ResponseWriter, r *http.Request) {
	show, ok := app.showFromRequest(w, r)
	if !ok {
		return
	}

	snapshots, err := app.store.Snapshots.ListByShow(r.Context(), show.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, snapshots); err != nil {
		app.internalServerError(w, r, err)
	}
}
