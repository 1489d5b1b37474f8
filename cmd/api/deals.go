package main

import (
	"errors"
	"math"
	"net/http"
	"time"
	"tourline/internal/store"
)

type UpsertDealPayload struct {
	Guarantee        float64 `json:"guarantee" validate:"gte=0"`
	SplitPct         float64 `json:"split_pct" validate:"gte=0,lte=100"`
	ExpensesEstimate float64 `json:"expenses_estimate" validate:"gte=0"`
	Terms            *string `json:"terms,omitempty"`
}

// upsertDealHandler godoc
//
//	@Summary		Set a show's deal terms
//	@Description	Writes the guarantee, door split and expense estimate for a show; replaces previous terms
//	@Tags			deals
//	@Accept			json
//	@Produce		json
//	@Param			showID	path		int					true	"Show ID"
//	@Param			payload	body		UpsertDealPayload	true	"Deal terms"
//	@Success		200		{object}	store.Deal
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/shows/{showID}/deal [put]
func (app *application) upsertDealHandler(w http.ResponseWriter, r *http.Request) {
	show, ok := app.showFromRequest(w, r)
	if !ok {
		return
	}

	var payload UpsertDealPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	deal := &store.Deal{
		ShowID:           show.ID,
		Guarantee:        payload.Guarantee,
		SplitPct:         payload.SplitPct,
		ExpensesEstimate: payload.ExpensesEstimate,
		Terms:            payload.Terms,
	}

	if err := app.store.Deals.Upsert(r.Context(), deal); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logActivity(r, "updated", "deal", show.ID, "")

	if err := app.jsonResponse(w, http.StatusOK, deal); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getDealHandler godoc
//
//	@Summary	Get a show's deal terms
//	@Tags		deals
//	@Produce	json
//	@Param		showID	path		int	true	"Show ID"
//	@Success	200		{object}	store.Deal
//	@Failure	404		{object}	error
//	@Security	ApiKeyAuth
//	@Router		/shows/{showID}/deal [get]
func (app *application) getDealHandler(w http.ResponseWriter, r *http.Request) {
	show, ok := app.showFromRequest(w, r)
	if !ok {
		return
	}

	deal, err := app.store.Deals.GetByShow(r.Context(), show.ID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, deal); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateSettlementPayload struct {
	GrossSales *float64 `json:"gross_sales,omitempty" validate:"omitempty,gte=0"`
	Expenses   *float64 `json:"expenses,omitempty" validate:"omitempty,gte=0"`
}

// createSettlementHandler godoc
//
//	@Summary		Settle a show
//	@Description	Computes the artist payout as the greater of the guarantee and the door split, marks the show settled. Gross defaults to the latest snapshot; expenses default to the deal estimate.
//	@Tags			deals
//	@Accept			json
//	@Produce		json
//	@Param			showID	path		int							true	"Show ID"
//	@Param			payload	body		CreateSettlementPayload		true	"Overrides (both optional)"
//	@Success		201		{object}	store.Settlement
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"Show or deal not found"
//	@Failure		422		{object}	error	"Show is not confirmed"
//	@Security		ApiKeyAuth
//	@Router			/shows/{showID}/settlement [post]
func (app *application) createSettlementHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	show, ok := app.showFromRequest(w, r)
	if !ok {
		return
	}

	if show.Status != store.ShowStatusConfirmed {
		app.unprocessableEntityResponse(w, r, errors.New("only confirmed shows can be settled"))
		return
	}

	var payload CreateSettlementPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	deal, err := app.store.Deals.GetByShow(r.Context(), show.ID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, errors.New("no deal terms on file for this show"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	var gross float64
	if payload.GrossSales != nil {
		gross = *payload.GrossSales
	} else {
		latest, err := app.store.Snapshots.LatestByShow(r.Context(), show.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				app.badRequestResponse(w, r, errors.New("no snapshots on file; provide gross_sales"))
			} else {
				app.internalServerError(w, r, err)
			}
			return
		}
		gross = latest.GrossSales
	}

	expenses := deal.ExpensesEstimate
	if payload.Expenses != nil {
		expenses = *payload.Expenses
	}

	// Artist gets the better of the guarantee and their cut of the door.
	split := gross * deal.SplitPct / 100
	artistPayout := math.Max(deal.Guarantee, split)
	promoterNet := gross - expenses - artistPayout

	settlement := &store.Settlement{
		ShowID:       show.ID,
		GrossSales:   gross,
		Expenses:     expenses,
		ArtistPayout: artistPayout,
		PromoterNet:  promoterNet,
		SettledAt:    time.Now().UTC(),
	}

	if err := app.store.Deals.CreateSettlement(r.Context(), settlement); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			app.conflictResponse(w, r, errors.New("show is already settled"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.store.Shows.UpdateStatus(r.Context(), user.OrgID, show.ID, store.ShowStatusSettled); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logActivity(r, "settled", "show", show.ID, "")

	if err := app.jsonResponse(w, http.StatusCreated, settlement); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listSettlementsHandler godoc
//
//	@Summary	List a tour's settlements
//	@Tags		deals
//	@Produce	json
//	@Param		tourID	path		int	true	"Tour ID"
//	@Success	200		{array}		store.SettlementRow
//	@Failure	500		{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/tours/{tourID}/settlements [get]
func (app *application) listSettlementsHandler(w http.ResponseWriter, r *http.Request) {
	tourID := tourIDFromURL(r)

	rows, err := app.store.Deals.ListSettlementsByTour(r.Context(), tourID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, rows); err != nil {
		app.internalServerError(w, r, err)
	}
}
