package main

import (
	"fmt"
	"net/http"
	"time"
	"tourline/internal/export"
	"tourline/internal/store"
)

// exportSettlementCSVHandler godoc
//
//	@Summary		Download a tour settlement sheet
//	@Description	Streams the tour's settled shows as CSV with a totals row
//	@Tags			exports
//	@Produce		text/csv
//	@Param			tourID	path		int	true	"Tour ID"
//	@Success		200		{string}	string	"CSV content"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/tours/{tourID}/exports/settlements.csv [get]
func (app *application) exportSettlementCSVHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	tourID := tourIDFromURL(r)

	tour, err := app.store.Tours.GetByID(r.Context(), user.OrgID, tourID)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	rows, err := app.store.Deals.ListSettlementsByTour(r.Context(), tourID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="settlements_%d.csv"`, tourID))

	if err := export.WriteSettlementCSV(w, tour.Name, rows); err != nil {
		app.logger.Errorw("error writing settlement csv", "error", err, "tour_id", tourID)
	}
}

// exportCalendarHandler godoc
//
//	@Summary		Download the tour calendar
//	@Description	Streams the tour's confirmed and settled shows as an iCalendar feed
//	@Tags			exports
//	@Produce		text/calendar
//	@Param			tourID	path		int	true	"Tour ID"
//	@Success		200		{string}	string	"iCalendar content"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/tours/{tourID}/exports/calendar.ics [get]
func (app *application) exportCalendarHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	tourID := tourIDFromURL(r)

	tour, err := app.store.Tours.GetByID(r.Context(), user.OrgID, tourID)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	shows, err := app.store.Shows.ListByTour(r.Context(), tourID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	var events []export.CalendarEvent
	for _, show := range shows {
		if show.Status != store.ShowStatusConfirmed && show.Status != store.ShowStatusSettled {
			continue
		}

		venue, err := app.store.Venues.GetByID(r.Context(), user.OrgID, show.VenueID)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}

		event := export.CalendarEvent{
			UID:      export.EventUID(show.ID),
			Summary:  fmt.Sprintf("%s - %s", tour.Name, venue.Name),
			Location: fmt.Sprintf("%s, %s", venue.City, venue.State),
			Date:     show.Date,
		}
		if show.Notes != nil {
			event.Notes = *show.Notes
		}
		events = append(events, event)
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="tour_%d.ics"`, tourID))

	if err := export.WriteICal(w, tour.Name, events, time.Now().UTC()); err != nil {
		app.logger.Errorw("error writing tour calendar", "error", err, "tour_id", tourID)
	}
}
