package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"
	"tourline/internal/events"
	"tourline/internal/mailer"
	"tourline/internal/notifications"
	"tourline/internal/pacing"
	"tourline/internal/store"
)

func pacingShow(show *store.Show) pacing.Show {
	return pacing.Show{
		Date:        show.Date,
		Capacity:    show.Capacity,
		TicketPrice: show.TicketPrice,
	}
}

func pacingSnapshot(s *store.TicketSnapshot) pacing.Snapshot {
	return pacing.Snapshot{
		CapturedAt:       s.CapturedAt,
		TicketsSold:      s.TicketsSold,
		TicketsAvailable: s.TicketsAvailable,
		GrossSales:       s.GrossSales,
	}
}

func pacingSnapshots(snaps []store.TicketSnapshot) []pacing.Snapshot {
	out := make([]pacing.Snapshot, len(snaps))
	for i := range snaps {
		out[i] = pacingSnapshot(&snaps[i])
	}
	return out
}

// previousRiskLevel re-runs the assessment against the snapshot before the
// latest one, as of its capture time, so risk events carry the transition.
// Empty when the show has fewer than two snapshots.
func previousRiskLevel(show pacing.Show, snaps []store.TicketSnapshot) string {
	if len(snaps) < 2 {
		return ""
	}
	prev := pacingSnapshot(&snaps[len(snaps)-2])
	return string(pacing.AssessRisk(show, &prev, prev.CapturedAt).Level)
}

// showRiskHandler godoc
//
//	@Summary		Assess a show's ticket-pacing risk
//	@Description	Bands the show HEALTHY / NEEDS_ATTENTION / AT_RISK from its latest snapshot and days until the show
//	@Tags			risk
//	@Produce		json
//	@Param			showID	path		int	true	"Show ID"
//	@Success		200		{object}	pacing.Assessment
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/shows/{showID}/risk [get]
func (app *application) showRiskHandler(w http.ResponseWriter, r *http.Request) {
	show, ok := app.showFromRequest(w, r)
	if !ok {
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

	if err := app.jsonResponse(w, http.StatusOK, assessment); err != nil {
		app.internalServerError(w, r, err)
	}
}

// PacingReport bundles the sales curve, velocity and final-sales
// prediction for a show.
type PacingReport struct {
	Curve      []pacing.Point    `json:"curve"`
	Velocity   float64           `json:"velocity_per_day"`
	Prediction pacing.Prediction `json:"prediction"`
}

// showPacingHandler godoc
//
//	@Summary		Show pacing report
//	@Description	Returns the sell-through curve, recent sales velocity and a projected final ticket count
//	@Tags			risk
//	@Produce		json
//	@Param			showID	path		int	true	"Show ID"
//	@Success		200		{object}	PacingReport
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/shows/{showID}/pacing [get]
func (app *application) showPacingHandler(w http.ResponseWriter, r *http.Request) {
	show, ok := app.showFromRequest(w, r)
	if !ok {
		return
	}

	snapshots, err := app.store.Snapshots.ListByShow(r.Context(), show.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	ps := pacingShow(show)
	snaps := pacingSnapshots(snapshots)
	now := time.Now().UTC()

	report := PacingReport{
		Curve:      pacing.Curve(ps, snaps),
		Velocity:   pacing.Velocity(snaps),
		Prediction: pacing.Predict(ps, snaps, now),
	}

	if err := app.jsonResponse(w, http.StatusOK, report); err != nil {
		app.internalServerError(w, r, err)
	}
}

// sendRiskAlertHandler godoc
//
//	@Summary		Fan a risk alert out to the org
//	@Description	Re-assesses the show and, if it is not HEALTHY, pushes an alert to every registered device, emails the caller, and publishes a risk event.
//	@Tags			risk
//	@Produce		json
//	@Param			showID	path		int	true	"Show ID"
//	@Success		200		{object}	pacing.Assessment
//	@Failure		404		{object}	error
//	@Failure		422		{object}	error	"Show is healthy; nothing to alert on"
//	@Security		ApiKeyAuth
//	@Router			/shows/{showID}/risk/alert [post]
func (app *application) sendRiskAlertHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	show, ok := app.showFromRequest(w, r)
	if !ok {
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

	now := time.Now().UTC()
	assessment := pacing.AssessRisk(pacingShow(show), snap, now)

	if assessment.Level == pacing.RiskHealthy {
		app.unprocessableEntityResponse(w, r, errors.New("show is pacing fine, no alert sent"))
		return
	}

	venue, err := app.store.Venues.GetByID(r.Context(), user.OrgID, show.VenueID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	showLabel := fmt.Sprintf("%s, %s", venue.Name, show.Date.Format("Jan 2"))

	// Push to every registered device in the org.
	if err := notifications.SendRiskAlert(r.Context(), app.push, app.store, user.OrgID, show.ID, showLabel, assessment); err != nil {
		app.logger.Errorw("error sending risk alert push", "error", err, "show_id", show.ID)
	}

	// Email the caller a full breakdown.
	vars := struct {
		Username        string
		ShowLabel       string
		Reasoning       string
		Score           float64
		SellThrough     float64
		DaysOut         int
		Recommendations []string
	}{
		Username:        user.FirstName,
		ShowLabel:       showLabel,
		Reasoning:       assessment.Reasoning,
		Score:           assessment.Score,
		SellThrough:     assessment.SellThroughPct,
		DaysOut:         assessment.DaysUntilShow,
		Recommendations: assessment.Recommendations,
	}
	if _, err := app.mailer.Send(mailer.RiskAlertTemplate, user.FirstName, user.Email, vars); err != nil {
		app.logger.Errorw("error sending risk alert email", "error", err, "show_id", show.ID)
	}

	if app.events != nil {
		var prevLevel string
		if snaps, err := app.store.Snapshots.ListByShow(r.Context(), show.ID); err == nil {
			prevLevel = previousRiskLevel(pacingShow(show), snaps)
		}

		key := fmt.Sprintf("show-%d", show.ID)
		err := app.events.SendRisk(r.Context(), key, events.RiskEvent{
			OrgID:          user.OrgID,
			ShowID:         show.ID,
			PreviousLevel:  prevLevel,
			Level:          string(assessment.Level),
			Score:          assessment.Score,
			SellThroughPct: assessment.SellThroughPct,
			DaysUntilShow:  assessment.DaysUntilShow,
			OccurredAt:     now,
		})
		if err != nil {
			app.logger.Errorw("error publishing risk event", "error", err)
		}
	}

	app.logActivity(r, "alerted", "show", show.ID, string(assessment.Level))

	if err := app.jsonResponse(w, http.StatusOK, assessment); err != nil {
		app.internalServerError(w, r, err)
	}
}
