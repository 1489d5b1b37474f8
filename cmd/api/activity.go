package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
	"tourline/internal/events"
	"tourline/internal/store"
)

// logActivity records who did what to the org feed and, when a broker is
// configured, mirrors the entry onto the activity topic. Failures are
// logged and swallowed; the feed never blocks the request.
func (app *application) logActivity(r *http.Request, verb, objectType string, objectID int64, detail string) {
	user := getUserFromContext(r)
	if user == nil {
		return
	}

	entry := &store.Activity{
		OrgID:      user.OrgID,
		UserID:     user.ID,
		Verb:       verb,
		ObjectType: objectType,
		ObjectID:   objectID,
		Detail:     detail,
	}

	if err := app.store.Activity.Log(r.Context(), entry); err != nil {
		app.logger.Errorw("error logging activity", "error", err, "verb", verb, "object_type", objectType)
		return
	}

	if app.events != nil {
		key := fmt.Sprintf("%s-%d", objectType, objectID)
		err := app.events.SendActivity(r.Context(), key, events.ActivityEvent{
			OrgID:      user.OrgID,
			ActorID:    user.ID,
			EntityType: objectType,
			EntityID:   objectID,
			Action:     verb,
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			app.logger.Errorw("error publishing activity event", "error", err)
		}
	}
}

// listActivityHandler godoc
//
//	@Summary		Org activity feed
//	@Description	Lists recent activity in the caller's organization, newest first
//	@Tags			activity
//	@Produce		json
//	@Param			limit	query		int	false	"Max entries (default 50)"
//	@Success		200		{array}		store.Activity
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/activity/ [get]
func (app *application) listActivityHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			app.badRequestResponse(w, r, fmt.Errorf("limit must be between 1 and 500"))
			return
		}
		limit = n
	}

	entries, err := app.store.Activity.ListByOrg(r.Context(), user.OrgID, limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, entries); err != nil {
		app.internalServerError(w, r, err)
	}
}
