package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"tourline/internal/pacing"
	"tourline/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubShowsStore struct {
	show *store.Show
}

func (s *stubShowsStore) Create(context.Context, *store.Show) error { return nil }
func (s *stubShowsStore) GetByID(ctx context.Context, orgID, showID int64) (*store.Show, error) {
	if s.show == nil || s.show.ID != showID {
		return nil, store.ErrNotFound
	}
	return s.show, nil
}
func (s *stubShowsStore) ListByTour(context.Context, int64) ([]store.Show, error) { return nil, nil }
func (s *stubShowsStore) ListByDateRange(context.Context, int64, time.Time, time.Time) ([]store.Show, error) {
	return nil, nil
}
func (s *stubShowsStore) UpdateStatus(context.Context, int64, int64, string) error { return nil }
func (s *stubShowsStore) Update(context.Context, int64, int64, map[string]interface{}) error {
	return nil
}
func (s *stubShowsStore) Delete(context.Context, int64, int64) error { return nil }

type stubSnapshotsStore struct {
	latest *store.TicketSnapshot
	all    []store.TicketSnapshot
}

func (s *stubSnapshotsStore) Create(context.Context, *store.TicketSnapshot) error { return nil }
func (s *stubSnapshotsStore) ListByShow(context.Context, int64) ([]store.TicketSnapshot, error) {
	return s.all, nil
}
func (s *stubSnapshotsStore) LatestByShow(context.Context, int64) (*store.TicketSnapshot, error) {
	if s.latest == nil {
		return nil, store.ErrNotFound
	}
	return s.latest, nil
}

func newTestApp(shows *stubShowsStore, snaps *stubSnapshotsStore) *application {
	return &application{
		logger: zap.NewNop().Sugar(),
		store: store.Storage{
			Shows:     shows,
			Snapshots: snaps,
		},
	}
}

func riskRequest(t *testing.T, app *application, showID string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/v1/shows/"+showID+"/risk", nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("showID", showID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, userCtx, &store.User{ID: 1, OrgID: 1})

	rr := httptest.NewRecorder()
	app.showRiskHandler(rr, req.WithContext(ctx))
	return rr
}

func TestShowRiskHandler(t *testing.T) {
	capacity := 1000

	t.Run("flags a slow seller close to the date", func(t *testing.T) {
		shows := &stubShowsStore{show: &store.Show{
			ID:       42,
			OrgID:    1,
			Date:     time.Now().UTC().Add(5 * 24 * time.Hour),
			Capacity: &capacity,
		}}
		snaps := &stubSnapshotsStore{latest: &store.TicketSnapshot{
			ShowID:      42,
			CapturedAt:  time.Now().UTC(),
			TicketsSold: 200,
		}}

		rr := riskRequest(t, newTestApp(shows, snaps), "42")
		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Data struct {
				RiskLevel string  `json:"risk_level"`
				RiskScore float64 `json:"risk_score"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "AT_RISK", body.Data.RiskLevel)
		assert.Greater(t, body.Data.RiskScore, 80.0)
	})

	t.Run("zero sales far out gets an early warning", func(t *testing.T) {
		shows := &stubShowsStore{show: &store.Show{
			ID:       42,
			OrgID:    1,
			Date:     time.Now().UTC().Add(60 * 24 * time.Hour),
			Capacity: &capacity,
		}}

		rr := riskRequest(t, newTestApp(shows, &stubSnapshotsStore{}), "42")
		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Data struct {
				RiskLevel string `json:"risk_level"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "NEEDS_ATTENTION", body.Data.RiskLevel)
	})

	t.Run("unknown show returns 404", func(t *testing.T) {
		rr := riskRequest(t, newTestApp(&stubShowsStore{}, &stubSnapshotsStore{}), "7")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("bad show id returns 400", func(t *testing.T) {
		rr := riskRequest(t, newTestApp(&stubShowsStore{}, &stubSnapshotsStore{}), "abc")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestPreviousRiskLevel(t *testing.T) {
	capacity := 1000
	showDate := time.Date(2026, 7, 10, 20, 0, 0, 0, time.UTC)
	show := pacing.Show{Date: showDate, Capacity: &capacity}

	t.Run("empty without two snapshots", func(t *testing.T) {
		assert.Empty(t, previousRiskLevel(show, nil))
		assert.Empty(t, previousRiskLevel(show, []store.TicketSnapshot{
			{CapturedAt: showDate.AddDate(0, 0, -1), TicketsSold: 100},
		}))
	})

	t.Run("reports the level as of the prior capture", func(t *testing.T) {
		snaps := []store.TicketSnapshot{
			{CapturedAt: showDate.AddDate(0, 0, -5), TicketsSold: 200},
			{CapturedAt: showDate.AddDate(0, 0, -1), TicketsSold: 250},
		}
		assert.Equal(t, "AT_RISK", previousRiskLevel(show, snaps))
	})
}
