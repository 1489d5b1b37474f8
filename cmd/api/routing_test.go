package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"tourline/internal/routing"
	"tourline/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubVenuesStore struct {
	venues []store.Venue
}

func (s *stubVenuesStore) Create(context.Context, *store.Venue) error { return nil }
func (s *stubVenuesStore) GetByID(context.Context, int64, int64) (*store.Venue, error) {
	return nil, store.ErrNotFound
}
func (s *stubVenuesStore) List(context.Context, store.VenueFilter) ([]store.Venue, error) {
	return s.venues, nil
}
func (s *stubVenuesStore) Update(context.Context, int64, int64, map[string]interface{}) error {
	return nil
}
func (s *stubVenuesStore) Delete(context.Context, int64, int64) error          { return nil }
func (s *stubVenuesStore) AddPhotoURL(context.Context, int64, string) error    { return nil }
func (s *stubVenuesStore) RemovePhotoURL(context.Context, int64, string) error { return nil }

type stubActivityStore struct{}

func (s *stubActivityStore) Log(context.Context, *store.Activity) error { return nil }
func (s *stubActivityStore) ListByOrg(context.Context, int64, int) ([]store.Activity, error) {
	return nil, nil
}

func planRouteRequest(t *testing.T, app *application, payload string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/tours/1/route-plan", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("tourID", "1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, userCtx, &store.User{ID: 1, OrgID: 1})

	rr := httptest.NewRecorder()
	app.planRouteHandler(rr, req.WithContext(ctx))
	return rr
}

func TestPlanRouteHandler(t *testing.T) {
	newApp := func(venues []store.Venue) *application {
		return &application{
			logger: zap.NewNop().Sugar(),
			store: store.Storage{
				Venues:   &stubVenuesStore{venues: venues},
				Activity: &stubActivityStore{},
			},
		}
	}

	lat1, lng1 := 39.7392, -104.9903
	lat2, lng2 := 38.8339, -104.8214
	venues := []store.Venue{
		{ID: 1, OrgID: 1, Name: "Mission Ballroom", State: "CO", Latitude: &lat1, Longitude: &lng1},
		{ID: 2, OrgID: 1, Name: "Broadmoor World Arena", State: "CO", Latitude: &lat2, Longitude: &lng2},
	}

	t.Run("books a distinct venue per date", func(t *testing.T) {
		rr := planRouteRequest(t, newApp(venues),
			`{"start":"2026-06-01T00:00:00Z","end":"2026-06-02T00:00:00Z"}`)
		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Data []routing.Stop `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body.Data, 2)
		assert.NotEqual(t, body.Data[0].VenueID, body.Data[1].VenueID)
		assert.Contains(t, body.Data[0].Notes, "Tour opener")
		assert.Contains(t, body.Data[1].Notes, "Tour closer")
	})

	t.Run("window of nothing but off-days is unprocessable", func(t *testing.T) {
		// 2026-06-01 is a Monday.
		rr := planRouteRequest(t, newApp(venues),
			`{"start":"2026-06-01T00:00:00Z","end":"2026-06-02T00:00:00Z","off_days":["monday","tuesday"]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("org without venues is unprocessable", func(t *testing.T) {
		rr := planRouteRequest(t, newApp(nil),
			`{"start":"2026-06-01T00:00:00Z","end":"2026-06-02T00:00:00Z"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("misspelled off-day is a bad request", func(t *testing.T) {
		rr := planRouteRequest(t, newApp(venues),
			`{"start":"2026-06-01T00:00:00Z","end":"2026-06-02T00:00:00Z","off_days":["mondays"]}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRoutingVenueConversion(t *testing.T) {
	lat, lng := 39.7392, -104.9903
	capacity := 2500

	v := &store.Venue{
		ID:        3,
		Name:      "Mission Ballroom",
		State:     "CO",
		Latitude:  &lat,
		Longitude: &lng,
		Capacity:  &capacity,
		Outdoor:   true,
		Climate: map[int]store.Climate{
			6: {AvgHighC: 29, PrecipDays: 9},
		},
	}

	rv := routingVenue(v)

	assert.Equal(t, int64(3), rv.ID)
	assert.Equal(t, "CO", rv.State)
	assert.True(t, rv.Outdoor)
	require.NotNil(t, rv.Lat)
	assert.Equal(t, lat, *rv.Lat)
	require.Contains(t, rv.Climate, time.June)
	assert.Equal(t, 29.0, rv.Climate[time.June].AvgHighC)
}

func TestRoutingVenueWithoutClimate(t *testing.T) {
	rv := routingVenue(&store.Venue{ID: 1, Name: "Bluebird", State: "CO"})
	assert.Nil(t, rv.Climate)
	assert.Nil(t, rv.Lat)
	assert.Nil(t, rv.Capacity)
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"CO", "UT"}, splitCSV("CO, UT"))
	assert.Equal(t, []string{"CO"}, splitCSV("CO,"))
	assert.Empty(t, splitCSV(""))
}
