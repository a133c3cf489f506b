package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homiapp/planner-api/internal/domain"
	"github.com/homiapp/planner-api/internal/handler"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create    func(title, destination string, start, end time.Time, bounds *domain.GeoBounds) (domain.Trip, error)
	list      func() []domain.Trip
	get       func(id uuid.UUID) (domain.Trip, error)
	setActive func(id uuid.UUID)
	active    func() (domain.Trip, bool)
	countdown func(id uuid.UUID) (domain.Countdown, error)
}

func (m *mockTripServicer) Create(title, destination string, start, end time.Time, bounds *domain.GeoBounds) (domain.Trip, error) {
	return m.create(title, destination, start, end, bounds)
}
func (m *mockTripServicer) List() []domain.Trip { return m.list() }
func (m *mockTripServicer) Get(id uuid.UUID) (domain.Trip, error) {
	return m.get(id)
}
func (m *mockTripServicer) SetActive(id uuid.UUID) { m.setActive(id) }
func (m *mockTripServicer) Active() (domain.Trip, bool) {
	return m.active()
}
func (m *mockTripServicer) Countdown(id uuid.UUID) (domain.Countdown, error) {
	if m.countdown == nil {
		return domain.Countdown{}, domain.ErrNotFound
	}
	return m.countdown(id)
}

// compile-time check: mockTripServicer must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTripServicer)(nil)

func TestCreateTrip_201(t *testing.T) {
	fixture := tripFixture()
	var gotStart time.Time
	svc := &mockTripServicer{
		create: func(_, _ string, start, _ time.Time, _ *domain.GeoBounds) (domain.Trip, error) {
			gotStart = start
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"title":       "Summer in Paris",
		"destination": "Paris, France",
		"start_date":  "2024-06-01",
		"end_date":    "2024-06-03",
	})
	rec := doJSON(newHTTPHandler(svc, nil, nil, nil, nil, nil), http.MethodPost, "/trips", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), gotStart)

	var resp struct {
		ID        uuid.UUID `json:"id"`
		Title     string    `json:"title"`
		StartDate string    `json:"start_date"`
		Itinerary []struct {
			Date  string `json:"date"`
			Items []any  `json:"items"`
		} `json:"itinerary"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, "Summer in Paris", resp.Title)
	assert.Equal(t, "2024-06-01", resp.StartDate)
	require.Len(t, resp.Itinerary, 3)
	assert.Equal(t, "2024-06-03", resp.Itinerary[2].Date)
	assert.NotNil(t, resp.Itinerary[0].Items)
}

func TestCreateTrip_422_ValidationError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_, _ string, _, _ time.Time, _ *domain.GeoBounds) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
		},
	}

	body := jsonBody(t, map[string]any{"title": "", "destination": "Paris"})
	rec := doJSON(newHTTPHandler(svc, nil, nil, nil, nil, nil), http.MethodPost, "/trips", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestCreateTrip_422_InvalidRange(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_, _ string, _, _ time.Time, _ *domain.GeoBounds) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", domain.ErrInvalidRange)
		},
	}

	body := jsonBody(t, map[string]any{
		"title":       "Trip",
		"destination": "Paris",
		"start_date":  "2024-06-03",
		"end_date":    "2024-06-01",
	})
	rec := doJSON(newHTTPHandler(svc, nil, nil, nil, nil, nil), http.MethodPost, "/trips", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestListTrips_200(t *testing.T) {
	svc := &mockTripServicer{
		list: func() []domain.Trip { return []domain.Trip{tripFixture(), tripFixture()} },
	}

	rec := doJSON(newHTTPHandler(svc, nil, nil, nil, nil, nil), http.MethodGet, "/trips", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 2)
}

func TestGetTrip_200_WithCountdown(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		get: func(id uuid.UUID) (domain.Trip, error) {
			require.Equal(t, fixture.ID, id)
			return fixture, nil
		},
		countdown: func(uuid.UUID) (domain.Countdown, error) {
			return domain.Countdown{DaysLeft: 7}, nil
		},
	}

	rec := doJSON(newHTTPHandler(svc, nil, nil, nil, nil, nil), http.MethodGet, "/trips/"+fixture.ID.String(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Countdown *domain.Countdown `json:"countdown"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Countdown)
	assert.Equal(t, 7, resp.Countdown.DaysLeft)
}

func TestGetTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		get: func(uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", domain.ErrNotFound)
		},
	}

	rec := doJSON(newHTTPHandler(svc, nil, nil, nil, nil, nil), http.MethodGet, "/trips/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}

func TestGetTrip_422_BadID(t *testing.T) {
	rec := doJSON(newHTTPHandler(&mockTripServicer{}, nil, nil, nil, nil, nil), http.MethodGet, "/trips/not-a-uuid", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSetActiveTrip_204(t *testing.T) {
	want := uuid.New()
	var got uuid.UUID
	svc := &mockTripServicer{setActive: func(id uuid.UUID) { got = id }}

	body := jsonBody(t, map[string]any{"trip_id": want})
	rec := doJSON(newHTTPHandler(svc, nil, nil, nil, nil, nil), http.MethodPut, "/active-trip", body)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, want, got)
}

func TestGetActiveTrip_200(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		active: func() (domain.Trip, bool) { return fixture, true },
	}

	rec := doJSON(newHTTPHandler(svc, nil, nil, nil, nil, nil), http.MethodGet, "/active-trip", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
}

func TestGetActiveTrip_404_NoneSelected(t *testing.T) {
	svc := &mockTripServicer{
		active: func() (domain.Trip, bool) { return domain.Trip{}, false },
	}

	rec := doJSON(newHTTPHandler(svc, nil, nil, nil, nil, nil), http.MethodGet, "/active-trip", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}
