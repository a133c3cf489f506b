package service_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homiapp/planner-api/internal/domain"
	"github.com/homiapp/planner-api/internal/service"
	"github.com/homiapp/planner-api/internal/store"
)

func exportFixture(t *testing.T) (*service.ExportService, domain.Trip) {
	t.Helper()
	s := store.New(nil)
	trips := service.NewTripService(s, nil)
	acts := service.NewActivityService(s)

	trip, err := trips.Create("Summer in Paris", "Paris, France", date(2024, 6, 1), date(2024, 6, 2), nil)
	require.NoError(t, err)

	lunch := louvreInput()
	lunch.Title = "Lunch"
	lunch.Time = "14:00"
	lunch.Memo = ""
	_, err = acts.Add(trip.ID, date(2024, 6, 1), lunch)
	require.NoError(t, err)

	_, err = acts.Add(trip.ID, date(2024, 6, 1), louvreInput())
	require.NoError(t, err)

	dayTwo := louvreInput()
	dayTwo.Title = "Versailles"
	dayTwo.Time = "08:30"
	_, err = acts.Add(trip.ID, date(2024, 6, 2), dayTwo)
	require.NoError(t, err)

	return service.NewExportService(s), trip
}

func TestExportService_Rows_SortedWithinDays(t *testing.T) {
	exp, trip := exportFixture(t)

	rows, err := exp.Rows(trip.ID)

	require.NoError(t, err)
	require.Len(t, rows, 3)
	// Day 1 in time order, then day 2.
	assert.Equal(t, "Louvre", rows[0].ActivityTitle)
	assert.Equal(t, "09:00", rows[0].Time)
	assert.Equal(t, "Lunch", rows[1].ActivityTitle)
	assert.Equal(t, "Versailles", rows[2].ActivityTitle)
	assert.Equal(t, "2024-06-02", rows[2].Date)

	for _, r := range rows {
		assert.Equal(t, trip.ID.String(), r.TripID)
		assert.Equal(t, "Summer in Paris", r.TripTitle)
	}
}

func TestExportService_Rows_EmptyTrip(t *testing.T) {
	s := store.New(nil)
	trips := service.NewTripService(s, nil)
	trip, err := trips.Create("Quiet", "Nowhere", date(2024, 6, 1), date(2024, 6, 3), nil)
	require.NoError(t, err)

	rows, err := service.NewExportService(s).Rows(trip.ID)

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExportService_Rows_UnknownTrip(t *testing.T) {
	exp, _ := exportFixture(t)

	_, err := exp.Rows(uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportService_ICal(t *testing.T) {
	exp, trip := exportFixture(t)

	out, err := exp.ICal(trip.ID)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	// One VEVENT per activity.
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "SUMMARY:Louvre")
	assert.Contains(t, out, "LOCATION:Louvre Museum")
	// 09:00 on the first day, exported as UTC.
	assert.Contains(t, out, "DTSTART:20240601T090000Z")
	assert.Contains(t, out, "X-WR-CALNAME:Summer in Paris")
}

func TestExportService_ICal_UnknownTrip(t *testing.T) {
	exp, _ := exportFixture(t)

	_, err := exp.ICal(uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
