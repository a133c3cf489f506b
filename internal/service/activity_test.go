package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homiapp/planner-api/internal/domain"
	"github.com/homiapp/planner-api/internal/service"
	"github.com/homiapp/planner-api/internal/store"
)

// newServices builds an isolated store with one three-day trip.
func newServices(t *testing.T) (*service.TripService, *service.ActivityService, domain.Trip) {
	t.Helper()
	s := store.New(nil)
	trips := service.NewTripService(s, nil)
	acts := service.NewActivityService(s)

	trip, err := trips.Create("Summer in Paris", "Paris, France", date(2024, 6, 1), date(2024, 6, 3), nil)
	require.NoError(t, err)
	return trips, acts, trip
}

func louvreInput() service.ActivityInput {
	return service.ActivityInput{
		Time:         "09:00",
		Title:        "Louvre",
		LocationName: "Louvre Museum",
		Memo:         "buy tickets online",
		Type:         domain.ActivitySightseeing,
		Position:     domain.GeoPosition{Lat: 48.8606, Lng: 2.3376},
	}
}

func TestActivityService_Add(t *testing.T) {
	_, acts, trip := newServices(t)

	item, err := acts.Add(trip.ID, date(2024, 6, 1), louvreInput())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.NotNil(t, item.Photos)

	day, err := acts.Day(trip.ID, date(2024, 6, 1))
	require.NoError(t, err)
	require.Len(t, day.Items, 1)
	assert.Equal(t, "Louvre", day.Items[0].Title)
}

func TestActivityService_Add_DefaultsTypeToOther(t *testing.T) {
	_, acts, trip := newServices(t)
	input := louvreInput()
	input.Type = ""

	item, err := acts.Add(trip.ID, date(2024, 6, 1), input)

	require.NoError(t, err)
	assert.Equal(t, domain.ActivityOther, item.Type)
}

func TestActivityService_Add_InvalidTime(t *testing.T) {
	_, acts, trip := newServices(t)

	for _, bad := range []string{"", "9:00", "24:00", "12:60", "noonish"} {
		input := louvreInput()
		input.Time = bad

		_, err := acts.Add(trip.ID, date(2024, 6, 1), input)

		assert.ErrorIs(t, err, domain.ErrValidation, "time %q", bad)
	}
}

func TestActivityService_Add_UnknownType(t *testing.T) {
	_, acts, trip := newServices(t)
	input := louvreInput()
	input.Type = "parachuting"

	_, err := acts.Add(trip.ID, date(2024, 6, 1), input)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestActivityService_Add_MissingTitle(t *testing.T) {
	_, acts, trip := newServices(t)
	input := louvreInput()
	input.Title = " "

	_, err := acts.Add(trip.ID, date(2024, 6, 1), input)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestActivityService_Add_DayOutsideRange(t *testing.T) {
	_, acts, trip := newServices(t)

	_, err := acts.Add(trip.ID, date(2024, 6, 9), louvreInput())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActivityService_SortedDayScenario(t *testing.T) {
	_, acts, trip := newServices(t)

	louvre, err := acts.Add(trip.ID, date(2024, 6, 1), louvreInput())
	require.NoError(t, err)

	lunch := louvreInput()
	lunch.Title = "Lunch"
	lunch.Time = "14:00"
	_, err = acts.Add(trip.ID, date(2024, 6, 1), lunch)
	require.NoError(t, err)

	day, err := acts.Day(trip.ID, date(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, "Louvre", day.Items[0].Title)
	assert.Equal(t, "Lunch", day.Items[1].Title)

	// Deleting Louvre leaves [Lunch] and the other days untouched.
	require.NoError(t, acts.Delete(trip.ID, louvre.ID))

	day, err = acts.Day(trip.ID, date(2024, 6, 1))
	require.NoError(t, err)
	require.Len(t, day.Items, 1)
	assert.Equal(t, "Lunch", day.Items[0].Title)

	for _, d := range []int{2, 3} {
		other, err := acts.Day(trip.ID, date(2024, 6, d))
		require.NoError(t, err)
		assert.Empty(t, other.Items)
	}
}

func TestActivityService_Update_PatchValidation(t *testing.T) {
	_, acts, trip := newServices(t)
	item, err := acts.Add(trip.ID, date(2024, 6, 1), louvreInput())
	require.NoError(t, err)

	bad := "25:00"
	_, err = acts.Update(trip.ID, item.ID, domain.ActivityPatch{Time: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	empty := ""
	_, err = acts.Update(trip.ID, item.ID, domain.ActivityPatch{Title: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)

	badType := domain.ActivityType("swimming with sharks")
	_, err = acts.Update(trip.ID, item.ID, domain.ActivityPatch{Type: &badType})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestActivityService_Update_AppliesPatch(t *testing.T) {
	_, acts, trip := newServices(t)
	item, err := acts.Add(trip.ID, date(2024, 6, 2), louvreInput())
	require.NoError(t, err)

	newTime := "10:30"
	newType := domain.ActivityDining
	got, err := acts.Update(trip.ID, item.ID, domain.ActivityPatch{Time: &newTime, Type: &newType})

	require.NoError(t, err)
	assert.Equal(t, "10:30", got.Time)
	assert.Equal(t, domain.ActivityDining, got.Type)
	assert.Equal(t, "Louvre", got.Title)
}

func TestActivityService_Update_NotFound(t *testing.T) {
	_, acts, trip := newServices(t)

	title := "x"
	_, err := acts.Update(trip.ID, uuid.New(), domain.ActivityPatch{Title: &title})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActivityService_Delete_NotFound(t *testing.T) {
	_, acts, trip := newServices(t)

	err := acts.Delete(trip.ID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActivityService_Markers(t *testing.T) {
	_, acts, trip := newServices(t)
	item, err := acts.Add(trip.ID, date(2024, 6, 1), louvreInput())
	require.NoError(t, err)

	markers, err := acts.Markers(trip.ID, date(2024, 6, 1))

	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, item.ID, markers[0].ID)
	assert.Equal(t, "Louvre", markers[0].Title)
	assert.InDelta(t, 48.8606, markers[0].Position.Lat, 1e-9)
}
