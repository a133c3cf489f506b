package service

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/homiapp/planner-api/internal/domain"
	"github.com/homiapp/planner-api/internal/store"
)

// defaultEventLength is the calendar duration given to exported activities;
// the planner stores a start time only.
const defaultEventLength = time.Hour

// ExportService assembles flat and iCalendar exports of a trip's itinerary.
type ExportService struct {
	store *store.TripStore
}

// NewExportService constructs an ExportService backed by the provided store.
func NewExportService(s *store.TripStore) *ExportService {
	return &ExportService{store: s}
}

// Rows returns one ExportRow per activity across all days of the trip, days
// in calendar order and activities in time-sorted order within each day.
// Always a non-nil slice.
func (s *ExportService) Rows(tripID uuid.UUID) ([]domain.ExportRow, error) {
	trip, err := s.store.TripByID(tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, day := range trip.Itinerary {
		sorted, err := s.store.Day(tripID, day.Date)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
		}
		for _, item := range sorted.Items {
			rows = append(rows, domain.ExportRow{
				TripID:        trip.ID.String(),
				TripTitle:     trip.Title,
				Destination:   trip.Destination,
				Date:          day.Date.Format(time.DateOnly),
				Time:          item.Time,
				ActivityTitle: item.Title,
				LocationName:  item.LocationName,
				ActivityType:  string(item.Type),
				Memo:          item.Memo,
				Lat:           item.Position.Lat,
				Lng:           item.Position.Lng,
				PhotoCount:    len(item.Photos),
			})
		}
	}
	return rows, nil
}

// ICal renders the trip's itinerary as an iCalendar document: one VEVENT per
// activity, starting at the activity's day and clock time with a one-hour
// default duration.
func (s *ExportService) ICal(tripID uuid.UUID) (string, error) {
	trip, err := s.store.TripByID(tripID)
	if err != nil {
		return "", fmt.Errorf("service.ExportService.ICal: %w", err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(trip.Title)

	for _, day := range trip.Itinerary {
		for _, item := range day.Items {
			start, err := eventStart(day.Date, item.Time)
			if err != nil {
				return "", fmt.Errorf("service.ExportService.ICal: activity %s: %w", item.ID, err)
			}

			ev := cal.AddEvent(item.ID.String())
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(defaultEventLength))
			ev.SetSummary(item.Title)
			ev.SetLocation(item.LocationName)
			if item.Memo != "" {
				ev.SetDescription(item.Memo)
			}
		}
	}

	return cal.Serialize(), nil
}

// eventStart combines a day-bucket date with an "HH:MM" clock time.
func eventStart(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
