// Package service contains the business logic of the planner. Services
// validate inputs, enforce business rules, and orchestrate store calls.
// They operate on the in-memory TripStore directly; there is no database
// to hide behind an interface, and tests get isolation by constructing
// their own store instance.
package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/homiapp/planner-api/internal/domain"
	"github.com/homiapp/planner-api/internal/itinerary"
	"github.com/homiapp/planner-api/internal/store"
)

// TripService implements business logic for trip-level operations.
type TripService struct {
	store *store.TripStore
	now   func() time.Time
}

// NewTripService constructs a TripService backed by the provided store.
// now is the wall-clock source used only for the countdown view; nil falls
// back to time.Now.
func NewTripService(s *store.TripStore, now func() time.Time) *TripService {
	if now == nil {
		now = time.Now
	}
	return &TripService{store: s, now: now}
}

// Create validates the input, expands the itinerary across [start, end], and
// appends the new trip to the store. The trip arrives fully formed: one day
// bucket per calendar day, never partially constructed.
// Returns domain.ErrValidation for missing fields and domain.ErrInvalidRange
// when end is before start. Does not change the active-trip selection.
func (s *TripService) Create(title, destination string, start, end time.Time, bounds *domain.GeoBounds) (domain.Trip, error) {
	if strings.TrimSpace(title) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(destination) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: destination is required", domain.ErrValidation)
	}

	days, err := itinerary.ExpandDays(start, end)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	trip := domain.Trip{
		ID:          uuid.New(),
		Title:       title,
		Destination: destination,
		StartDate:   domain.DateOnly(start),
		EndDate:     domain.DateOnly(end),
		Bounds:      bounds,
		Itinerary:   days,
	}
	s.store.CreateTrip(trip)
	return trip, nil
}

// List returns all trips. Always a non-nil slice.
func (s *TripService) List() []domain.Trip {
	return s.store.Trips()
}

// Get returns a single trip by ID.
// Returns domain.ErrNotFound if no trip with that ID exists.
func (s *TripService) Get(id uuid.UUID) (domain.Trip, error) {
	trip, err := s.store.TripByID(id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trip, nil
}

// SetActive selects the active trip. Unknown IDs are accepted by contract;
// the selection simply stops resolving.
func (s *TripService) SetActive(id uuid.UUID) {
	s.store.SetActiveTrip(id)
}

// Active returns the currently selected trip, ok=false when unresolved.
func (s *TripService) Active() (domain.Trip, bool) {
	return s.store.ActiveTrip()
}

// Countdown returns the days-until-departure view for a trip, measured in
// whole calendar days from today.
func (s *TripService) Countdown(id uuid.UUID) (domain.Countdown, error) {
	trip, err := s.store.TripByID(id)
	if err != nil {
		return domain.Countdown{}, fmt.Errorf("service.TripService.Countdown: %w", err)
	}

	today := domain.DateOnly(s.now())
	days := int(trip.StartDate.Sub(today).Hours() / 24)
	if days < 0 {
		return domain.Countdown{Started: true}, nil
	}
	return domain.Countdown{DaysLeft: days}, nil
}
