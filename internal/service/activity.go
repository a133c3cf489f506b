package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/homiapp/planner-api/internal/domain"
	"github.com/homiapp/planner-api/internal/store"
)

// ActivityService implements business logic for itinerary activities.
type ActivityService struct {
	store *store.TripStore
}

// NewActivityService constructs an ActivityService backed by the provided store.
func NewActivityService(s *store.TripStore) *ActivityService {
	return &ActivityService{store: s}
}

// ActivityInput carries the user-supplied fields for a new activity.
type ActivityInput struct {
	Time         string
	Title        string
	LocationName string
	Memo         string
	Type         domain.ActivityType
	Position     domain.GeoPosition
}

// Add validates the input, assigns an identifier, and appends the activity
// to the given day bucket. An empty type defaults to "other", matching the
// form default.
// Returns domain.ErrValidation for invalid input and domain.ErrNotFound when
// the trip or day does not exist.
func (s *ActivityService) Add(tripID uuid.UUID, dayDate time.Time, input ActivityInput) (domain.Activity, error) {
	if err := validateInput(input); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Add: %w", err)
	}

	activityType := input.Type
	if activityType == "" {
		activityType = domain.ActivityOther
	}

	item := domain.Activity{
		ID:           uuid.New(),
		Time:         input.Time,
		Title:        input.Title,
		LocationName: input.LocationName,
		Memo:         input.Memo,
		Type:         activityType,
		Position:     input.Position,
		Photos:       []string{},
	}

	if err := s.store.AddActivity(tripID, dayDate, item); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Add: %w", err)
	}
	return item, nil
}

// Update applies a partial patch to the activity with the given ID, wherever
// in the trip it lives. Nil patch fields leave the current values in place.
// Returns the updated activity.
func (s *ActivityService) Update(tripID, itemID uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error) {
	if err := validatePatch(patch); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}

	item, err := s.store.UpdateActivity(tripID, itemID, patch)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}
	return item, nil
}

// Delete removes the activity with the given ID from whichever day holds it.
func (s *ActivityService) Delete(tripID, itemID uuid.UUID) error {
	if err := s.store.DeleteActivity(tripID, itemID); err != nil {
		return fmt.Errorf("service.ActivityService.Delete: %w", err)
	}
	return nil
}

// Day returns the time-sorted view of one day bucket.
func (s *ActivityService) Day(tripID uuid.UUID, date time.Time) (domain.ItineraryDay, error) {
	day, err := s.store.Day(tripID, date)
	if err != nil {
		return domain.ItineraryDay{}, fmt.Errorf("service.ActivityService.Day: %w", err)
	}
	return day, nil
}

// Markers returns the map pins for one day, in the sorted view's order.
// Always a non-nil slice.
func (s *ActivityService) Markers(tripID uuid.UUID, date time.Time) ([]domain.Marker, error) {
	markers, err := s.store.Markers(tripID, date)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.Markers: %w", err)
	}
	return markers, nil
}

// validateInput enforces the rules for a new activity.
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - Time must be a zero-padded 24-hour "HH:MM".
//   - Type, when given, must be a known category.
func validateInput(input ActivityInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if !domain.ValidClockTime(input.Time) {
		return fmt.Errorf("%w: time must be HH:MM", domain.ErrValidation)
	}
	if input.Type != "" && !input.Type.Valid() {
		return fmt.Errorf("%w: unknown activity type %q", domain.ErrValidation, input.Type)
	}
	return nil
}

// validatePatch enforces the same rules for the fields a patch does carry.
func validatePatch(patch domain.ActivityPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
	}
	if patch.Time != nil && !domain.ValidClockTime(*patch.Time) {
		return fmt.Errorf("%w: time must be HH:MM", domain.ErrValidation)
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return fmt.Errorf("%w: unknown activity type %q", domain.ErrValidation, *patch.Type)
	}
	return nil
}
