// Package store implements the authoritative in-memory state container for
// trips. It exclusively owns all trip/day/activity data; collaborators hold
// only transient, non-owning copies.
//
// Every mutation is copy-on-write: it rebuilds the trip collection from the
// current state down to the affected day and activity list, swaps the state
// in under the write lock, and then invokes the persistence hook with the
// new snapshot. Nothing handed out by a read aliases live state, so a
// snapshot obtained before a mutation stays valid during in-flight
// asynchronous writes. Mutations triggered by asynchronous completions
// (geocode results, photo conversions) re-read the state current at the
// moment they execute, which is what makes concurrent photo appends to the
// same activity commute.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homiapp/planner-api/internal/domain"
	"github.com/homiapp/planner-api/internal/itinerary"
)

// Snapshot is the full persisted state of the container: the trip collection
// and the active-trip selection. It is overwritten wholesale on every
// mutation; persistence is never incremental.
type Snapshot struct {
	Trips        []domain.Trip `json:"trips"`
	ActiveTripID *uuid.UUID    `json:"active_trip_id"`
}

// PersistFunc receives a deep copy of the post-mutation snapshot. It is
// called synchronously under the store's write lock so snapshots arrive in
// mutation order; implementations must not call back into the store.
type PersistFunc func(Snapshot)

// TripStore is a constructible state container. Each instance is fully
// isolated, so tests can create as many as they need instead of sharing a
// process-wide singleton.
type TripStore struct {
	mu      sync.RWMutex
	state   Snapshot
	persist PersistFunc
}

// New returns an empty TripStore. persist may be nil.
func New(persist PersistFunc) *TripStore {
	return &TripStore{persist: persist}
}

// Restore returns a TripStore seeded with a previously persisted snapshot.
// The snapshot is deep-copied on the way in, so the caller's copy stays
// independent of the store.
func Restore(snap Snapshot, persist PersistFunc) *TripStore {
	return &TripStore{state: cloneSnapshot(snap), persist: persist}
}

// CreateTrip appends a fully-formed trip (itinerary pre-expanded) to the
// collection. It does not change the active-trip selection.
func (s *TripStore) CreateTrip(trip domain.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trips := cloneTrips(s.state.Trips)
	s.state.Trips = append(trips, cloneTrip(trip))
	s.persistLocked()
}

// SetActiveTrip selects the trip used by the active-trip read. An unknown ID
// is recorded as-is: by contract this operation never errors, and callers of
// ActiveTrip must handle an unresolved selection.
func (s *TripStore) SetActiveTrip(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := id
	s.state.ActiveTripID = &active
	s.persistLocked()
}

// ActiveTrip returns a copy of the currently selected trip. ok is false when
// no selection has been made or the selected ID no longer resolves.
func (s *TripStore) ActiveTrip() (domain.Trip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.ActiveTripID == nil {
		return domain.Trip{}, false
	}
	for _, t := range s.state.Trips {
		if t.ID == *s.state.ActiveTripID {
			return cloneTrip(t), true
		}
	}
	return domain.Trip{}, false
}

// Trips returns a deep copy of the whole trip collection.
func (s *TripStore) Trips() []domain.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trips := cloneTrips(s.state.Trips)
	if trips == nil {
		return []domain.Trip{}
	}
	return trips
}

// TripByID returns a copy of the trip with the given ID.
// Returns domain.ErrNotFound if no trip with that ID exists.
func (s *TripStore) TripByID(id uuid.UUID) (domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.state.Trips {
		if t.ID == id {
			return cloneTrip(t), nil
		}
	}
	return domain.Trip{}, fmt.Errorf("store.TripStore.TripByID: trip %s: %w", id, domain.ErrNotFound)
}

// AddActivity appends item to the day bucket whose date equals dayDate.
// Returns domain.ErrNotFound if the trip or the day does not exist; an
// unmatched day is surfaced instead of silently dropped so caller bugs
// (e.g. a stale day index) are visible.
func (s *TripStore) AddActivity(tripID uuid.UUID, dayDate time.Time, item domain.Activity) error {
	dayDate = domain.DateOnly(dayDate)

	s.mu.Lock()
	defer s.mu.Unlock()

	trips := cloneTrips(s.state.Trips)
	trip := findTrip(trips, tripID)
	if trip == nil {
		return fmt.Errorf("store.TripStore.AddActivity: trip %s: %w", tripID, domain.ErrNotFound)
	}

	for i := range trip.Itinerary {
		if trip.Itinerary[i].Date.Equal(dayDate) {
			trip.Itinerary[i].Items = append(trip.Itinerary[i].Items, cloneActivity(item))
			s.state.Trips = trips
			s.persistLocked()
			return nil
		}
	}
	return fmt.Errorf("store.TripStore.AddActivity: day %s: %w",
		dayDate.Format(time.DateOnly), domain.ErrNotFound)
}

// UpdateActivity locates the activity by ID across all days of the trip and
// applies the non-nil fields of patch, preserving everything else. Returns
// the updated copy. Returns domain.ErrNotFound for an unmatched trip or
// activity ID.
func (s *TripStore) UpdateActivity(tripID, itemID uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trips := cloneTrips(s.state.Trips)
	trip := findTrip(trips, tripID)
	if trip == nil {
		return domain.Activity{}, fmt.Errorf("store.TripStore.UpdateActivity: trip %s: %w", tripID, domain.ErrNotFound)
	}

	for i := range trip.Itinerary {
		items := trip.Itinerary[i].Items
		for j := range items {
			if items[j].ID != itemID {
				continue
			}
			applyPatch(&items[j], patch)
			s.state.Trips = trips
			s.persistLocked()
			return cloneActivity(items[j]), nil
		}
	}
	return domain.Activity{}, fmt.Errorf("store.TripStore.UpdateActivity: activity %s: %w", itemID, domain.ErrNotFound)
}

// DeleteActivity removes the activity with the given ID from whichever day
// holds it. Returns domain.ErrNotFound for an unmatched trip or activity ID.
func (s *TripStore) DeleteActivity(tripID, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trips := cloneTrips(s.state.Trips)
	trip := findTrip(trips, tripID)
	if trip == nil {
		return fmt.Errorf("store.TripStore.DeleteActivity: trip %s: %w", tripID, domain.ErrNotFound)
	}

	for i := range trip.Itinerary {
		items := trip.Itinerary[i].Items
		for j := range items {
			if items[j].ID != itemID {
				continue
			}
			trip.Itinerary[i].Items = append(items[:j:j], items[j+1:]...)
			s.state.Trips = trips
			s.persistLocked()
			return nil
		}
	}
	return fmt.Errorf("store.TripStore.DeleteActivity: activity %s: %w", itemID, domain.ErrNotFound)
}

// AddPhoto appends photoRef to the matched activity's photo list. The append
// is targeted rather than a bulk replace, so any number of concurrent
// completions against the same activity commute without lost updates.
// Returns domain.ErrNotFound for an unmatched trip or activity ID.
func (s *TripStore) AddPhoto(tripID, itemID uuid.UUID, photoRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trips := cloneTrips(s.state.Trips)
	trip := findTrip(trips, tripID)
	if trip == nil {
		return fmt.Errorf("store.TripStore.AddPhoto: trip %s: %w", tripID, domain.ErrNotFound)
	}

	for i := range trip.Itinerary {
		items := trip.Itinerary[i].Items
		for j := range items {
			if items[j].ID != itemID {
				continue
			}
			items[j].Photos = append(items[j].Photos, photoRef)
			s.state.Trips = trips
			s.persistLocked()
			return nil
		}
	}
	return fmt.Errorf("store.TripStore.AddPhoto: activity %s: %w", itemID, domain.ErrNotFound)
}

// Day returns the time-sorted view of one day bucket. The stored insertion
// order is untouched; the sort happens on a copy.
// Returns domain.ErrNotFound for an unmatched trip or day.
func (s *TripStore) Day(tripID uuid.UUID, date time.Time) (domain.ItineraryDay, error) {
	date = domain.DateOnly(date)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.state.Trips {
		if t.ID != tripID {
			continue
		}
		for _, d := range t.Itinerary {
			if d.Date.Equal(date) {
				return domain.ItineraryDay{
					Date:  d.Date,
					Items: itinerary.SortedByTime(cloneActivities(d.Items)),
				}, nil
			}
		}
		return domain.ItineraryDay{}, fmt.Errorf("store.TripStore.Day: day %s: %w",
			date.Format(time.DateOnly), domain.ErrNotFound)
	}
	return domain.ItineraryDay{}, fmt.Errorf("store.TripStore.Day: trip %s: %w", tripID, domain.ErrNotFound)
}

// Markers returns the map-pin projection of a day's time-sorted activities.
func (s *TripStore) Markers(tripID uuid.UUID, date time.Time) ([]domain.Marker, error) {
	day, err := s.Day(tripID, date)
	if err != nil {
		return nil, err
	}
	markers := make([]domain.Marker, 0, len(day.Items))
	for _, item := range day.Items {
		markers = append(markers, domain.Marker{ID: item.ID, Position: item.Position, Title: item.Title})
	}
	return markers, nil
}

// Snapshot returns a deep copy of the full state, suitable for serialization.
func (s *TripStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.state)
}

// persistLocked hands a deep copy of the current state to the persistence
// hook. Caller must hold the write lock.
func (s *TripStore) persistLocked() {
	if s.persist != nil {
		s.persist(cloneSnapshot(s.state))
	}
}

// findTrip returns a pointer into trips for the matching ID, or nil.
// Callers pass a freshly cloned slice, so mutating through the pointer never
// touches previously published state.
func findTrip(trips []domain.Trip, id uuid.UUID) *domain.Trip {
	for i := range trips {
		if trips[i].ID == id {
			return &trips[i]
		}
	}
	return nil
}

// applyPatch overwrites the fields of item named by non-nil patch fields.
func applyPatch(item *domain.Activity, patch domain.ActivityPatch) {
	if patch.Time != nil {
		item.Time = *patch.Time
	}
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.LocationName != nil {
		item.LocationName = *patch.LocationName
	}
	if patch.Memo != nil {
		item.Memo = *patch.Memo
	}
	if patch.Type != nil {
		item.Type = *patch.Type
	}
	if patch.Position != nil {
		item.Position = *patch.Position
	}
}
