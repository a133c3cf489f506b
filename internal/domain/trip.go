// Package domain contains the core data types for the itinerary planner.
// This package depends only on the standard library and uuid and is imported
// by every other internal package (store, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// GeoPosition is a plain latitude/longitude coordinate.
type GeoPosition struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeoBounds is a geographic rectangle, used as a map viewport hint for a
// trip's destination. It has no lifecycle of its own.
type GeoBounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Trip is the top-level aggregate: a planned journey with a date range,
// destination, and a day-by-day itinerary. The itinerary is fully populated
// at creation time from the date range and the range is immutable afterwards.
type Trip struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Destination string         `json:"destination"`
	StartDate   time.Time      `json:"start_date"` // UTC midnight
	EndDate     time.Time      `json:"end_date"`   // UTC midnight, never before StartDate
	Bounds      *GeoBounds     `json:"bounds,omitempty"`
	Itinerary   []ItineraryDay `json:"itinerary"`
}

// ItineraryDay is one calendar date within a trip's range. Days are generated
// once at trip creation, contiguously and in ascending date order, and are
// never added or removed afterwards. Items holds activities in insertion
// order; the time-sorted view is derived, not stored.
type ItineraryDay struct {
	Date  time.Time  `json:"date"` // UTC midnight, unique within the trip
	Items []Activity `json:"items"`
}

// Marker is the map-pin projection of an activity.
type Marker struct {
	ID       uuid.UUID   `json:"id"`
	Position GeoPosition `json:"position"`
	Title    string      `json:"title"`
}

// DateOnly truncates t to UTC midnight. All day-bucket dates and trip range
// endpoints are normalized through this before they enter the data model, so
// day lookup can use plain Equal comparisons.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
