package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType is the closed category enum for itinerary activities.
type ActivityType string

const (
	ActivitySightseeing   ActivityType = "sightseeing"
	ActivityDining        ActivityType = "dining"
	ActivityAccommodation ActivityType = "accommodation"
	ActivityFlight        ActivityType = "flight"
	ActivityTrain         ActivityType = "train"
	ActivityBus           ActivityType = "bus"
	ActivityOther         ActivityType = "other"
)

// Valid reports whether t is one of the defined activity categories.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivitySightseeing, ActivityDining, ActivityAccommodation,
		ActivityFlight, ActivityTrain, ActivityBus, ActivityOther:
		return true
	}
	return false
}

// Activity is a single timed, categorized, geolocated itinerary entry.
// IDs are unique across the whole trip, not just within a day, so mutation
// operations can locate an activity by ID alone. Photos holds embeddable
// references (data URLs) and only ever grows.
type Activity struct {
	ID           uuid.UUID    `json:"id"`
	Time         string       `json:"time"` // "HH:MM", 24-hour, minute resolution
	Title        string       `json:"title"`
	LocationName string       `json:"location_name"`
	Memo         string       `json:"memo,omitempty"`
	Type         ActivityType `json:"activity_type"`
	Position     GeoPosition  `json:"position"`
	Photos       []string     `json:"photos"`
}

// ActivityPatch is a partial update for an activity. Nil fields are left
// untouched by UpdateActivity. There is deliberately no way to express a
// change of the owning day: moving an activity between days is unsupported.
type ActivityPatch struct {
	Time         *string       `json:"time,omitempty"`
	Title        *string       `json:"title,omitempty"`
	LocationName *string       `json:"location_name,omitempty"`
	Memo         *string       `json:"memo,omitempty"`
	Type         *ActivityType `json:"activity_type,omitempty"`
	Position     *GeoPosition  `json:"position,omitempty"`
}

// ValidClockTime reports whether s is a zero-padded 24-hour "HH:MM" string.
// The zero padding matters: the sorted day view orders activities by plain
// string comparison of this field.
func ValidClockTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}
