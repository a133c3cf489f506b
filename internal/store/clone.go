package store

import "github.com/homiapp/planner-api/internal/domain"

// Deep-copy helpers. These are what make the copy-on-write discipline hold:
// every boundary crossing (state in, state out, persistence hook) goes
// through one of them, so no slice or pointer is ever shared between the
// live state and anything outside the lock.

func cloneSnapshot(snap Snapshot) Snapshot {
	out := Snapshot{Trips: cloneTrips(snap.Trips)}
	if snap.ActiveTripID != nil {
		id := *snap.ActiveTripID
		out.ActiveTripID = &id
	}
	return out
}

func cloneTrips(trips []domain.Trip) []domain.Trip {
	if trips == nil {
		return nil
	}
	out := make([]domain.Trip, len(trips))
	for i, t := range trips {
		out[i] = cloneTrip(t)
	}
	return out
}

func cloneTrip(t domain.Trip) domain.Trip {
	out := t
	if t.Bounds != nil {
		b := *t.Bounds
		out.Bounds = &b
	}
	out.Itinerary = make([]domain.ItineraryDay, len(t.Itinerary))
	for i, d := range t.Itinerary {
		out.Itinerary[i] = domain.ItineraryDay{
			Date:  d.Date,
			Items: cloneActivities(d.Items),
		}
	}
	return out
}

func cloneActivities(items []domain.Activity) []domain.Activity {
	out := make([]domain.Activity, len(items))
	for i, item := range items {
		out[i] = cloneActivity(item)
	}
	return out
}

func cloneActivity(item domain.Activity) domain.Activity {
	out := item
	out.Photos = make([]string, len(item.Photos))
	copy(out.Photos, item.Photos)
	return out
}
