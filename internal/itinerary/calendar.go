// Package itinerary implements the pure calendar logic for trips: expanding
// a date range into day buckets and deriving the time-sorted view of a day.
// Nothing here touches the store; both operations are side-effect-free.
package itinerary

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/homiapp/planner-api/internal/domain"
)

// ExpandDays returns one ItineraryDay per calendar day in [start, end],
// inclusive of both endpoints, each with an empty activity list. Inputs are
// normalized to UTC midnight first, so any time-of-day component is ignored.
// The expansion is driven by a DAILY recurrence rule, which keeps the
// arithmetic correct across month and year boundaries and leap days.
//
// Returns domain.ErrInvalidRange when end is before start.
func ExpandDays(start, end time.Time) ([]domain.ItineraryDay, error) {
	start = domain.DateOnly(start)
	end = domain.DateOnly(end)

	if end.Before(start) {
		return nil, fmt.Errorf("itinerary.ExpandDays: end %s before start %s: %w",
			end.Format(time.DateOnly), start.Format(time.DateOnly), domain.ErrInvalidRange)
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: start,
		Until:   end,
	})
	if err != nil {
		return nil, fmt.Errorf("itinerary.ExpandDays: %w", err)
	}

	dates := rule.All()
	days := make([]domain.ItineraryDay, 0, len(dates))
	for _, d := range dates {
		days = append(days, domain.ItineraryDay{
			Date:  domain.DateOnly(d),
			Items: []domain.Activity{},
		})
	}
	return days, nil
}
