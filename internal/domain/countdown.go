package domain

// Countdown is the derived days-until-departure view of a trip.
// Started is true once the wall clock has reached the trip's start date;
// DaysLeft is zero in that case.
type Countdown struct {
	DaysLeft int  `json:"days_left"`
	Started  bool `json:"started"`
}
