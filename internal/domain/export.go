package domain

// ExportRow is a single row in a trip's flat itinerary export.
// It is denormalized: one row per activity, with trip fields repeated for
// every activity. Days with no activities contribute no rows.
//
// Photos are not embedded (they are data URLs and would bloat the export);
// only their count is carried.
type ExportRow struct {
	TripID        string
	TripTitle     string
	Destination   string
	Date          string // "2006-01-02" formatted day-bucket date
	Time          string // "HH:MM"
	ActivityTitle string
	LocationName  string
	ActivityType  string
	Memo          string
	Lat           float64
	Lng           float64
	PhotoCount    int
}
