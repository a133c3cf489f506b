// Package handler — export.go implements GET /trips/{tripID}/export.
// Returns the trip's itinerary as a flat table. Content negotiation via
// ?format=csv (CSV), ?format=ics (iCalendar), or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/homiapp/planner-api/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "destination", "date", "time",
	"activity_title", "location_name", "activity_type", "memo",
	"lat", "lng", "photo_count",
}

// exportRow is the JSON wire shape of one flat itinerary row.
type exportRow struct {
	TripID        string  `json:"trip_id"`
	TripTitle     string  `json:"trip_title"`
	Destination   string  `json:"destination"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	ActivityTitle string  `json:"activity_title"`
	LocationName  string  `json:"location_name"`
	ActivityType  string  `json:"activity_type"`
	Memo          string  `json:"memo,omitempty"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	PhotoCount    int     `json:"photo_count"`
}

// handleExport handles GET /trips/{tripID}/export.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	tripID, err := tripIDParam(r)
	if err != nil {
		respondRequestError(w, "trip id must be a UUID")
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "ics":
		out, err := s.exports.ICal(tripID)
		if err != nil {
			respondError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="itinerary.ics"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(out))
	case "csv":
		rows, err := s.exports.Rows(tripID)
		if err != nil {
			respondError(w, err)
			return
		}
		buf := buildCSV(rows)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="itinerary.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	case "", "json":
		rows, err := s.exports.Rows(tripID)
		if err != nil {
			respondError(w, err)
			return
		}
		out := make([]exportRow, len(rows))
		for i, row := range rows {
			out[i] = rowToResponse(row)
		}
		respondJSON(w, http.StatusOK, out)
	default:
		respondRequestError(w, "format must be one of json, csv, ics")
	}
}

// buildCSV encodes rows as CSV with a header line.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck — bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write([]string{
			r.TripID,
			r.TripTitle,
			r.Destination,
			r.Date,
			r.Time,
			r.ActivityTitle,
			r.LocationName,
			r.ActivityType,
			r.Memo,
			strconv.FormatFloat(r.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.Lng, 'f', -1, 64),
			strconv.Itoa(r.PhotoCount),
		})
	}
	cw.Flush()
	return &buf
}

// rowToResponse maps a domain.ExportRow to its JSON wire shape.
func rowToResponse(r domain.ExportRow) exportRow {
	return exportRow{
		TripID:        r.TripID,
		TripTitle:     r.TripTitle,
		Destination:   r.Destination,
		Date:          r.Date,
		Time:          r.Time,
		ActivityTitle: r.ActivityTitle,
		LocationName:  r.LocationName,
		ActivityType:  r.ActivityType,
		Memo:          r.Memo,
		Lat:           r.Lat,
		Lng:           r.Lng,
		PhotoCount:    r.PhotoCount,
	}
}
