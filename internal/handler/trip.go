package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/homiapp/planner-api/internal/domain"
)

// createTripRequest is the body of POST /trips.
type createTripRequest struct {
	Title       string             `json:"title"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Bounds      *domain.GeoBounds  `json:"bounds,omitempty"`
}

// tripResponse is the wire shape of a trip, dates as calendar dates.
type tripResponse struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Bounds      *domain.GeoBounds  `json:"bounds,omitempty"`
	Itinerary   []dayResponse      `json:"itinerary"`
	Countdown   *domain.Countdown  `json:"countdown,omitempty"`
}

// dayResponse is one itinerary day bucket.
type dayResponse struct {
	Date  openapi_types.Date `json:"date"`
	Items []domain.Activity  `json:"items"`
}

// handleCreateTrip handles POST /trips.
func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondRequestError(w, "request body is required")
		return
	}

	trip, err := s.trips.Create(req.Title, req.Destination, req.StartDate.Time, req.EndDate.Time, req.Bounds)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, tripToResponse(trip, nil))
}

// handleListTrips handles GET /trips.
func (s *Server) handleListTrips(w http.ResponseWriter, _ *http.Request) {
	trips := s.trips.List()
	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t, nil)
	}
	respondJSON(w, http.StatusOK, data)
}

// handleGetTrip handles GET /trips/{tripID}. The response embeds the
// departure countdown so the dashboard needs a single call.
func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := tripIDParam(r)
	if err != nil {
		respondRequestError(w, "trip id must be a UUID")
		return
	}

	trip, err := s.trips.Get(id)
	if err != nil {
		respondError(w, err)
		return
	}

	var countdown *domain.Countdown
	if cd, err := s.trips.Countdown(id); err == nil {
		countdown = &cd
	}

	respondJSON(w, http.StatusOK, tripToResponse(trip, countdown))
}

// setActiveTripRequest is the body of PUT /active-trip.
type setActiveTripRequest struct {
	TripID uuid.UUID `json:"trip_id"`
}

// handleSetActiveTrip handles PUT /active-trip. Unknown IDs are accepted
// and simply leave no trip resolvable, so the client can restore a stale
// selection without special-casing.
func (s *Server) handleSetActiveTrip(w http.ResponseWriter, r *http.Request) {
	var req setActiveTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondRequestError(w, "request body is required")
		return
	}

	s.trips.SetActive(req.TripID)
	w.WriteHeader(http.StatusNoContent)
}

// handleGetActiveTrip handles GET /active-trip.
func (s *Server) handleGetActiveTrip(w http.ResponseWriter, _ *http.Request) {
	trip, ok := s.trips.Active()
	if !ok {
		respondJSON(w, http.StatusNotFound, errorResponse{
			Error: errorDetail{Code: "not_found", Message: "no active trip"},
		})
		return
	}

	var countdown *domain.Countdown
	if cd, err := s.trips.Countdown(trip.ID); err == nil {
		countdown = &cd
	}

	respondJSON(w, http.StatusOK, tripToResponse(trip, countdown))
}

// tripToResponse converts a domain.Trip into its wire shape.
func tripToResponse(t domain.Trip, countdown *domain.Countdown) tripResponse {
	days := make([]dayResponse, len(t.Itinerary))
	for i, d := range t.Itinerary {
		days[i] = dayToResponse(d)
	}
	return tripResponse{
		ID:          t.ID,
		Title:       t.Title,
		Destination: t.Destination,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		Bounds:      t.Bounds,
		Itinerary:   days,
		Countdown:   countdown,
	}
}

// dayToResponse converts an itinerary day into its wire shape.
func dayToResponse(d domain.ItineraryDay) dayResponse {
	items := d.Items
	if items == nil {
		items = []domain.Activity{}
	}
	return dayResponse{Date: openapi_types.Date{Time: d.Date}, Items: items}
}
