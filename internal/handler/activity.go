package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/homiapp/planner-api/internal/domain"
	"github.com/homiapp/planner-api/internal/service"
)

// activityRequest is the body of POST /trips/{tripID}/days/{date}/activities.
type activityRequest struct {
	Time         string              `json:"time"`
	Title        string              `json:"title"`
	LocationName string              `json:"location_name"`
	Memo         string              `json:"memo"`
	ActivityType domain.ActivityType `json:"activity_type"`
	Position     domain.GeoPosition  `json:"position"`
}

// handleDay handles GET /trips/{tripID}/days/{date}. Items come back
// sorted by clock time.
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	tripID, date, ok := s.dayParams(w, r)
	if !ok {
		return
	}

	day, err := s.activities.Day(tripID, date)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dayToResponse(day))
}

// handleMarkers handles GET /trips/{tripID}/days/{date}/markers.
func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	tripID, date, ok := s.dayParams(w, r)
	if !ok {
		return
	}

	markers, err := s.activities.Markers(tripID, date)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, markers)
}

// handleAddActivity handles POST /trips/{tripID}/days/{date}/activities.
func (s *Server) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	tripID, date, ok := s.dayParams(w, r)
	if !ok {
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondRequestError(w, "request body is required")
		return
	}

	item, err := s.activities.Add(tripID, date, service.ActivityInput{
		Time:         req.Time,
		Title:        req.Title,
		LocationName: req.LocationName,
		Memo:         req.Memo,
		Type:         req.ActivityType,
		Position:     req.Position,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// handleUpdateActivity handles PATCH /trips/{tripID}/activities/{activityID}.
// Absent body fields leave the stored values untouched.
func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	tripID, itemID, ok := s.activityParams(w, r)
	if !ok {
		return
	}

	var patch domain.ActivityPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondRequestError(w, "request body is required")
		return
	}

	item, err := s.activities.Update(tripID, itemID, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// handleDeleteActivity handles DELETE /trips/{tripID}/activities/{activityID}.
func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	tripID, itemID, ok := s.activityParams(w, r)
	if !ok {
		return
	}

	if err := s.activities.Delete(tripID, itemID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// dayParams parses the {tripID} and {date} URL parameters, responding with
// a validation error itself when either is malformed.
func (s *Server) dayParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, time.Time, bool) {
	tripID, err := tripIDParam(r)
	if err != nil {
		respondRequestError(w, "trip id must be a UUID")
		return uuid.Nil, time.Time{}, false
	}
	date, err := dateParam(r)
	if err != nil {
		respondRequestError(w, "date must be YYYY-MM-DD")
		return uuid.Nil, time.Time{}, false
	}
	return tripID, date, true
}

// activityParams parses the {tripID} and {activityID} URL parameters.
func (s *Server) activityParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	tripID, err := tripIDParam(r)
	if err != nil {
		respondRequestError(w, "trip id must be a UUID")
		return uuid.Nil, uuid.Nil, false
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "activityID"))
	if err != nil {
		respondRequestError(w, "activity id must be a UUID")
		return uuid.Nil, uuid.Nil, false
	}
	return tripID, itemID, true
}
