package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/homiapp/planner-api/internal/bridge"
	"github.com/homiapp/planner-api/internal/domain"
)

// mapClickRequest is the body of POST /map/clicks.
type mapClickRequest struct {
	TripID   uuid.UUID          `json:"trip_id"`
	DayDate  openapi_types.Date `json:"day_date"`
	Position domain.GeoPosition `json:"position"`
}

// draftResponse is the wire shape of a pending map draft.
type draftResponse struct {
	TripID       uuid.UUID          `json:"trip_id"`
	DayDate      openapi_types.Date `json:"day_date"`
	Position     domain.GeoPosition `json:"position"`
	LocationName string             `json:"location_name"`
}

// confirmDraftRequest is the body of POST /map/draft/confirm. All fields are
// optional; missing values fall back to the draft's resolved label, a noon
// start, and the catch-all activity type.
type confirmDraftRequest struct {
	Title        string              `json:"title"`
	Time         string              `json:"time"`
	ActivityType domain.ActivityType `json:"activity_type"`
}

// handleMapClick handles POST /map/clicks. Geocoding runs in the background;
// the client polls GET /map/draft for the resolved result.
func (s *Server) handleMapClick(w http.ResponseWriter, r *http.Request) {
	var req mapClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondRequestError(w, "request body is required")
		return
	}
	if req.TripID == uuid.Nil {
		respondRequestError(w, "trip_id is required")
		return
	}

	s.bridge.Click(r.Context(), req.TripID, req.DayDate.Time, req.Position)
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "resolving"})
}

// handleGetDraft handles GET /map/draft.
func (s *Server) handleGetDraft(w http.ResponseWriter, _ *http.Request) {
	draft, ok := s.bridge.Draft()
	if !ok {
		respondJSON(w, http.StatusNotFound, errorResponse{
			Error: errorDetail{Code: "not_found", Message: "no pending draft"},
		})
		return
	}
	respondJSON(w, http.StatusOK, draftToResponse(draft))
}

// handleConfirmDraft handles POST /map/draft/confirm.
func (s *Server) handleConfirmDraft(w http.ResponseWriter, r *http.Request) {
	req := confirmDraftRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondRequestError(w, "request body must be valid JSON")
			return
		}
	}

	item, err := s.bridge.Confirm(strings.TrimSpace(req.Title), req.Time, req.ActivityType)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// handleDiscardDraft handles DELETE /map/draft. Discarding with no pending
// draft is a no-op.
func (s *Server) handleDiscardDraft(w http.ResponseWriter, _ *http.Request) {
	s.bridge.Discard()
	w.WriteHeader(http.StatusNoContent)
}

// handleSearchPlaces handles GET /places?q=.
func (s *Server) handleSearchPlaces(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondRequestError(w, "query parameter q is required")
		return
	}

	places, err := s.places.Search(r.Context(), query)
	if err != nil {
		respondJSON(w, http.StatusBadGateway, errorResponse{
			Error: errorDetail{Code: "upstream_error", Message: "place search is unavailable"},
		})
		return
	}
	respondJSON(w, http.StatusOK, places)
}

// draftToResponse converts a bridge.Draft into its wire shape.
func draftToResponse(d bridge.Draft) draftResponse {
	return draftResponse{
		TripID:       d.TripID,
		DayDate:      openapi_types.Date{Time: d.DayDate},
		Position:     d.Position,
		LocationName: d.LocationName,
	}
}
