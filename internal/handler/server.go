// Package handler implements the HTTP surface of the planner. All handlers
// are methods on Server; they are split into resource-specific files
// (trip.go, activity.go, mapdraft.go, ...) but share the one struct so they
// can reach its dependencies. The browser frontend is the only intended
// caller; this API is the contract through which the UI reaches the core.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/homiapp/planner-api/internal/bridge"
	"github.com/homiapp/planner-api/internal/domain"
	"github.com/homiapp/planner-api/internal/geo"
	"github.com/homiapp/planner-api/internal/photo"
	"github.com/homiapp/planner-api/internal/service"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining interfaces here, in the consumer package, lets handler tests
// inject a mock without touching the store or service layer.
type TripServicer interface {
	Create(title, destination string, start, end time.Time, bounds *domain.GeoBounds) (domain.Trip, error)
	List() []domain.Trip
	Get(id uuid.UUID) (domain.Trip, error)
	SetActive(id uuid.UUID)
	Active() (domain.Trip, bool)
	Countdown(id uuid.UUID) (domain.Countdown, error)
}

// ActivityServicer defines the activity operations the handlers depend on.
type ActivityServicer interface {
	Add(tripID uuid.UUID, dayDate time.Time, input service.ActivityInput) (domain.Activity, error)
	Update(tripID, itemID uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error)
	Delete(tripID, itemID uuid.UUID) error
	Day(tripID uuid.UUID, date time.Time) (domain.ItineraryDay, error)
	Markers(tripID uuid.UUID, date time.Time) ([]domain.Marker, error)
}

// ExportServicer defines the itinerary export operations.
type ExportServicer interface {
	Rows(tripID uuid.UUID) ([]domain.ExportRow, error)
	ICal(tripID uuid.UUID) (string, error)
}

// PhotoAttacher converts an uploaded batch into photo references on an
// activity, one independent commit per file.
type PhotoAttacher interface {
	Attach(tripID, itemID uuid.UUID, files []photo.File) []photo.Result
}

// MapBridger is the map-click session the draft endpoints drive.
type MapBridger interface {
	Click(ctx context.Context, tripID uuid.UUID, dayDate time.Time, pos domain.GeoPosition)
	Draft() (bridge.Draft, bool)
	Confirm(title, clockTime string, activityType domain.ActivityType) (domain.Activity, error)
	Discard()
}

// PlaceSearcher is the forward place search used by the destination and
// location inputs.
type PlaceSearcher interface {
	Search(ctx context.Context, query string) ([]geo.Place, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	trips      TripServicer
	activities ActivityServicer
	exports    ExportServicer
	photos     PhotoAttacher
	bridge     MapBridger
	places     PlaceSearcher
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, activities ActivityServicer, exports ExportServicer, photos PhotoAttacher, bridge MapBridger, places PlaceSearcher) *Server {
	return &Server{
		trips:      trips,
		activities: activities,
		exports:    exports,
		photos:     photos,
		bridge:     bridge,
		places:     places,
	}
}

// Routes builds the chi router for the full API surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.handleCreateTrip)
		r.Get("/", s.handleListTrips)

		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.handleGetTrip)
			r.Get("/export", s.handleExport)

			r.Route("/days/{date}", func(r chi.Router) {
				r.Get("/", s.handleDay)
				r.Get("/markers", s.handleMarkers)
				r.Post("/activities", s.handleAddActivity)
			})

			r.Route("/activities/{activityID}", func(r chi.Router) {
				r.Patch("/", s.handleUpdateActivity)
				r.Delete("/", s.handleDeleteActivity)
				r.Post("/photos", s.handleAttachPhotos)
			})
		})
	})

	r.Get("/active-trip", s.handleGetActiveTrip)
	r.Put("/active-trip", s.handleSetActiveTrip)

	r.Route("/map", func(r chi.Router) {
		r.Post("/clicks", s.handleMapClick)
		r.Get("/draft", s.handleGetDraft)
		r.Post("/draft/confirm", s.handleConfirmDraft)
		r.Delete("/draft", s.handleDiscardDraft)
	})

	r.Get("/places", s.handleSearchPlaces)

	return r
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// tripIDParam parses the {tripID} URL parameter.
func tripIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "tripID"))
}

// dateParam parses the {date} URL parameter as a "2006-01-02" calendar date.
func dateParam(r *http.Request) (time.Time, error) {
	return time.Parse(time.DateOnly, chi.URLParam(r, "date"))
}
