package domain

import "errors"

// ErrNotFound is returned when a referenced trip, day, or activity ID does
// not exist in the store. Handlers should map this to HTTP 404.
// Unmatched IDs are surfaced as errors rather than silent no-ops so callers
// can distinguish "nothing to do" from a bug upstream.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing required field, malformed clock time, unknown category).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidRange is returned when a trip's end date is before its start
// date. It is rejected at trip creation, before any itinerary is built.
var ErrInvalidRange = errors.New("invalid date range")
