// Package bridge turns asynchronous map events into committed itinerary
// mutations. A click produces a coordinate; the bridge resolves it to a
// place label in the background and presents a draft activity for the user
// to confirm or discard. Only the most recent click matters: results of
// superseded geocode calls are discarded by sequence token rather than by
// cancelling the in-flight network call.
package bridge

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homiapp/planner-api/internal/domain"
	"github.com/homiapp/planner-api/internal/geo"
)

// State is the bridge's position in the click-session state machine.
type State int

const (
	// StateIdle means no pending draft.
	StateIdle State = iota
	// StateResolving means a reverse-geocode lookup is in flight.
	StateResolving
	// StateDrafting means a draft is waiting for confirm or discard.
	StateDrafting
)

// Reverser resolves a coordinate to a place label.
type Reverser interface {
	Reverse(ctx context.Context, pos domain.GeoPosition) (string, error)
}

// Committer receives the confirmed draft. Satisfied by *store.TripStore.
type Committer interface {
	AddActivity(tripID uuid.UUID, dayDate time.Time, item domain.Activity) error
}

// Draft is the transient, uncommitted activity candidate produced by a map
// click. The bridge owns it until Confirm hands the data to the store.
type Draft struct {
	TripID       uuid.UUID          `json:"trip_id"`
	DayDate      time.Time          `json:"day_date"`
	Position     domain.GeoPosition `json:"position"`
	LocationName string             `json:"location_name"`
}

// Bridge is one map-click session. A single instance serves the whole
// single-user application; each new click supersedes the previous session.
type Bridge struct {
	geocoder Reverser
	store    Committer
	newID    func() uuid.UUID

	mu    sync.Mutex
	seq   uint64
	state State
	draft *Draft
}

// New constructs a Bridge committing confirmed drafts through store.
func New(geocoder Reverser, store Committer) *Bridge {
	return &Bridge{geocoder: geocoder, store: store, newID: uuid.New}
}

// Click starts resolving a map click at pos for the given trip and day.
// Any in-flight resolution or pending draft is superseded immediately.
func (b *Bridge) Click(ctx context.Context, tripID uuid.UUID, dayDate time.Time, pos domain.GeoPosition) {
	b.mu.Lock()
	b.seq++
	token := b.seq
	b.state = StateResolving
	b.draft = nil
	b.mu.Unlock()

	// The caller's request finishes before resolution does, so detach from
	// its cancellation while keeping its values (request ID for logs).
	go b.resolve(context.WithoutCancel(ctx), token, tripID, domain.DateOnly(dayDate), pos)
}

// resolve runs the reverse-geocode lookup and installs the draft, unless a
// newer click has taken over in the meantime. A failed or empty lookup never
// blocks drafting: the label degrades to the coordinate fallback.
func (b *Bridge) resolve(ctx context.Context, token uint64, tripID uuid.UUID, dayDate time.Time, pos domain.GeoPosition) {
	label, err := b.geocoder.Reverse(ctx, pos)
	if err != nil || strings.TrimSpace(label) == "" {
		label = geo.FallbackLabel(pos)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if token != b.seq {
		// A newer click superseded this lookup; drop the stale result.
		return
	}
	b.state = StateDrafting
	b.draft = &Draft{TripID: tripID, DayDate: dayDate, Position: pos, LocationName: label}
}

// Draft returns a copy of the pending draft. ok is false while idle or still
// resolving.
func (b *Bridge) Draft() (Draft, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.draft == nil {
		return Draft{}, false
	}
	return *b.draft, true
}

// State returns the current session state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Confirm commits the pending draft as an activity. Empty fields take the
// draft defaults: the resolved location name as title, noon as the time, and
// the "other" category. The draft is kept on a failed commit so the user can
// retry; on success the bridge returns to idle.
// Returns domain.ErrNotFound when no draft is pending.
func (b *Bridge) Confirm(title, clockTime string, activityType domain.ActivityType) (domain.Activity, error) {
	b.mu.Lock()
	if b.draft == nil {
		b.mu.Unlock()
		return domain.Activity{}, fmt.Errorf("bridge.Bridge.Confirm: no pending draft: %w", domain.ErrNotFound)
	}
	draft := *b.draft
	token := b.seq
	b.mu.Unlock()

	if strings.TrimSpace(title) == "" {
		title = draft.LocationName
	}
	if clockTime == "" {
		clockTime = "12:00"
	}
	if !domain.ValidClockTime(clockTime) {
		return domain.Activity{}, fmt.Errorf("bridge.Bridge.Confirm: time must be HH:MM: %w", domain.ErrValidation)
	}
	if activityType == "" {
		activityType = domain.ActivityOther
	}
	if !activityType.Valid() {
		return domain.Activity{}, fmt.Errorf("bridge.Bridge.Confirm: unknown activity type %q: %w", activityType, domain.ErrValidation)
	}

	item := domain.Activity{
		ID:           b.newID(),
		Time:         clockTime,
		Title:        title,
		LocationName: draft.LocationName,
		Type:         activityType,
		Position:     draft.Position,
		Photos:       []string{},
	}

	if err := b.store.AddActivity(draft.TripID, draft.DayDate, item); err != nil {
		return domain.Activity{}, fmt.Errorf("bridge.Bridge.Confirm: %w", err)
	}

	b.mu.Lock()
	// Only clear if no new click arrived while we were committing.
	if token == b.seq {
		b.state = StateIdle
		b.draft = nil
	}
	b.mu.Unlock()

	return item, nil
}

// Discard drops the pending draft and returns the bridge to idle. Any still
// in-flight resolution is superseded as well.
func (b *Bridge) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.state = StateIdle
	b.draft = nil
}
