// Package persist implements snapshot persistence for the trip store.
// The unit of persistence is the whole repository state: one record,
// overwritten wholesale on every mutation. Two backends exist: an atomic
// JSON file for the default single-user local setup, and a single-slot
// Postgres table for installs that already run a database.
package persist

import (
	"context"

	"github.com/homiapp/planner-api/internal/store"
)

// SlotName is the fixed storage key under which the one snapshot lives.
// It is part of the persisted format; changing it orphans existing data.
const SlotName = "homi-trip-storage"

// SnapshotStore is the durable slot the repository writes into.
type SnapshotStore interface {
	// Save overwrites the slot with snap.
	Save(ctx context.Context, snap store.Snapshot) error

	// Load reads the slot. ok is false when no snapshot has ever been
	// saved; that is a normal first-run condition, not an error.
	Load(ctx context.Context) (snap store.Snapshot, ok bool, err error)
}
