package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/homiapp/planner-api/internal/store"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and
// pgx.Tx. Accepting it instead of *pgxpool.Pool lets integration tests pass
// a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore persists snapshots as one JSONB row in the snapshots table, keyed
// by SlotName and upserted wholesale on every Save. The schema is managed by
// the embedded goose migrations.
type PGStore struct {
	db db
}

// NewPGStore constructs a PGStore backed by the provided connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx.
func NewPGStore(db db) *PGStore {
	return &PGStore{db: db}
}

// Save upserts the slot row with the serialized snapshot.
func (p *PGStore) Save(ctx context.Context, snap store.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("persist.PGStore.Save: marshal: %w", err)
	}

	const q = `
		INSERT INTO snapshots (name, state, updated_at)
		VALUES (@name, @state, now())
		ON CONFLICT (name) DO UPDATE
		SET state = EXCLUDED.state, updated_at = now()`

	if _, err := p.db.Exec(ctx, q, pgx.NamedArgs{"name": SlotName, "state": data}); err != nil {
		return fmt.Errorf("persist.PGStore.Save: %w", err)
	}
	return nil
}

// Load reads the slot row. A missing row reports ok=false without an error.
func (p *PGStore) Load(ctx context.Context) (store.Snapshot, bool, error) {
	const q = `SELECT state FROM snapshots WHERE name = @name`

	var data []byte
	err := p.db.QueryRow(ctx, q, pgx.NamedArgs{"name": SlotName}).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Snapshot{}, false, nil
	}
	if err != nil {
		return store.Snapshot{}, false, fmt.Errorf("persist.PGStore.Load: %w", err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store.Snapshot{}, false, fmt.Errorf("persist.PGStore.Load: unmarshal: %w", err)
	}
	return snap, true, nil
}
