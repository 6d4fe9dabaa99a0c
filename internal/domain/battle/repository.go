package battle

import (
	"context"
)

// Filter narrows battle listings.
type Filter struct {
	AgentID *int64
}

// Repository defines the interface for battle persistence.
//
// Upsert-style writes are keyed by the ledger-assigned battle id and must be
// safe to repeat; implementations report conflicting inserts of identical
// rows as ErrDuplicate so callers can treat re-syncs as success.
type Repository interface {
	Upsert(ctx context.Context, b *Battle) error
	SetOutcome(ctx context.Context, battleID, winnerID int64, health1, health2 int64) error
	GetByID(ctx context.Context, battleID int64) (*Battle, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Battle, error)

	InsertEvent(ctx context.Context, e *Event) error
	ListEvents(ctx context.Context, battleID int64) ([]*Event, error)
}
