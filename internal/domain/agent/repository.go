package agent

import "context"

// StatsRepository defines the interface for aggregate stat persistence.
//
// ApplyDelta must be an atomic read-modify-write at the store layer: two
// concurrent battles finishing for the same agent must both be counted.
type StatsRepository interface {
	ApplyDelta(ctx context.Context, agentID int64, delta StatsDelta) error
	GetByAgentID(ctx context.Context, agentID int64) (*Stats, error)
	List(ctx context.Context, limit, offset int) ([]*Stats, error)
}
