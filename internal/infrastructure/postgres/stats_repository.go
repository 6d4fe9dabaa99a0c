package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arena-bridge/arena-bridge/internal/domain/agent"
)

// StatsRepository implements agent.StatsRepository.
type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// ApplyDelta folds one battle's contribution into the agent's aggregate row.
// The increment happens in SQL, so concurrent finishes for the same agent
// both land.
func (r *StatsRepository) ApplyDelta(ctx context.Context, agentID int64, delta agent.StatsDelta) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO agent_stats
		(agent_id, total_battles, wins, losses, total_damage_dealt, total_damage_received, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,now())
		ON CONFLICT (agent_id) DO UPDATE SET
			total_battles=agent_stats.total_battles + EXCLUDED.total_battles,
			wins=agent_stats.wins + EXCLUDED.wins,
			losses=agent_stats.losses + EXCLUDED.losses,
			total_damage_dealt=agent_stats.total_damage_dealt + EXCLUDED.total_damage_dealt,
			total_damage_received=agent_stats.total_damage_received + EXCLUDED.total_damage_received,
			updated_at=now()
	`, agentID, delta.Battles, delta.Wins, delta.Losses, delta.DamageDealt, delta.DamageReceived)
	return err
}

func (r *StatsRepository) GetByAgentID(ctx context.Context, agentID int64) (*agent.Stats, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT agent_id, total_battles, wins, losses, total_damage_dealt, total_damage_received, updated_at
		FROM agent_stats WHERE agent_id=$1
	`, agentID)
	s := &agent.Stats{}
	err := row.Scan(&s.AgentID, &s.TotalBattles, &s.Wins, &s.Losses, &s.TotalDamageDealt, &s.TotalDamageReceived, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StatsRepository) List(ctx context.Context, limit, offset int) ([]*agent.Stats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT agent_id, total_battles, wins, losses, total_damage_dealt, total_damage_received, updated_at
		FROM agent_stats ORDER BY wins DESC, total_battles DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stats []*agent.Stats
	for rows.Next() {
		s := &agent.Stats{}
		if err := rows.Scan(&s.AgentID, &s.TotalBattles, &s.Wins, &s.Losses, &s.TotalDamageDealt, &s.TotalDamageReceived, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
