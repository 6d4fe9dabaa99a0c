package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainBattle "github.com/arena-bridge/arena-bridge/internal/domain/battle"
)

// BattleRepository implements battle.Repository.
type BattleRepository struct {
	pool *pgxpool.Pool
}

func NewBattleRepository(pool *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{pool: pool}
}

// isUniqueViolation reports the store's duplicate/conflict error class.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *BattleRepository) Upsert(ctx context.Context, b *domainBattle.Battle) error {
	tactics1, err := json.Marshal(b.Tactics1)
	if err != nil {
		return err
	}
	tactics2, err := json.Marshal(b.Tactics2)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO battles
		(id, agent1_id, agent2_id, agent1_tactics, agent2_tactics, arena_type, status, winner_id, agent1_health, agent2_health, tx_hash, block_number, gas_used, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now(),now())
		ON CONFLICT (id) DO UPDATE SET
			agent1_tactics=EXCLUDED.agent1_tactics,
			agent2_tactics=EXCLUDED.agent2_tactics,
			agent1_health=EXCLUDED.agent1_health,
			agent2_health=EXCLUDED.agent2_health,
			tx_hash=EXCLUDED.tx_hash,
			block_number=EXCLUDED.block_number,
			gas_used=EXCLUDED.gas_used,
			updated_at=now()
	`, b.ID, b.Agent1ID, b.Agent2ID, tactics1, tactics2, b.Arena, b.Status, b.WinnerID, b.Health1, b.Health2, nullableString(b.TxHash), b.BlockNumber, b.GasUsed)
	if isUniqueViolation(err) {
		return domainBattle.ErrDuplicate
	}
	return err
}

func (r *BattleRepository) SetOutcome(ctx context.Context, battleID, winnerID int64, health1, health2 int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE battles
		SET status=$1, winner_id=$2, agent1_health=$3, agent2_health=$4, updated_at=now()
		WHERE id=$5
	`, domainBattle.StatusFinished, winnerID, health1, health2, battleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("battle %d not found in store", battleID)
	}
	return nil
}

func (r *BattleRepository) GetByID(ctx context.Context, battleID int64) (*domainBattle.Battle, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, agent1_id, agent2_id, agent1_tactics, agent2_tactics, arena_type, status, winner_id, agent1_health, agent2_health, tx_hash, block_number, gas_used, created_at, updated_at
		FROM battles WHERE id=$1
	`, battleID)
	b, err := scanBattle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *BattleRepository) List(ctx context.Context, filter domainBattle.Filter, limit, offset int) ([]*domainBattle.Battle, error) {
	query := `SELECT id, agent1_id, agent2_id, agent1_tactics, agent2_tactics, arena_type, status, winner_id, agent1_health, agent2_health, tx_hash, block_number, gas_used, created_at, updated_at FROM battles`
	args := []interface{}{}
	idx := 1
	if filter.AgentID != nil {
		query += fmt.Sprintf(" WHERE (agent1_id=$%d OR agent2_id=$%d)", idx, idx)
		args = append(args, *filter.AgentID)
		idx++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var battles []*domainBattle.Battle
	for rows.Next() {
		b, err := scanBattle(rows)
		if err != nil {
			return nil, err
		}
		battles = append(battles, b)
	}
	return battles, rows.Err()
}

func (r *BattleRepository) InsertEvent(ctx context.Context, e *domainBattle.Event) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO battle_events
		(battle_id, event_type, attacker_id, defender_id, damage, tx_hash, log_index, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())
		ON CONFLICT (tx_hash, log_index) DO NOTHING
	`, e.BattleID, e.Kind, e.AttackerID, e.DefenderID, e.Damage, e.TxHash, e.LogIndex)
	if err != nil {
		if isUniqueViolation(err) {
			return domainBattle.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainBattle.ErrDuplicate
	}
	return nil
}

func (r *BattleRepository) ListEvents(ctx context.Context, battleID int64) ([]*domainBattle.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, battle_id, event_type, attacker_id, defender_id, damage, tx_hash, log_index, created_at
		FROM battle_events WHERE battle_id=$1 ORDER BY log_index ASC
	`, battleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var events []*domainBattle.Event
	for rows.Next() {
		e := &domainBattle.Event{}
		if err := rows.Scan(&e.ID, &e.BattleID, &e.Kind, &e.AttackerID, &e.DefenderID, &e.Damage, &e.TxHash, &e.LogIndex, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBattle(row rowScanner) (*domainBattle.Battle, error) {
	b := &domainBattle.Battle{}
	var tactics1, tactics2 []byte
	var txHash *string
	if err := row.Scan(&b.ID, &b.Agent1ID, &b.Agent2ID, &tactics1, &tactics2, &b.Arena, &b.Status, &b.WinnerID, &b.Health1, &b.Health2, &txHash, &b.BlockNumber, &b.GasUsed, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if len(tactics1) > 0 {
		if err := json.Unmarshal(tactics1, &b.Tactics1); err != nil {
			return nil, err
		}
	}
	if len(tactics2) > 0 {
		if err := json.Unmarshal(tactics2, &b.Tactics2); err != nil {
			return nil, err
		}
	}
	if txHash != nil {
		b.TxHash = *txHash
	}
	return b, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
