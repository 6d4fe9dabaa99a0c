package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/arena-bridge/arena-bridge/internal/domain/agent"
	"github.com/arena-bridge/arena-bridge/internal/domain/battle"
	"github.com/arena-bridge/arena-bridge/internal/domain/ledger"
)

var (
	// ErrReconciliation reports that the ledger read path still did not
	// show the confirmed data after the bounded retries. Fatal to this
	// sync step only; the ledger-side result already stands.
	ErrReconciliation = errors.New("ledger read did not converge after retries")

	// ErrStoreSync reports a store write failure after the ledger fact was
	// confirmed. Non-fatal: logged and surfaced as a soft warning.
	ErrStoreSync = errors.New("store sync failed")
)

// Config carries the bounded-retry knobs, preserved from observed behavior.
type Config struct {
	MaxRetries int
	RetryDelay time.Duration
	DedupeTTL  time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 5,
		RetryDelay: 2 * time.Second,
		DedupeTTL:  10 * time.Minute,
	}
}

// Engine converts confirmed ledger facts into persistent-store writes. Writes
// are idempotent and never block the ledger-side result: a failed store write
// is logged, and per-sub-step failures are isolated from each other.
type Engine struct {
	battles battle.Repository
	stats   agent.StatsRepository
	ledger  ledger.Client
	cfg     Config
	metrics *Metrics
	logger  zerolog.Logger

	// applied suppresses duplicate sync work for the same confirmed fact.
	// Owned by this engine with a bounded TTL, not ambient global state.
	applied *gocache.Cache
}

// NewEngine creates a sync engine.
func NewEngine(battles battle.Repository, stats agent.StatsRepository, lc ledger.Client, cfg Config, metrics *Metrics, logger zerolog.Logger) *Engine {
	return &Engine{
		battles: battles,
		stats:   stats,
		ledger:  lc,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With().Str("service", "store-sync").Logger(),
		applied: gocache.New(cfg.DedupeTTL, cfg.DedupeTTL),
	}
}

// SyncBattleCreated mirrors a just-confirmed battle into the store. The
// ledger read retries on read-after-write lag; a duplicate store row is
// success, not error.
func (e *Engine) SyncBattleCreated(ctx context.Context, battleID int64, receipt *ledger.Receipt) error {
	key := fmt.Sprintf("created:%d", battleID)
	if _, dup := e.applied.Get(key); dup {
		return nil
	}

	b, err := e.readBattleWithRetry(ctx, battleID, battle.StatusOngoing)
	if err != nil {
		return err
	}
	if receipt != nil {
		b.TxHash = receipt.TxHash
		blockNumber, gasUsed := receipt.BlockNumber, receipt.GasUsed
		b.BlockNumber = &blockNumber
		b.GasUsed = &gasUsed
	}

	if err := e.battles.Upsert(ctx, b); err != nil {
		if !errors.Is(err, battle.ErrDuplicate) {
			return fmt.Errorf("%w: battle %d: %v", ErrStoreSync, battleID, err)
		}
		e.logger.Debug().Int64("battle_id", battleID).Msg("battle record already synced")
	}

	e.applied.SetDefault(key, struct{}{})
	e.metrics.completed("created")
	e.logger.Info().Int64("battle_id", battleID).Msg("battle creation synced")
	return nil
}

// SyncBattleFinished persists the final outcome, the decoded attack log, and
// both participants' aggregate stat deltas. Sub-steps are isolated: a failed
// event insert never aborts the outcome or stats writes.
func (e *Engine) SyncBattleFinished(ctx context.Context, battleID int64, receipt *ledger.Receipt) error {
	key := fmt.Sprintf("finished:%d", battleID)
	if _, dup := e.applied.Get(key); dup {
		return nil
	}

	b, err := e.readBattleWithRetry(ctx, battleID, battle.StatusFinished)
	if err != nil {
		return err
	}

	winnerID, err := e.resolveWinner(b, receipt)
	if err != nil {
		return err
	}

	// Mark applied before the store writes: every write below is keyed and
	// idempotent except the stats delta, and replaying that would double
	// count. Replay protection wins over partial-failure repair.
	e.applied.SetDefault(key, struct{}{})

	var failures []error

	if err := e.battles.SetOutcome(ctx, battleID, winnerID, b.Health1, b.Health2); err != nil && !errors.Is(err, battle.ErrDuplicate) {
		e.metrics.failed(stepOutcome)
		e.logger.Warn().Err(err).Int64("battle_id", battleID).Msg("battle outcome write failed")
		failures = append(failures, fmt.Errorf("%w: outcome: %v", ErrStoreSync, err))
	}

	attacks := attacksFor(receipt, battleID)
	for _, a := range attacks {
		ev := &battle.Event{
			BattleID:   battleID,
			Kind:       battle.EventAttack,
			AttackerID: a.AttackerID,
			DefenderID: a.DefenderID,
			Damage:     a.Damage,
			LogIndex:   a.LogIndex,
		}
		if receipt != nil {
			ev.TxHash = receipt.TxHash
		}
		if err := e.battles.InsertEvent(ctx, ev); err != nil && !errors.Is(err, battle.ErrDuplicate) {
			// best effort: one lost log entry never aborts the sync
			e.metrics.failed(stepEvents)
			e.logger.Warn().Err(err).
				Int64("battle_id", battleID).
				Uint("log_index", a.LogIndex).
				Msg("battle event insert failed; skipping")
		}
	}

	failures = append(failures, e.syncStats(ctx, b, winnerID, attacks)...)

	e.metrics.completed("finished")
	e.logger.Info().
		Int64("battle_id", battleID).
		Int64("winner_id", winnerID).
		Int("events", len(attacks)).
		Msg("battle completion synced")
	return errors.Join(failures...)
}

// resolveWinner prefers the receipt's finish event and falls back to the
// re-read ledger state, mirroring the confirmation tie-break.
func (e *Engine) resolveWinner(b *battle.Battle, receipt *ledger.Receipt) (int64, error) {
	if receipt != nil {
		for _, fin := range receipt.Finished {
			if fin.BattleID == b.ID {
				return fin.WinnerID, nil
			}
		}
	}
	if b.WinnerID != nil {
		return *b.WinnerID, nil
	}
	return 0, fmt.Errorf("%w: battle %d has no observable winner", ErrReconciliation, b.ID)
}

// syncStats applies one battle's delta to both participants. A failure for
// one agent is isolated from the other.
func (e *Engine) syncStats(ctx context.Context, b *battle.Battle, winnerID int64, attacks []ledger.AttackEvent) []error {
	dealt := map[int64]int64{}
	received := map[int64]int64{}
	for _, a := range attacks {
		dealt[a.AttackerID] += a.Damage
		received[a.DefenderID] += a.Damage
	}

	var failures []error
	for _, agentID := range []int64{b.Agent1ID, b.Agent2ID} {
		delta := agent.BattleOutcomeDelta(agentID == winnerID, dealt[agentID], received[agentID])
		if err := e.stats.ApplyDelta(ctx, agentID, delta); err != nil {
			e.metrics.failed(stepStats)
			e.logger.Warn().Err(err).Int64("agent_id", agentID).Msg("agent stats update failed")
			failures = append(failures, fmt.Errorf("%w: stats for agent %d: %v", ErrStoreSync, agentID, err))
		}
	}
	return failures
}

// readBattleWithRetry reads the battle from the ledger, retrying on a fixed
// delay while the read path lags the just-confirmed transaction. If the
// battle shows up but never reaches the wanted status within the budget, the
// last read wins; a battle that never shows up at all is a reconciliation
// failure.
func (e *Engine) readBattleWithRetry(ctx context.Context, battleID int64, want battle.Status) (*battle.Battle, error) {
	var last *battle.Battle
	for attempt := 0; ; attempt++ {
		b, err := e.ledger.ReadBattle(ctx, battleID)
		if err == nil && b != nil {
			last = b
			if b.Status == want {
				return b, nil
			}
		} else if err != nil && !errors.Is(err, ledger.ErrNotFound) {
			e.logger.Warn().Err(err).Int64("battle_id", battleID).Int("attempt", attempt+1).Msg("ledger battle read failed")
		}
		if attempt >= e.cfg.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.cfg.RetryDelay):
		}
	}
	if last == nil {
		return nil, fmt.Errorf("%w: battle %d unreadable after %d attempts", ErrReconciliation, battleID, e.cfg.MaxRetries+1)
	}
	return last, nil
}

// attacksFor filters and returns the receipt's attack events for the battle,
// preserving ledger log order.
func attacksFor(receipt *ledger.Receipt, battleID int64) []ledger.AttackEvent {
	if receipt == nil {
		return nil
	}
	var out []ledger.AttackEvent
	for _, a := range receipt.Attacks {
		if a.BattleID == battleID {
			out = append(out, a)
		}
	}
	return out
}
