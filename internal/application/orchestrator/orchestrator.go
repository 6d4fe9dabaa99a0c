package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arena-bridge/arena-bridge/internal/domain/battle"
	"github.com/arena-bridge/arena-bridge/internal/domain/ledger"
)

// State is the client-local battle lifecycle state.
type State string

const (
	StateIdle     State = "idle"
	StateCreating State = "creating"
	StateWaiting  State = "waiting"
	StateFighting State = "fighting"
	StateFinished State = "finished"
)

// Config carries the observed timing knobs. Values mirror production
// behavior; tune via environment, not here.
type Config struct {
	PollInterval    time.Duration
	ConfirmTimeout  time.Duration
	ResolveGasLimit uint64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval:    2 * time.Second,
		ConfirmTimeout:  2 * time.Minute,
		ResolveGasLimit: 1_500_000,
	}
}

// Syncer persists confirmed ledger facts into the store. Receipt may be nil
// when the confirming path observed the fact without one.
type Syncer interface {
	SyncBattleCreated(ctx context.Context, battleID int64, receipt *ledger.Receipt) error
	SyncBattleFinished(ctx context.Context, battleID int64, receipt *ledger.Receipt) error
}

// CreateParams are the caller-supplied arguments for a new battle.
type CreateParams struct {
	Agent1ID int64            `json:"agent1Id"`
	Agent2ID int64            `json:"agent2Id"`
	Tactics1 battle.Tactics   `json:"agent1Tactics"`
	Tactics2 battle.Tactics   `json:"agent2Tactics"`
	Arena    battle.ArenaType `json:"arenaType"`
}

// Validate checks params before anything touches the ledger.
func (p CreateParams) Validate() error {
	if p.Agent1ID == p.Agent2ID {
		return battle.ErrSameAgent
	}
	if err := p.Tactics1.Validate(); err != nil {
		return err
	}
	if err := p.Tactics2.Validate(); err != nil {
		return err
	}
	if !p.Arena.Valid() {
		return battle.ErrInvalidArena
	}
	return nil
}

// Snapshot is the coherent state signal exposed to the presentation layer.
type Snapshot struct {
	State     State  `json:"state"`
	BattleID  *int64 `json:"battleId,omitempty"`
	LastError string `json:"lastError,omitempty"`
}

// session is the transient orchestration session. Owned exclusively by the
// Orchestrator, never persisted. Watchers carry the session id and discard
// their result when it no longer matches.
type session struct {
	id          uuid.UUID
	state       State
	battleID    int64
	idConfirmed bool
	lastErr     string

	// ctx scopes every watcher of this session; cancelled on reset.
	ctx    context.Context
	cancel context.CancelFunc
}

// Orchestrator drives one battle at a time: it submits the start and resolve
// transactions, reconciles event/receipt/poll confirmations into a single
// idempotent transition, and hands confirmed facts to the sync engine.
//
// One logical session per instance: CreateBattle and ExecuteFight are not
// meant to be called concurrently; the API layer serializes them. The
// internal mutex only guards the confirmation check-and-set against the
// watcher goroutines.
type Orchestrator struct {
	ledger  ledger.Client
	fees    ledger.FeeOracle
	syncer  Syncer
	cfg     Config
	metrics *Metrics
	logger  zerolog.Logger

	mu   sync.Mutex
	sess *session
}

// New creates an orchestrator in the idle state.
func New(lc ledger.Client, fees ledger.FeeOracle, syncer Syncer, cfg Config, metrics *Metrics, logger zerolog.Logger) *Orchestrator {
	o := &Orchestrator{
		ledger:  lc,
		fees:    fees,
		syncer:  syncer,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With().Str("service", "orchestrator").Logger(),
	}
	o.sess = newSession()
	return o
}

func newSession() *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{id: uuid.New(), state: StateIdle, ctx: ctx, cancel: cancel}
}

// Snapshot returns the current state signal.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	snap := Snapshot{State: o.sess.state, LastError: o.sess.lastErr}
	if o.sess.idConfirmed {
		id := o.sess.battleID
		snap.BattleID = &id
	}
	return snap
}

// CreateBattle submits the start transaction and begins watching for its
// confirmation. Requires the idle state and a configured fee oracle.
func (o *Orchestrator) CreateBattle(ctx context.Context, params CreateParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	if o.sess.state != StateIdle {
		o.mu.Unlock()
		return fmt.Errorf("%w: create requires idle, current %s", ErrInvalidState, o.sess.state)
	}
	if !o.fees.Configured() {
		o.sess.lastErr = ErrNotConfigured.Error()
		o.mu.Unlock()
		return ErrNotConfigured
	}
	sid := o.sess.id
	o.sess.state = StateCreating
	o.sess.lastErr = ""
	o.sess.battleID = 0
	o.sess.idConfirmed = false
	watchCtx := o.sess.ctx
	o.mu.Unlock()

	fee, err := o.fees.Fee(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrNotConfigured, err)
		o.revert(sid, StateCreating, StateIdle, err)
		return err
	}

	tx, err := o.ledger.SubmitStart(ctx, ledger.StartParams{
		Agent1ID: params.Agent1ID,
		Tactics1: params.Tactics1,
		Agent2ID: params.Agent2ID,
		Tactics2: params.Tactics2,
		Arena:    params.Arena,
		Fee:      fee,
	})
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrSubmission, err)
		o.revert(sid, StateCreating, StateIdle, err)
		return err
	}

	o.logger.Info().Str("tx", string(tx)).Msg("start transaction submitted")
	go o.watchStart(watchCtx, sid, tx)
	return nil
}

// ExecuteFight submits the resolve transaction for the confirmed battle and
// begins watching for the outcome. Requires the waiting state. On failure the
// session reverts to waiting so the caller can retry without recreating the
// battle.
func (o *Orchestrator) ExecuteFight(ctx context.Context) error {
	o.mu.Lock()
	if o.sess.state != StateWaiting || !o.sess.idConfirmed {
		o.mu.Unlock()
		return fmt.Errorf("%w: fight requires a confirmed battle in waiting, current %s", ErrInvalidState, o.sess.state)
	}
	if !o.fees.Configured() {
		o.sess.lastErr = ErrNotConfigured.Error()
		o.mu.Unlock()
		return ErrNotConfigured
	}
	sid := o.sess.id
	battleID := o.sess.battleID
	o.sess.state = StateFighting
	o.sess.lastErr = ""
	watchCtx := o.sess.ctx
	o.mu.Unlock()

	fee, err := o.fees.Fee(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrNotConfigured, err)
		o.revert(sid, StateFighting, StateWaiting, err)
		return err
	}

	tx, err := o.ledger.SubmitResolve(ctx, ledger.ResolveParams{
		BattleID: battleID,
		Fee:      fee,
		GasLimit: o.cfg.ResolveGasLimit,
	})
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrSubmission, err)
		o.revert(sid, StateFighting, StateWaiting, err)
		return err
	}

	o.logger.Info().Int64("battle_id", battleID).Str("tx", string(tx)).Msg("resolve transaction submitted")
	go o.watchFinish(watchCtx, sid, battleID, tx)
	return nil
}

// Reset unconditionally discards the current session and returns to idle.
// Ledger and store effects already committed are not rolled back. All
// in-flight watchers for the abandoned session are cancelled; any that
// already fired fail the session-id check and discard their result.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sess.cancel()
	o.sess = newSession()
	o.logger.Info().Msg("battle session reset")
}

// revert undoes an optimistic transition after a submission-side failure.
func (o *Orchestrator) revert(sid uuid.UUID, from, to State, cause error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.sess.id != sid || o.sess.state != from {
		return
	}
	o.sess.state = to
	o.sess.lastErr = cause.Error()
	o.logger.Warn().Err(cause).Str("state", string(to)).Msg("battle operation reverted")
}

// applyStartConfirmed is the single transition function for creating ->
// waiting. It is idempotent: every observation path funnels through the same
// (session id, state) check-and-set, and only the first application wins.
// A sentinel zero identifier is recovered from the ledger's monotonic battle
// counter before the transition is taken; id 0 is never adopted.
func (o *Orchestrator) applyStartConfirmed(ctx context.Context, sid uuid.UUID, battleID int64, path string) (int64, bool, error) {
	o.mu.Lock()
	if o.sess.id != sid || o.sess.state != StateCreating {
		o.mu.Unlock()
		return 0, false, nil
	}
	o.mu.Unlock()

	if battleID == 0 {
		count, err := o.ledger.ReadBattleCount(ctx)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %v", ErrIdentifierRecovery, err)
		}
		if count == 0 {
			return 0, false, fmt.Errorf("%w: battle counter is zero", ErrIdentifierRecovery)
		}
		battleID = count
		o.logger.Warn().Int64("battle_id", battleID).Msg("recovered battle id from ledger counter")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.sess.id != sid || o.sess.state != StateCreating {
		return 0, false, nil
	}
	o.sess.battleID = battleID
	o.sess.idConfirmed = true
	o.sess.state = StateWaiting
	o.sess.lastErr = ""
	o.metrics.confirmed(path)
	o.metrics.started()
	o.logger.Info().Int64("battle_id", battleID).Str("path", path).Msg("battle start confirmed")
	return battleID, true, nil
}

// applyFinishConfirmed is the single transition function for fighting ->
// finished, shared by the event, receipt and poll paths. First observer wins;
// later observations of the same fact are no-ops.
func (o *Orchestrator) applyFinishConfirmed(sid uuid.UUID, battleID, winnerID int64, path string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.sess.id != sid || o.sess.state != StateFighting || o.sess.battleID != battleID {
		return false
	}
	o.sess.state = StateFinished
	o.sess.lastErr = ""
	o.metrics.confirmed(path)
	o.metrics.finished()
	o.logger.Info().
		Int64("battle_id", battleID).
		Int64("winner_id", winnerID).
		Str("path", path).
		Msg("battle finish confirmed")
	return true
}
