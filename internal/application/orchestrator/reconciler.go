package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arena-bridge/arena-bridge/internal/domain/battle"
	"github.com/arena-bridge/arena-bridge/internal/domain/ledger"
)

// The reconciler merges up to three independent observation paths into the
// idempotent transitions on the state machine:
//
//   - an event subscription, active only while its state window is open
//   - the awaited transaction receipt, with a synchronous log decode
//   - a fixed-interval poll of ledger state (finish only) as the backstop
//
// Event delivery is not guaranteed, so subscription failures are warnings,
// never transitions. Whichever path observes the fact first wins; the rest
// are no-ops.

type receiptResult struct {
	receipt *ledger.Receipt
	err     error
}

// subErr returns the subscription's error channel, or a nil channel that
// blocks forever when there is no live subscription.
func subErr(sub ledger.Subscription) <-chan error {
	if sub == nil {
		return nil
	}
	return sub.Err()
}

// watchStart confirms the start transaction: subscription plus receipt
// decode. Runs until confirmed, failed, timed out or the session is reset.
func (o *Orchestrator) watchStart(ctx context.Context, sid uuid.UUID, tx ledger.TxHandle) {
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan ledger.StartedEvent, 4)
	sub, err := o.ledger.SubscribeStarted(watchCtx, events)
	if err != nil {
		o.metrics.watchWarning()
		o.logger.Warn().Err(err).Msg("start event subscription failed; receipt path still active")
		sub = nil
	} else {
		defer sub.Unsubscribe()
	}

	receipts := make(chan receiptResult, 1)
	go func() {
		r, err := o.ledger.AwaitReceipt(watchCtx, tx)
		receipts <- receiptResult{r, err}
	}()

	timeout := time.NewTimer(o.cfg.ConfirmTimeout)
	defer timeout.Stop()

	var (
		battleID int64
		receipt  *ledger.Receipt
		applied  bool
		linger   <-chan time.Time
	)

loop:
	for {
		select {
		case <-watchCtx.Done():
			return

		case <-timeout.C:
			if applied {
				break loop
			}
			o.revert(sid, StateCreating, StateIdle, ErrConfirmationTimeout)
			return

		case <-linger:
			break loop

		case ev := <-events:
			id, first, err := o.applyStartConfirmed(watchCtx, sid, ev.BattleID, pathEvent)
			if err != nil {
				o.revert(sid, StateCreating, StateIdle, err)
				return
			}
			if first {
				battleID = id
				applied = true
			}

		case err := <-subErr(sub):
			o.metrics.watchWarning()
			o.logger.Warn().Err(err).Msg("start event subscription error; receipt path still active")
			sub = nil

		case res := <-receipts:
			receipts = nil
			if res.err != nil {
				if applied {
					break loop
				}
				o.revert(sid, StateCreating, StateIdle, fmt.Errorf("%w: %v", ErrSubmission, res.err))
				return
			}
			receipt = res.receipt
			if !applied {
				// A receipt without a decodable start event yields the
				// sentinel id 0; the transition recovers the real id
				// from the battle counter before adopting anything.
				var evID int64
				if len(receipt.Started) > 0 {
					evID = receipt.Started[0].BattleID
				}
				id, first, err := o.applyStartConfirmed(watchCtx, sid, evID, pathReceipt)
				if err != nil {
					o.revert(sid, StateCreating, StateIdle, err)
					return
				}
				if first {
					battleID = id
					applied = true
				}
			}
		}

		// Once confirmed, linger briefly for the receipt so the sync can
		// carry transaction metadata, then proceed without it.
		if applied && (receipt != nil || receipts == nil) {
			break loop
		}
		if applied && linger == nil {
			linger = time.After(o.cfg.PollInterval)
		}
	}

	if !applied {
		return
	}
	if err := o.syncer.SyncBattleCreated(watchCtx, battleID, receipt); err != nil {
		// the ledger fact stands; the store catches up later
		o.logger.Warn().Err(err).Int64("battle_id", battleID).Msg("battle create sync failed")
	}
}

// watchFinish confirms the resolve transaction: subscription scoped to the
// battle id, receipt decode, and the poll backstop reading ledger state on a
// fixed interval.
func (o *Orchestrator) watchFinish(ctx context.Context, sid uuid.UUID, battleID int64, tx ledger.TxHandle) {
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan ledger.FinishedEvent, 4)
	sub, err := o.ledger.SubscribeFinished(watchCtx, battleID, events)
	if err != nil {
		o.metrics.watchWarning()
		o.logger.Warn().Err(err).Msg("finish event subscription failed; poll path still active")
		sub = nil
	} else {
		defer sub.Unsubscribe()
	}

	receipts := make(chan receiptResult, 1)
	go func() {
		r, err := o.ledger.AwaitReceipt(watchCtx, tx)
		receipts <- receiptResult{r, err}
	}()

	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()
	timeout := time.NewTimer(o.cfg.ConfirmTimeout)
	defer timeout.Stop()

	var (
		receipt *ledger.Receipt
		applied bool
		linger  <-chan time.Time
	)

loop:
	for {
		select {
		case <-watchCtx.Done():
			return

		case <-timeout.C:
			if applied {
				break loop
			}
			o.revert(sid, StateFighting, StateWaiting, ErrConfirmationTimeout)
			return

		case <-linger:
			break loop

		case ev := <-events:
			if ev.BattleID != battleID {
				continue
			}
			if o.applyFinishConfirmed(sid, battleID, ev.WinnerID, pathEvent) {
				applied = true
			}

		case err := <-subErr(sub):
			o.metrics.watchWarning()
			o.logger.Warn().Err(err).Msg("finish event subscription error; poll path still active")
			sub = nil

		case res := <-receipts:
			receipts = nil
			if res.err != nil {
				if applied {
					break loop
				}
				o.revert(sid, StateFighting, StateWaiting, fmt.Errorf("%w: %v", ErrSubmission, res.err))
				return
			}
			receipt = res.receipt
			if !applied {
				for _, fin := range receipt.Finished {
					if fin.BattleID != battleID {
						continue
					}
					if o.applyFinishConfirmed(sid, battleID, fin.WinnerID, pathReceipt) {
						applied = true
					}
					break
				}
			}

		case <-ticker.C:
			if applied {
				continue
			}
			b, err := o.ledger.ReadBattle(watchCtx, battleID)
			if err != nil {
				o.metrics.watchWarning()
				o.logger.Warn().Err(err).Int64("battle_id", battleID).Msg("battle poll failed")
				continue
			}
			if b == nil || b.Status != battle.StatusFinished || b.WinnerID == nil {
				continue
			}
			if o.applyFinishConfirmed(sid, battleID, *b.WinnerID, pathPoll) {
				applied = true
			}
		}

		// The finish receipt carries the attack log, so give it one poll
		// interval to arrive before syncing without it.
		if applied && (receipt != nil || receipts == nil) {
			break loop
		}
		if applied && linger == nil {
			linger = time.After(o.cfg.PollInterval)
		}
	}

	if !applied {
		return
	}
	if err := o.syncer.SyncBattleFinished(watchCtx, battleID, receipt); err != nil {
		o.logger.Warn().Err(err).Int64("battle_id", battleID).Msg("battle finish sync failed")
	}
}
