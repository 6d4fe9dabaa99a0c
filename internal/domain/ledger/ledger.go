package ledger

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_ledger.go -package=mocks . Client,FeeOracle,Subscription

import (
	"context"
	"errors"
	"math/big"

	"github.com/arena-bridge/arena-bridge/internal/domain/battle"
)

var (
	// ErrNotConfigured is returned when a required on-chain capability
	// (contract address, fee provider) is missing from configuration.
	ErrNotConfigured = errors.New("ledger capability not configured")

	// ErrNotFound is returned by reads for battles the ledger does not
	// know about (yet).
	ErrNotFound = errors.New("battle not found on ledger")
)

// TxHandle identifies a submitted transaction.
type TxHandle string

// StartedEvent is the decoded BattleStarted log.
type StartedEvent struct {
	BattleID int64
	Agent1ID int64
	Agent2ID int64
	Arena    battle.ArenaType
}

// FinishedEvent is the decoded BattleFinished log.
type FinishedEvent struct {
	BattleID int64
	WinnerID int64
	LoserID  int64
}

// AttackEvent is one decoded Attack log. LogIndex preserves the ledger's
// in-transaction ordering.
type AttackEvent struct {
	BattleID   int64
	AttackerID int64
	DefenderID int64
	Damage     int64
	LogIndex   uint
}

// Receipt is the confirmation record for an included transaction. The client
// decodes all battle events it recognizes out of the receipt's logs, so
// consumers never touch raw log topics.
type Receipt struct {
	TxHash      string
	BlockNumber int64
	GasUsed     int64
	Started     []StartedEvent
	Finished    []FinishedEvent
	Attacks     []AttackEvent
}

// StartParams are the arguments of the start transaction.
type StartParams struct {
	Agent1ID int64
	Tactics1 battle.Tactics
	Agent2ID int64
	Tactics2 battle.Tactics
	Arena    battle.ArenaType
	Fee      *big.Int
}

// ResolveParams are the arguments of the resolve transaction. GasLimit is an
// explicit ceiling; resolution is heavier than start.
type ResolveParams struct {
	BattleID int64
	Fee      *big.Int
	GasLimit uint64
}

// Subscription is a cancellable event stream handle.
type Subscription interface {
	// Unsubscribe tears the stream down. Safe to call more than once.
	Unsubscribe()
	// Err reports a terminal stream failure. Closed on Unsubscribe.
	Err() <-chan error
}

// Client is the thin ledger capability the engine consumes. The contract's
// battle resolution itself is an opaque authority behind this interface.
type Client interface {
	SubmitStart(ctx context.Context, params StartParams) (TxHandle, error)
	SubmitResolve(ctx context.Context, params ResolveParams) (TxHandle, error)
	AwaitReceipt(ctx context.Context, tx TxHandle) (*Receipt, error)
	ReadBattle(ctx context.Context, battleID int64) (*battle.Battle, error)
	ReadBattleCount(ctx context.Context) (int64, error)
	SubscribeStarted(ctx context.Context, sink chan<- StartedEvent) (Subscription, error)
	SubscribeFinished(ctx context.Context, battleID int64, sink chan<- FinishedEvent) (Subscription, error)
}

// FeeOracle reports the current verifiable-randomness fee required by
// ledger-mutating operations. When unconfigured, those operations refuse.
type FeeOracle interface {
	Configured() bool
	Fee(ctx context.Context) (*big.Int, error)
}
