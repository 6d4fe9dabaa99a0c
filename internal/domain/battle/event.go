package battle

import "time"

// EventKind classifies a battle log entry.
type EventKind string

const (
	EventAttack EventKind = "attack"
)

// Event is a single decoded battle log entry. Events are append-only and
// ordered by the ledger log index within their transaction.
type Event struct {
	ID         int64     `json:"id"`
	BattleID   int64     `json:"battleId"`
	Kind       EventKind `json:"eventType"`
	AttackerID int64     `json:"attackerId"`
	DefenderID int64     `json:"defenderId"`
	Damage     int64     `json:"damage"`
	TxHash     string    `json:"txHash"`
	LogIndex   uint      `json:"logIndex"`
	CreatedAt  time.Time `json:"createdAt"`
}
