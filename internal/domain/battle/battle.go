package battle

import (
	"errors"
	"fmt"
	"time"
)

// Status represents the on-chain lifecycle status of a battle.
type Status string

const (
	StatusOngoing  Status = "ONGOING"
	StatusFinished Status = "FINISHED"
)

// ContractStatus maps the contract's numeric status to Status.
// The contract encodes 0 = Ongoing, 1 = Finished.
func ContractStatus(v uint8) (Status, error) {
	switch v {
	case 0:
		return StatusOngoing, nil
	case 1:
		return StatusFinished, nil
	default:
		return "", fmt.Errorf("unknown battle status %d", v)
	}
}

// Strategy is the tactic strategy enum shared with the contract.
type Strategy uint8

const (
	StrategyBalanced Strategy = iota
	StrategyBerserker
	StrategyTactician
	StrategyDefensive
)

func (s Strategy) Valid() bool {
	return s <= StrategyDefensive
}

// ArenaType selects the arena the battle is fought in.
type ArenaType uint8

const (
	ArenaNeutralFields ArenaType = iota
	ArenaVolcanicPlains
	ArenaMysticForest
)

func (a ArenaType) Valid() bool {
	return a <= ArenaMysticForest
}

var (
	ErrInvalidTactics    = errors.New("invalid battle tactics")
	ErrInvalidArena      = errors.New("invalid arena type")
	ErrInvalidTransition = errors.New("invalid battle status transition")
	ErrSameAgent         = errors.New("battle requires two distinct agents")
	ErrDuplicate         = errors.New("battle record already exists")
)

// Tactics is one participant's battle configuration.
type Tactics struct {
	Strategy       Strategy `json:"strategy"`
	Aggressiveness uint8    `json:"aggressiveness"`
	RiskTolerance  uint8    `json:"riskTolerance"`
}

// Validate checks tactic bounds. Percentages are 0-100.
func (t Tactics) Validate() error {
	if !t.Strategy.Valid() {
		return fmt.Errorf("%w: unknown strategy %d", ErrInvalidTactics, t.Strategy)
	}
	if t.Aggressiveness > 100 {
		return fmt.Errorf("%w: aggressiveness %d out of range", ErrInvalidTactics, t.Aggressiveness)
	}
	if t.RiskTolerance > 100 {
		return fmt.Errorf("%w: risk tolerance %d out of range", ErrInvalidTactics, t.RiskTolerance)
	}
	return nil
}

// Battle is the store-side shadow of a ledger battle. The ledger copy is
// authoritative; this record is derived and eventually consistent.
type Battle struct {
	ID          int64      `json:"id"`
	Agent1ID    int64      `json:"agent1Id"`
	Agent2ID    int64      `json:"agent2Id"`
	Tactics1    Tactics    `json:"agent1Tactics"`
	Tactics2    Tactics    `json:"agent2Tactics"`
	Arena       ArenaType  `json:"arenaType"`
	Status      Status     `json:"status"`
	WinnerID    *int64     `json:"winnerId,omitempty"`
	Health1     int64      `json:"agent1Health"`
	Health2     int64      `json:"agent2Health"`
	TxHash      string     `json:"txHash,omitempty"`
	BlockNumber *int64     `json:"blockNumber,omitempty"`
	GasUsed     *int64     `json:"gasUsed,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Participant reports whether id is one of the battle's two agents.
func (b *Battle) Participant(id int64) bool {
	return id == b.Agent1ID || id == b.Agent2ID
}

// Finish marks the battle finished with the given winner. Transitions only
// move Ongoing -> Finished; the winner must be a participant.
func (b *Battle) Finish(winnerID int64) error {
	if b.Status == StatusFinished {
		if b.WinnerID != nil && *b.WinnerID == winnerID {
			return nil
		}
		return ErrInvalidTransition
	}
	if !b.Participant(winnerID) {
		return fmt.Errorf("winner %d is not a participant of battle %d", winnerID, b.ID)
	}
	b.Status = StatusFinished
	b.WinnerID = &winnerID
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// LoserID returns the losing participant once the battle is finished.
func (b *Battle) LoserID() (int64, bool) {
	if b.Status != StatusFinished || b.WinnerID == nil {
		return 0, false
	}
	if *b.WinnerID == b.Agent1ID {
		return b.Agent2ID, true
	}
	return b.Agent1ID, true
}
