package agent

import "time"

// Stats is the store-side aggregate for one agent. It is derived data,
// mutated only by the sync engine when a battle finishes.
type Stats struct {
	AgentID             int64     `json:"agentId"`
	TotalBattles        int64     `json:"totalBattles"`
	Wins                int64     `json:"wins"`
	Losses              int64     `json:"losses"`
	TotalDamageDealt    int64     `json:"totalDamageDealt"`
	TotalDamageReceived int64     `json:"totalDamageReceived"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// StatsDelta is one battle's contribution to an agent's aggregate. The store
// applies it as an atomic increment so concurrent battles for the same agent
// do not lose updates.
type StatsDelta struct {
	Battles        int64
	Wins           int64
	Losses         int64
	DamageDealt    int64
	DamageReceived int64
}

// Apply folds the delta into s.
func (s *Stats) Apply(d StatsDelta) {
	s.TotalBattles += d.Battles
	s.Wins += d.Wins
	s.Losses += d.Losses
	s.TotalDamageDealt += d.DamageDealt
	s.TotalDamageReceived += d.DamageReceived
}

// BattleOutcomeDelta builds the per-agent delta for a finished battle.
func BattleOutcomeDelta(won bool, damageDealt, damageReceived int64) StatsDelta {
	d := StatsDelta{
		Battles:        1,
		DamageDealt:    damageDealt,
		DamageReceived: damageReceived,
	}
	if won {
		d.Wins = 1
	} else {
		d.Losses = 1
	}
	return d
}
