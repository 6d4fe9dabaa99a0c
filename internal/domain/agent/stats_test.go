package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_Apply(t *testing.T) {
	s := Stats{AgentID: 42, TotalBattles: 3, Wins: 2, Losses: 1, TotalDamageDealt: 300, TotalDamageReceived: 150}
	s.Apply(StatsDelta{Battles: 1, Wins: 1, DamageDealt: 80, DamageReceived: 20})

	assert.Equal(t, int64(4), s.TotalBattles)
	assert.Equal(t, int64(3), s.Wins)
	assert.Equal(t, int64(1), s.Losses)
	assert.Equal(t, int64(380), s.TotalDamageDealt)
	assert.Equal(t, int64(170), s.TotalDamageReceived)
}

func TestBattleOutcomeDelta(t *testing.T) {
	t.Run("winner", func(t *testing.T) {
		d := BattleOutcomeDelta(true, 120, 45)
		assert.Equal(t, StatsDelta{Battles: 1, Wins: 1, DamageDealt: 120, DamageReceived: 45}, d)
	})
	t.Run("loser", func(t *testing.T) {
		d := BattleOutcomeDelta(false, 45, 120)
		assert.Equal(t, StatsDelta{Battles: 1, Losses: 1, DamageDealt: 45, DamageReceived: 120}, d)
	})
}
