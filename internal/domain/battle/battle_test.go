package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTactics_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tactics Tactics
		wantErr bool
	}{
		{"balanced defaults", Tactics{Strategy: StrategyBalanced, Aggressiveness: 50, RiskTolerance: 50}, false},
		{"boundary values", Tactics{Strategy: StrategyDefensive, Aggressiveness: 0, RiskTolerance: 100}, false},
		{"aggressiveness over 100", Tactics{Strategy: StrategyBalanced, Aggressiveness: 101, RiskTolerance: 10}, true},
		{"risk tolerance over 100", Tactics{Strategy: StrategyTactician, Aggressiveness: 10, RiskTolerance: 200}, true},
		{"unknown strategy", Tactics{Strategy: Strategy(9), Aggressiveness: 10, RiskTolerance: 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tactics.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTactics)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestContractStatus(t *testing.T) {
	s, err := ContractStatus(0)
	require.NoError(t, err)
	assert.Equal(t, StatusOngoing, s)

	s, err = ContractStatus(1)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, s)

	_, err = ContractStatus(2)
	assert.Error(t, err)
}

func TestBattle_Finish(t *testing.T) {
	newBattle := func() *Battle {
		return &Battle{ID: 101, Agent1ID: 42, Agent2ID: 7, Status: StatusOngoing}
	}

	t.Run("winner must be a participant", func(t *testing.T) {
		b := newBattle()
		err := b.Finish(99)
		require.Error(t, err)
		assert.Equal(t, StatusOngoing, b.Status)
		assert.Nil(t, b.WinnerID)
	})

	t.Run("finish sets winner", func(t *testing.T) {
		b := newBattle()
		require.NoError(t, b.Finish(42))
		assert.Equal(t, StatusFinished, b.Status)
		require.NotNil(t, b.WinnerID)
		assert.Equal(t, int64(42), *b.WinnerID)

		loser, ok := b.LoserID()
		require.True(t, ok)
		assert.Equal(t, int64(7), loser)
	})

	t.Run("repeat finish with same winner is a no-op", func(t *testing.T) {
		b := newBattle()
		require.NoError(t, b.Finish(7))
		require.NoError(t, b.Finish(7))
		assert.Equal(t, int64(7), *b.WinnerID)
	})

	t.Run("finished battles never change winner", func(t *testing.T) {
		b := newBattle()
		require.NoError(t, b.Finish(7))
		err := b.Finish(42)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, int64(7), *b.WinnerID)
	})
}

func TestBattle_LoserID_Unfinished(t *testing.T) {
	b := &Battle{ID: 1, Agent1ID: 1, Agent2ID: 2, Status: StatusOngoing}
	_, ok := b.LoserID()
	assert.False(t, ok)
}
