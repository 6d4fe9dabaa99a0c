package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/arena-bridge/arena-bridge/internal/domain/agent"
	agentMocks "github.com/arena-bridge/arena-bridge/internal/domain/agent/mocks"
	"github.com/arena-bridge/arena-bridge/internal/domain/battle"
	battleMocks "github.com/arena-bridge/arena-bridge/internal/domain/battle/mocks"
	"github.com/arena-bridge/arena-bridge/internal/domain/ledger"
	ledgerMocks "github.com/arena-bridge/arena-bridge/internal/domain/ledger/mocks"
)

func testConfig() Config {
	return Config{MaxRetries: 2, RetryDelay: time.Millisecond, DedupeTTL: time.Minute}
}

func ongoingBattle() *battle.Battle {
	return &battle.Battle{
		ID:       101,
		Agent1ID: 42,
		Agent2ID: 7,
		Arena:    battle.ArenaVolcanicPlains,
		Status:   battle.StatusOngoing,
		Health1:  100,
		Health2:  100,
	}
}

func finishedBattle() *battle.Battle {
	winner := int64(42)
	b := ongoingBattle()
	b.Status = battle.StatusFinished
	b.WinnerID = &winner
	b.Health1 = 61
	b.Health2 = 0
	return b
}

func TestEngine_SyncBattleCreated(t *testing.T) {
	t.Run("upserts battle with receipt metadata", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lc := ledgerMocks.NewMockClient(ctrl)
		battles := new(battleMocks.MockRepository)
		stats := new(agentMocks.MockStatsRepository)
		e := NewEngine(battles, stats, lc, testConfig(), nil, zerolog.Nop())

		lc.EXPECT().ReadBattle(gomock.Any(), int64(101)).Return(ongoingBattle(), nil)
		battles.On("Upsert", mock.Anything, mock.MatchedBy(func(b *battle.Battle) bool {
			return b.ID == 101 && b.Agent1ID == 42 && b.Agent2ID == 7 &&
				b.Status == battle.StatusOngoing && b.TxHash == "0xabc"
		})).Return(nil)

		receipt := &ledger.Receipt{TxHash: "0xabc", BlockNumber: 900, GasUsed: 21000}
		err := e.SyncBattleCreated(context.Background(), 101, receipt)

		require.NoError(t, err)
		battles.AssertExpectations(t)
	})

	t.Run("retries read-after-write lag", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lc := ledgerMocks.NewMockClient(ctrl)
		battles := new(battleMocks.MockRepository)
		stats := new(agentMocks.MockStatsRepository)
		e := NewEngine(battles, stats, lc, testConfig(), nil, zerolog.Nop())

		gomock.InOrder(
			lc.EXPECT().ReadBattle(gomock.Any(), int64(101)).Return(nil, ledger.ErrNotFound),
			lc.EXPECT().ReadBattle(gomock.Any(), int64(101)).Return(ongoingBattle(), nil),
		)
		battles.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		err := e.SyncBattleCreated(context.Background(), 101, nil)

		require.NoError(t, err)
	})

	t.Run("duplicate record is success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lc := ledgerMocks.NewMockClient(ctrl)
		battles := new(battleMocks.MockRepository)
		stats := new(agentMocks.MockStatsRepository)
		e := NewEngine(battles, stats, lc, testConfig(), nil, zerolog.Nop())

		lc.EXPECT().ReadBattle(gomock.Any(), int64(101)).Return(ongoingBattle(), nil)
		battles.On("Upsert", mock.Anything, mock.Anything).Return(battle.ErrDuplicate)

		err := e.SyncBattleCreated(context.Background(), 101, nil)

		require.NoError(t, err)
	})

	t.Run("read exhaustion is a reconciliation failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lc := ledgerMocks.NewMockClient(ctrl)
		battles := new(battleMocks.MockRepository)
		stats := new(agentMocks.MockStatsRepository)
		e := NewEngine(battles, stats, lc, testConfig(), nil, zerolog.Nop())

		lc.EXPECT().ReadBattle(gomock.Any(), int64(101)).Return(nil, ledger.ErrNotFound).Times(3)

		err := e.SyncBattleCreated(context.Background(), 101, nil)

		assert.ErrorIs(t, err, ErrReconciliation)
		battles.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("second sync of the same battle is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lc := ledgerMocks.NewMockClient(ctrl)
		battles := new(battleMocks.MockRepository)
		stats := new(agentMocks.MockStatsRepository)
		e := NewEngine(battles, stats, lc, testConfig(), nil, zerolog.Nop())

		lc.EXPECT().ReadBattle(gomock.Any(), int64(101)).Return(ongoingBattle(), nil).Times(1)
		battles.On("Upsert", mock.Anything, mock.Anything).Return(nil).Once()

		require.NoError(t, e.SyncBattleCreated(context.Background(), 101, nil))
		require.NoError(t, e.SyncBattleCreated(context.Background(), 101, nil))

		battles.AssertNumberOfCalls(t, "Upsert", 1)
	})
}

func finishReceipt() *ledger.Receipt {
	return &ledger.Receipt{
		TxHash:      "0xdef",
		BlockNumber: 910,
		GasUsed:     400000,
		Finished:    []ledger.FinishedEvent{{BattleID: 101, WinnerID: 42, LoserID: 7}},
		Attacks: []ledger.AttackEvent{
			{BattleID: 101, AttackerID: 42, DefenderID: 7, Damage: 60, LogIndex: 0},
			{BattleID: 101, AttackerID: 7, DefenderID: 42, Damage: 39, LogIndex: 1},
			{BattleID: 101, AttackerID: 42, DefenderID: 7, Damage: 40, LogIndex: 2},
		},
	}
}

func TestEngine_SyncBattleFinished(t *testing.T) {
	t.Run("persists outcome, events and stats deltas", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lc := ledgerMocks.NewMockClient(ctrl)
		battles := new(battleMocks.MockRepository)
		stats := new(agentMocks.MockStatsRepository)
		e := NewEngine(battles, stats, lc, testConfig(), nil, zerolog.Nop())

		lc.EXPECT().ReadBattle(gomock.Any(), int64(101)).Return(finishedBattle(), nil)
		battles.On("SetOutcome", mock.Anything, int64(101), int64(42), int64(61), int64(0)).Return(nil)
		battles.On("InsertEvent", mock.Anything, mock.MatchedBy(func(ev *battle.Event) bool {
			return ev.BattleID == 101 && ev.Kind == battle.EventAttack && ev.TxHash == "0xdef"
		})).Return(nil).Times(3)
		stats.On("ApplyDelta", mock.Anything, int64(42),
			agent.StatsDelta{Battles: 1, Wins: 1, DamageDealt: 100, DamageReceived: 39}).Return(nil)
		stats.On("ApplyDelta", mock.Anything, int64(7),
			agent.StatsDelta{Battles: 1, Losses: 1, DamageDealt: 39, DamageReceived: 100}).Return(nil)

		err := e.SyncBattleFinished(context.Background(), 101, finishReceipt())

		require.NoError(t, err)
		battles.AssertExpectations(t)
		stats.AssertExpectations(t)
	})

	t.Run("one failed event insert does not abort the sync", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lc := ledgerMocks.NewMockClient(ctrl)
		battles := new(battleMocks.MockRepository)
		stats := new(agentMocks.MockStatsRepository)
		e := NewEngine(battles, stats, lc, testConfig(), nil, zerolog.Nop())

		lc.EXPECT().ReadBattle(gomock.Any(), int64(101)).Return(finishedBattle(), nil)
		battles.On("SetOutcome", mock.Anything, int64(101), int64(42), int64(61), int64(0)).Return(nil)
		battles.On("InsertEvent", mock.Anything, mock.MatchedBy(func(ev *battle.Event) bool {
			return ev.LogIndex == 1
		})).Return(errors.New("network error"))
		battles.On("InsertEvent", mock.Anything, mock.Anything).Return(nil)
		stats.On("ApplyDelta", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		err := e.SyncBattleFinished(context.Background(), 101, finishReceipt())

		require.NoError(t, err)
		stats.AssertNumberOfCalls(t, "ApplyDelta", 2)
	})

	t.Run("stats failure is isolated and surfaced as store sync error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lc := ledgerMocks.NewMockClient(ctrl)
		battles := new(battleMocks.MockRepository)
		stats := new(agentMocks.MockStatsRepository)
		e := NewEngine(battles, stats, lc, testConfig(), nil, zerolog.Nop())

		lc.EXPECT().ReadBattle(gomock.Any(), int64(101)).Return(finishedBattle(), nil)
		battles.On("SetOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		battles.On("InsertEvent", mock.Anything, mock.Anything).Return(nil)
		stats.On("ApplyDelta", mock.Anything, int64(42), mock.Anything).Return(errors.New("timeout"))
		stats.On("ApplyDelta", mock.Anything, int64(7), mock.Anything).Return(nil)

		err := e.SyncBattleFinished(context.Background(), 101, finishReceipt())

		assert.ErrorIs(t, err, ErrStoreSync)
		// the other agent's delta still went through
		stats.AssertCalled(t, "ApplyDelta", mock.Anything, int64(7), mock.Anything)
	})

	t.Run("winner falls back to ledger state without a receipt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lc := ledgerMocks.NewMockClient(ctrl)
		battles := new(battleMocks.MockRepository)
		stats := new(agentMocks.MockStatsRepository)
		e := NewEngine(battles, stats, lc, testConfig(), nil, zerolog.Nop())

		lc.EXPECT().ReadBattle(gomock.Any(), int64(101)).Return(finishedBattle(), nil)
		battles.On("SetOutcome", mock.Anything, int64(101), int64(42), int64(61), int64(0)).Return(nil)
		stats.On("ApplyDelta", mock.Anything, int64(42),
			agent.StatsDelta{Battles: 1, Wins: 1}).Return(nil)
		stats.On("ApplyDelta", mock.Anything, int64(7),
			agent.StatsDelta{Battles: 1, Losses: 1}).Return(nil)

		err := e.SyncBattleFinished(context.Background(), 101, nil)

		require.NoError(t, err)
		battles.AssertNotCalled(t, "InsertEvent", mock.Anything, mock.Anything)
	})

	t.Run("replayed finish sync does not double count", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lc := ledgerMocks.NewMockClient(ctrl)
		battles := new(battleMocks.MockRepository)
		stats := new(agentMocks.MockStatsRepository)
		e := NewEngine(battles, stats, lc, testConfig(), nil, zerolog.Nop())

		lc.EXPECT().ReadBattle(gomock.Any(), int64(101)).Return(finishedBattle(), nil).Times(1)
		battles.On("SetOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		battles.On("InsertEvent", mock.Anything, mock.Anything).Return(nil)
		stats.On("ApplyDelta", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, e.SyncBattleFinished(context.Background(), 101, finishReceipt()))
		require.NoError(t, e.SyncBattleFinished(context.Background(), 101, finishReceipt()))

		battles.AssertNumberOfCalls(t, "SetOutcome", 1)
		stats.AssertNumberOfCalls(t, "ApplyDelta", 2)
	})
}
