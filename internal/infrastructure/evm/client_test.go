package evm

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arena-bridge/arena-bridge/internal/domain/battle"
	"github.com/arena-bridge/arena-bridge/internal/domain/ledger"
)

type stubBackend struct {
	Backend
	callResults map[string][]byte
	callErr     error
	calls       int
}

func (s *stubBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	s.calls++
	if s.callErr != nil {
		return nil, s.callErr
	}
	return s.callResults[common.Bytes2Hex(msg.Data[:4])], nil
}

func testClient(t *testing.T, backend Backend) *Client {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	c, err := NewClient(backend, common.HexToAddress("0xABCD"), big.NewInt(31337), key, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func startedLog(contract common.Address, battleID, agent1, agent2 int64, arena battle.ArenaType) types.Log {
	data, _ := arenaABI.Events["BattleStarted"].Inputs.NonIndexed().Pack(
		big.NewInt(agent1), big.NewInt(agent2), uint8(arena))
	return types.Log{
		Address: contract,
		Topics:  []common.Hash{arenaABI.Events["BattleStarted"].ID, common.BigToHash(big.NewInt(battleID))},
		Data:    data,
	}
}

func finishedLog(contract common.Address, battleID, winner, loser int64) types.Log {
	data, _ := arenaABI.Events["BattleFinished"].Inputs.NonIndexed().Pack(
		big.NewInt(winner), big.NewInt(loser))
	return types.Log{
		Address: contract,
		Topics:  []common.Hash{arenaABI.Events["BattleFinished"].ID, common.BigToHash(big.NewInt(battleID))},
		Data:    data,
	}
}

func attackLog(contract common.Address, battleID, attacker, defender, damage int64, index uint) types.Log {
	data, _ := arenaABI.Events["Attack"].Inputs.NonIndexed().Pack(
		big.NewInt(attacker), big.NewInt(defender), big.NewInt(damage))
	return types.Log{
		Address: contract,
		Topics:  []common.Hash{arenaABI.Events["Attack"].ID, common.BigToHash(big.NewInt(battleID))},
		Data:    data,
		Index:   index,
	}
}

func TestDecodeReceipt(t *testing.T) {
	c := testClient(t, &stubBackend{})
	contract := c.contract

	started := startedLog(contract, 7, 42, 9, battle.ArenaVolcanicPlains)
	finished := finishedLog(contract, 7, 42, 9)
	attack := attackLog(contract, 7, 42, 9, 33, 2)
	foreign := startedLog(common.HexToAddress("0xDEAD"), 99, 1, 2, battle.ArenaNeutralFields)

	receipt := &types.Receipt{
		TxHash:      common.HexToHash("0x01"),
		BlockNumber: big.NewInt(1234),
		GasUsed:     21000,
		Status:      types.ReceiptStatusSuccessful,
		Logs:        []*types.Log{&started, &attack, &finished, &foreign},
	}

	decoded := c.decodeReceipt(receipt)

	assert.Equal(t, int64(1234), decoded.BlockNumber)
	assert.Equal(t, int64(21000), decoded.GasUsed)

	require.Len(t, decoded.Started, 1)
	assert.Equal(t, ledger.StartedEvent{BattleID: 7, Agent1ID: 42, Agent2ID: 9, Arena: battle.ArenaVolcanicPlains}, decoded.Started[0])

	require.Len(t, decoded.Finished, 1)
	assert.Equal(t, ledger.FinishedEvent{BattleID: 7, WinnerID: 42, LoserID: 9}, decoded.Finished[0])

	require.Len(t, decoded.Attacks, 1)
	assert.Equal(t, ledger.AttackEvent{BattleID: 7, AttackerID: 42, DefenderID: 9, Damage: 33, LogIndex: 2}, decoded.Attacks[0])
}

func TestReadBattle(t *testing.T) {
	packOutputs := func(agent1, agent2 int64, arena, status uint8, winner, h1, h2 int64) []byte {
		out, err := arenaABI.Methods["getBattle"].Outputs.Pack(
			big.NewInt(agent1), big.NewInt(agent2), arena, status,
			big.NewInt(winner), big.NewInt(h1), big.NewInt(h2))
		require.NoError(t, err)
		return out
	}
	selector := common.Bytes2Hex(arenaABI.Methods["getBattle"].ID)

	t.Run("finished battle with winner", func(t *testing.T) {
		backend := &stubBackend{callResults: map[string][]byte{
			selector: packOutputs(42, 9, uint8(battle.ArenaMysticForest), 1, 42, 61, 0),
		}}
		c := testClient(t, backend)

		b, err := c.ReadBattle(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), b.ID)
		assert.Equal(t, battle.StatusFinished, b.Status)
		require.NotNil(t, b.WinnerID)
		assert.Equal(t, int64(42), *b.WinnerID)
		assert.Equal(t, int64(61), b.Health1)
		assert.Equal(t, int64(0), b.Health2)
	})

	t.Run("empty slot is not found", func(t *testing.T) {
		backend := &stubBackend{callResults: map[string][]byte{
			selector: packOutputs(0, 0, 0, 0, 0, 0, 0),
		}}
		c := testClient(t, backend)

		_, err := c.ReadBattle(context.Background(), 999)
		assert.ErrorIs(t, err, ledger.ErrNotFound)
	})
}

func TestReadBattleCount(t *testing.T) {
	out, err := arenaABI.Methods["battleCount"].Outputs.Pack(big.NewInt(12))
	require.NoError(t, err)
	backend := &stubBackend{callResults: map[string][]byte{
		common.Bytes2Hex(arenaABI.Methods["battleCount"].ID): out,
	}}
	c := testClient(t, backend)

	count, err := c.ReadBattleCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
}

func TestNewClientRequiresConfiguration(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	_, err = NewClient(&stubBackend{}, common.Address{}, big.NewInt(1), key, zerolog.Nop())
	assert.ErrorIs(t, err, ledger.ErrNotConfigured)

	_, err = NewClient(&stubBackend{}, common.HexToAddress("0xABCD"), big.NewInt(1), nil, zerolog.Nop())
	assert.ErrorIs(t, err, ledger.ErrNotConfigured)
}

func TestFeeOracle(t *testing.T) {
	feeOut, err := oracleABI.Methods["getFee"].Outputs.Pack(big.NewInt(5000))
	require.NoError(t, err)
	selector := common.Bytes2Hex(oracleABI.Methods["getFee"].ID)

	t.Run("unconfigured provider refuses", func(t *testing.T) {
		o := NewFeeOracle(&stubBackend{}, common.Address{}, time.Minute, zerolog.Nop())
		assert.False(t, o.Configured())
		_, err := o.Fee(context.Background())
		assert.ErrorIs(t, err, ledger.ErrNotConfigured)
	})

	t.Run("caches within the refresh window", func(t *testing.T) {
		backend := &stubBackend{callResults: map[string][]byte{selector: feeOut}}
		o := NewFeeOracle(backend, common.HexToAddress("0xFEE"), time.Minute, zerolog.Nop())

		fee, err := o.Fee(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(5000), fee.Int64())

		_, err = o.Fee(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, backend.calls)
	})

	t.Run("serves stale fee on refresh failure", func(t *testing.T) {
		backend := &stubBackend{callResults: map[string][]byte{selector: feeOut}}
		o := NewFeeOracle(backend, common.HexToAddress("0xFEE"), time.Nanosecond, zerolog.Nop())

		_, err := o.Fee(context.Background())
		require.NoError(t, err)

		backend.callErr = context.DeadlineExceeded
		fee, err := o.Fee(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(5000), fee.Int64())
	})
}
