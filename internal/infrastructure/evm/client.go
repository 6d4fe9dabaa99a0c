package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"

	"github.com/arena-bridge/arena-bridge/internal/domain/battle"
	"github.com/arena-bridge/arena-bridge/internal/domain/ledger"
)

// receiptPollInterval paces AwaitReceipt's inclusion checks.
const receiptPollInterval = time.Second

// Backend is the subset of the RPC client the ledger adapter consumes.
// *ethclient.Client satisfies it.
type Backend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
}

// Client implements ledger.Client against the arena contract.
type Client struct {
	backend  Backend
	contract common.Address
	chainID  *big.Int
	key      *ecdsa.PrivateKey
	from     common.Address
	logger   zerolog.Logger
}

// NewClient creates a ledger adapter. The contract address must be set; a
// zero address means the engine was started without a deployed arena.
func NewClient(backend Backend, contract common.Address, chainID *big.Int, key *ecdsa.PrivateKey, logger zerolog.Logger) (*Client, error) {
	if contract == (common.Address{}) {
		return nil, fmt.Errorf("%w: arena contract address", ledger.ErrNotConfigured)
	}
	if key == nil {
		return nil, fmt.Errorf("%w: signing key", ledger.ErrNotConfigured)
	}
	return &Client{
		backend:  backend,
		contract: contract,
		chainID:  chainID,
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		logger:   logger.With().Str("service", "evm-ledger").Logger(),
	}, nil
}

func (c *Client) SubmitStart(ctx context.Context, params ledger.StartParams) (ledger.TxHandle, error) {
	data, err := arenaABI.Pack("startBattle",
		big.NewInt(params.Agent1ID), toABITactics(params.Tactics1),
		big.NewInt(params.Agent2ID), toABITactics(params.Tactics2),
		uint8(params.Arena))
	if err != nil {
		return "", fmt.Errorf("pack startBattle: %w", err)
	}
	return c.submit(ctx, data, params.Fee, 0)
}

func (c *Client) SubmitResolve(ctx context.Context, params ledger.ResolveParams) (ledger.TxHandle, error) {
	data, err := arenaABI.Pack("fight", big.NewInt(params.BattleID))
	if err != nil {
		return "", fmt.Errorf("pack fight: %w", err)
	}
	return c.submit(ctx, data, params.Fee, params.GasLimit)
}

// submit signs and broadcasts one contract call. A zero gasLimit estimates;
// an explicit limit is used as given.
func (c *Client) submit(ctx context.Context, data []byte, value *big.Int, gasLimit uint64) (ledger.TxHandle, error) {
	nonce, err := c.backend.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", fmt.Errorf("pending nonce: %w", err)
	}
	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("suggest gas price: %w", err)
	}
	if value == nil {
		value = big.NewInt(0)
	}
	if gasLimit == 0 {
		gasLimit, err = c.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:  c.from,
			To:    &c.contract,
			Value: value,
			Data:  data,
		})
		if err != nil {
			return "", fmt.Errorf("estimate gas: %w", err)
		}
	}

	tx := types.NewTransaction(nonce, c.contract, value, gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}
	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	hash := signed.Hash()
	c.logger.Debug().Str("tx_hash", hash.Hex()).Uint64("nonce", nonce).Msg("transaction submitted")
	return ledger.TxHandle(hash.Hex()), nil
}

// AwaitReceipt blocks until the transaction is included, decoding every
// arena event out of the receipt's logs.
func (c *Client) AwaitReceipt(ctx context.Context, tx ledger.TxHandle) (*ledger.Receipt, error) {
	hash := common.HexToHash(string(tx))
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return nil, fmt.Errorf("transaction %s reverted", hash.Hex())
			}
			return c.decodeReceipt(receipt), nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			c.logger.Debug().Err(err).Str("tx_hash", hash.Hex()).Msg("receipt lookup failed; retrying")
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) decodeReceipt(receipt *types.Receipt) *ledger.Receipt {
	out := &ledger.Receipt{
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: receipt.BlockNumber.Int64(),
		GasUsed:     int64(receipt.GasUsed),
	}
	for _, lg := range receipt.Logs {
		if lg.Address != c.contract || len(lg.Topics) == 0 {
			continue
		}
		switch lg.Topics[0] {
		case arenaABI.Events["BattleStarted"].ID:
			ev, err := decodeStarted(*lg)
			if err != nil {
				c.logger.Warn().Err(err).Msg("undecodable BattleStarted log")
				continue
			}
			out.Started = append(out.Started, ev)
		case arenaABI.Events["BattleFinished"].ID:
			ev, err := decodeFinished(*lg)
			if err != nil {
				c.logger.Warn().Err(err).Msg("undecodable BattleFinished log")
				continue
			}
			out.Finished = append(out.Finished, ev)
		case arenaABI.Events["Attack"].ID:
			ev, err := decodeAttack(*lg)
			if err != nil {
				c.logger.Warn().Err(err).Msg("undecodable Attack log")
				continue
			}
			out.Attacks = append(out.Attacks, ev)
		}
	}
	return out
}

func (c *Client) ReadBattle(ctx context.Context, battleID int64) (*battle.Battle, error) {
	data, err := arenaABI.Pack("getBattle", big.NewInt(battleID))
	if err != nil {
		return nil, fmt.Errorf("pack getBattle: %w", err)
	}
	raw, err := c.call(ctx, data)
	if err != nil {
		if isRevert(err) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	vals, err := arenaABI.Unpack("getBattle", raw)
	if err != nil {
		return nil, fmt.Errorf("unpack getBattle: %w", err)
	}

	agent1 := vals[0].(*big.Int).Int64()
	agent2 := vals[1].(*big.Int).Int64()
	if agent1 == 0 && agent2 == 0 {
		return nil, ledger.ErrNotFound
	}
	status, err := battle.ContractStatus(vals[3].(uint8))
	if err != nil {
		return nil, err
	}

	b := &battle.Battle{
		ID:       battleID,
		Agent1ID: agent1,
		Agent2ID: agent2,
		Arena:    battle.ArenaType(vals[2].(uint8)),
		Status:   status,
		Health1:  vals[5].(*big.Int).Int64(),
		Health2:  vals[6].(*big.Int).Int64(),
	}
	if winner := vals[4].(*big.Int).Int64(); winner != 0 {
		b.WinnerID = &winner
	}
	return b, nil
}

func (c *Client) ReadBattleCount(ctx context.Context) (int64, error) {
	data, err := arenaABI.Pack("battleCount")
	if err != nil {
		return 0, fmt.Errorf("pack battleCount: %w", err)
	}
	raw, err := c.call(ctx, data)
	if err != nil {
		return 0, err
	}
	vals, err := arenaABI.Unpack("battleCount", raw)
	if err != nil {
		return 0, fmt.Errorf("unpack battleCount: %w", err)
	}
	return vals[0].(*big.Int).Int64(), nil
}

func (c *Client) call(ctx context.Context, data []byte) ([]byte, error) {
	return c.backend.CallContract(ctx, ethereum.CallMsg{
		From: c.from,
		To:   &c.contract,
		Data: data,
	}, nil)
}

func (c *Client) SubscribeStarted(ctx context.Context, sink chan<- ledger.StartedEvent) (ledger.Subscription, error) {
	return c.subscribe(ctx, arenaABI.Events["BattleStarted"].ID, nil, func(lg types.Log) {
		ev, err := decodeStarted(lg)
		if err != nil {
			c.logger.Warn().Err(err).Msg("undecodable BattleStarted log")
			return
		}
		select {
		case sink <- ev:
		case <-ctx.Done():
		}
	})
}

func (c *Client) SubscribeFinished(ctx context.Context, battleID int64, sink chan<- ledger.FinishedEvent) (ledger.Subscription, error) {
	idTopic := common.BigToHash(big.NewInt(battleID))
	return c.subscribe(ctx, arenaABI.Events["BattleFinished"].ID, &idTopic, func(lg types.Log) {
		ev, err := decodeFinished(lg)
		if err != nil {
			c.logger.Warn().Err(err).Msg("undecodable BattleFinished log")
			return
		}
		select {
		case sink <- ev:
		case <-ctx.Done():
		}
	})
}

func (c *Client) subscribe(ctx context.Context, eventTopic common.Hash, idTopic *common.Hash, handle func(types.Log)) (ledger.Subscription, error) {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{c.contract},
		Topics:    [][]common.Hash{{eventTopic}},
	}
	if idTopic != nil {
		query.Topics = append(query.Topics, []common.Hash{*idTopic})
	}

	logs := make(chan types.Log, 8)
	ethSub, err := c.backend.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return nil, fmt.Errorf("subscribe filter logs: %w", err)
	}

	sub := &logSubscription{
		eth:  ethSub,
		errC: make(chan error, 1),
		done: make(chan struct{}),
	}
	go func() {
		defer close(sub.errC)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.done:
				return
			case err := <-ethSub.Err():
				if err != nil {
					sub.errC <- err
				}
				return
			case lg := <-logs:
				if lg.Removed {
					continue
				}
				handle(lg)
			}
		}
	}()
	return sub, nil
}

type logSubscription struct {
	eth  ethereum.Subscription
	errC chan error
	done chan struct{}
	once sync.Once
}

func (s *logSubscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.done)
		s.eth.Unsubscribe()
	})
}

func (s *logSubscription) Err() <-chan error { return s.errC }

func decodeStarted(lg types.Log) (ledger.StartedEvent, error) {
	if len(lg.Topics) < 2 {
		return ledger.StartedEvent{}, errors.New("BattleStarted log missing battle id topic")
	}
	vals, err := arenaABI.Events["BattleStarted"].Inputs.NonIndexed().Unpack(lg.Data)
	if err != nil {
		return ledger.StartedEvent{}, err
	}
	return ledger.StartedEvent{
		BattleID: lg.Topics[1].Big().Int64(),
		Agent1ID: vals[0].(*big.Int).Int64(),
		Agent2ID: vals[1].(*big.Int).Int64(),
		Arena:    battle.ArenaType(vals[2].(uint8)),
	}, nil
}

func decodeFinished(lg types.Log) (ledger.FinishedEvent, error) {
	if len(lg.Topics) < 2 {
		return ledger.FinishedEvent{}, errors.New("BattleFinished log missing battle id topic")
	}
	vals, err := arenaABI.Events["BattleFinished"].Inputs.NonIndexed().Unpack(lg.Data)
	if err != nil {
		return ledger.FinishedEvent{}, err
	}
	return ledger.FinishedEvent{
		BattleID: lg.Topics[1].Big().Int64(),
		WinnerID: vals[0].(*big.Int).Int64(),
		LoserID:  vals[1].(*big.Int).Int64(),
	}, nil
}

func decodeAttack(lg types.Log) (ledger.AttackEvent, error) {
	if len(lg.Topics) < 2 {
		return ledger.AttackEvent{}, errors.New("Attack log missing battle id topic")
	}
	vals, err := arenaABI.Events["Attack"].Inputs.NonIndexed().Unpack(lg.Data)
	if err != nil {
		return ledger.AttackEvent{}, err
	}
	return ledger.AttackEvent{
		BattleID:   lg.Topics[1].Big().Int64(),
		AttackerID: vals[0].(*big.Int).Int64(),
		DefenderID: vals[1].(*big.Int).Int64(),
		Damage:     vals[2].(*big.Int).Int64(),
		LogIndex:   lg.Index,
	}, nil
}

func toABITactics(t battle.Tactics) abiTactics {
	return abiTactics{
		Strategy:       uint8(t.Strategy),
		Aggressiveness: t.Aggressiveness,
		RiskTolerance:  t.RiskTolerance,
	}
}

func isRevert(err error) bool {
	return err != nil && strings.Contains(err.Error(), "execution reverted")
}
