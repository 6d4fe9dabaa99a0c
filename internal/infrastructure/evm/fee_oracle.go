package evm

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/arena-bridge/arena-bridge/internal/domain/ledger"
)

// FeeOracle reads the randomness provider's current fee and caches it for
// the refresh interval, so every battle operation does not cost an extra
// RPC round trip.
type FeeOracle struct {
	backend  Backend
	provider common.Address
	refresh  time.Duration
	logger   zerolog.Logger

	mu      sync.Mutex
	fee     *big.Int
	fetched time.Time
}

func NewFeeOracle(backend Backend, provider common.Address, refresh time.Duration, logger zerolog.Logger) *FeeOracle {
	return &FeeOracle{
		backend:  backend,
		provider: provider,
		refresh:  refresh,
		logger:   logger.With().Str("service", "fee-oracle").Logger(),
	}
}

// Configured reports whether a randomness provider address was supplied.
func (o *FeeOracle) Configured() bool {
	return o.provider != (common.Address{})
}

func (o *FeeOracle) Fee(ctx context.Context) (*big.Int, error) {
	if !o.Configured() {
		return nil, fmt.Errorf("%w: randomness fee provider", ledger.ErrNotConfigured)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fee != nil && time.Since(o.fetched) < o.refresh {
		return new(big.Int).Set(o.fee), nil
	}

	data, err := oracleABI.Pack("getFee")
	if err != nil {
		return nil, fmt.Errorf("pack getFee: %w", err)
	}
	raw, err := o.backend.CallContract(ctx, ethereum.CallMsg{To: &o.provider, Data: data}, nil)
	if err != nil {
		// a stale fee beats no fee while the provider hiccups
		if o.fee != nil {
			o.logger.Warn().Err(err).Msg("fee refresh failed; using cached fee")
			return new(big.Int).Set(o.fee), nil
		}
		return nil, fmt.Errorf("read randomness fee: %w", err)
	}
	vals, err := oracleABI.Unpack("getFee", raw)
	if err != nil {
		return nil, fmt.Errorf("unpack getFee: %w", err)
	}

	o.fee = vals[0].(*big.Int)
	o.fetched = time.Now()
	o.logger.Debug().Str("fee", o.fee.String()).Msg("randomness fee refreshed")
	return new(big.Int).Set(o.fee), nil
}
