package main

import (
	"context"
	"log"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	httpapi "github.com/arena-bridge/arena-bridge/internal/api/http"
	"github.com/arena-bridge/arena-bridge/internal/application/leaderboard"
	"github.com/arena-bridge/arena-bridge/internal/application/orchestrator"
	"github.com/arena-bridge/arena-bridge/internal/application/sync"
	"github.com/arena-bridge/arena-bridge/internal/config"
	"github.com/arena-bridge/arena-bridge/internal/infrastructure/evm"
	"github.com/arena-bridge/arena-bridge/internal/infrastructure/postgres"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, "internal/migrations"); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// repositories
	battleRepo := postgres.NewBattleRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)

	// ledger
	rpc, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		log.Fatalf("rpc dial error: %v", err)
	}
	defer rpc.Close()

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		log.Fatalf("private key error: %v", err)
	}
	ledgerClient, err := evm.NewClient(rpc, common.HexToAddress(cfg.ArenaContract), big.NewInt(cfg.ChainID), key, logger)
	if err != nil {
		log.Fatalf("ledger client error: %v", err)
	}
	feeOracle := evm.NewFeeOracle(rpc, common.HexToAddress(cfg.RandomnessProvider), cfg.FeeRefreshInterval, logger)

	// services
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	syncEngine := sync.NewEngine(battleRepo, statsRepo, ledgerClient, sync.Config{
		MaxRetries: cfg.SyncMaxRetries,
		RetryDelay: cfg.SyncRetryDelay,
		DedupeTTL:  cfg.SyncDedupeTTL,
	}, sync.NewMetrics(registry), logger)

	orchestratorSvc := orchestrator.New(ledgerClient, feeOracle, syncEngine, orchestrator.Config{
		PollInterval:    cfg.PollInterval,
		ConfirmTimeout:  cfg.ConfirmTimeout,
		ResolveGasLimit: cfg.ResolveGasLimit,
	}, orchestrator.NewMetrics(registry), logger)

	leaderboardSvc, err := leaderboard.NewService(statsRepo, cfg.LeaderboardScoreExpr, logger)
	if err != nil {
		log.Fatalf("leaderboard error: %v", err)
	}

	// API server
	apiServer := httpapi.NewServer(orchestratorSvc, battleRepo, statsRepo, leaderboardSvc, ledgerClient, registry)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// warm the fee cache so the first battle does not pay the lookup
	if feeOracle.Configured() {
		go func() {
			warmCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if _, err := feeOracle.Fee(warmCtx); err != nil {
				logger.Warn().Err(err).Msg("initial fee fetch failed")
			}
		}()
	}

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	orchestratorSvc.Reset()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
