package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds service configuration.
type Config struct {
	DatabaseURL string
	ServerAddr  string

	RPCURL             string
	ChainID            int64
	ArenaContract      string
	RandomnessProvider string
	PrivateKey         string

	PollInterval       time.Duration
	ConfirmTimeout     time.Duration
	FeeRefreshInterval time.Duration
	ResolveGasLimit    uint64

	SyncMaxRetries int
	SyncRetryDelay time.Duration
	SyncDedupeTTL  time.Duration

	LeaderboardScoreExpr string
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "arena_bridge")
		pass := getenv("POSTGRES_PASSWORD", "arena_bridge_pass")
		db := getenv("POSTGRES_DB", "arena_bridge")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}

	return &Config{
		DatabaseURL: dsn,
		ServerAddr:  getenv("SERVER_ADDR", "0.0.0.0:8080"),

		RPCURL:             getenv("RPC_URL", "ws://localhost:8545"),
		ChainID:            parseInt64(getenv("CHAIN_ID", "31337"), 31337),
		ArenaContract:      os.Getenv("ARENA_CONTRACT"),
		RandomnessProvider: os.Getenv("RANDOMNESS_PROVIDER"),
		PrivateKey:         os.Getenv("PRIVATE_KEY"),

		PollInterval:       parseDuration(getenv("POLL_INTERVAL", "2s"), 2*time.Second),
		ConfirmTimeout:     parseDuration(getenv("CONFIRM_TIMEOUT", "2m"), 2*time.Minute),
		FeeRefreshInterval: parseDuration(getenv("FEE_REFRESH_INTERVAL", "30s"), 30*time.Second),
		ResolveGasLimit:    parseUint64(getenv("RESOLVE_GAS_LIMIT", "1500000"), 1_500_000),

		SyncMaxRetries: parseInt(getenv("SYNC_MAX_RETRIES", "5"), 5),
		SyncRetryDelay: parseDuration(getenv("SYNC_RETRY_DELAY", "2s"), 2*time.Second),
		SyncDedupeTTL:  parseDuration(getenv("SYNC_DEDUPE_TTL", "10m"), 10*time.Minute),

		LeaderboardScoreExpr: os.Getenv("LEADERBOARD_SCORE_EXPR"),
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}

func parseInt64(val string, def int64) int64 {
	if val == "" {
		return def
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func parseUint64(val string, def uint64) uint64 {
	if val == "" {
		return def
	}
	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return def
	}
	return n
}
