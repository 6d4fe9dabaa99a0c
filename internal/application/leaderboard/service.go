package leaderboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/Knetic/govaluate"
	"github.com/rs/zerolog"

	"github.com/arena-bridge/arena-bridge/internal/domain/agent"
)

// DefaultScoreExpr weights wins heavily and gives partial credit for damage
// output net of damage taken.
const DefaultScoreExpr = "wins * 100 - losses * 25 + (total_damage_dealt - total_damage_received) / 10"

// Entry is one ranked leaderboard row.
type Entry struct {
	Rank  int         `json:"rank"`
	Score float64     `json:"score"`
	Stats agent.Stats `json:"stats"`
}

// Service ranks agents by a configurable score expression evaluated over
// their aggregate stats.
type Service struct {
	stats  agent.StatsRepository
	expr   *govaluate.EvaluableExpression
	logger zerolog.Logger
}

// NewService compiles the score expression once at startup. An empty
// expression selects the default.
func NewService(stats agent.StatsRepository, scoreExpr string, logger zerolog.Logger) (*Service, error) {
	if scoreExpr == "" {
		scoreExpr = DefaultScoreExpr
	}
	expr, err := govaluate.NewEvaluableExpression(scoreExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid score expression: %w", err)
	}
	return &Service{
		stats:  stats,
		expr:   expr,
		logger: logger.With().Str("service", "leaderboard").Logger(),
	}, nil
}

// Top returns the highest-scoring agents in rank order.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	// Rank over a wider window than requested so a score expression that
	// disagrees with the store's win ordering still surfaces the right rows.
	all, err := s.stats.List(ctx, limit*10, 0)
	if err != nil {
		return nil, fmt.Errorf("list agent stats: %w", err)
	}

	entries := make([]Entry, 0, len(all))
	for _, st := range all {
		score, err := s.score(st)
		if err != nil {
			s.logger.Warn().Err(err).Int64("agent_id", st.AgentID).Msg("score evaluation failed; skipping agent")
			continue
		}
		entries = append(entries, Entry{Score: score, Stats: *st})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (s *Service) score(st *agent.Stats) (float64, error) {
	result, err := s.expr.Evaluate(map[string]interface{}{
		"total_battles":         float64(st.TotalBattles),
		"wins":                  float64(st.Wins),
		"losses":                float64(st.Losses),
		"total_damage_dealt":    float64(st.TotalDamageDealt),
		"total_damage_received": float64(st.TotalDamageReceived),
	})
	if err != nil {
		return 0, err
	}
	score, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("score expression produced %T, want number", result)
	}
	return score, nil
}
