package httpapi

import (
	"errors"
	"net/http"

	"github.com/arena-bridge/arena-bridge/internal/application/orchestrator"
	"github.com/arena-bridge/arena-bridge/internal/domain/battle"
	"github.com/arena-bridge/arena-bridge/internal/domain/ledger"
)

// Orchestration handlers
func (s *Server) createBattle(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.CreateParams
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if err := s.orch.CreateBattle(r.Context(), req); err != nil {
		respondOrchestratorError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, s.orch.Snapshot())
}

func (s *Server) executeFight(w http.ResponseWriter, r *http.Request) {
	if err := s.orch.ExecuteFight(r.Context()); err != nil {
		respondOrchestratorError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, s.orch.Snapshot())
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.orch.Reset()
	respondJSON(w, http.StatusOK, s.orch.Snapshot())
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.orch.Snapshot())
}

func (s *Server) getBattleCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.ledger.ReadBattleCount(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "LEDGER_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"battleCount": count})
}

func respondOrchestratorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orchestrator.ErrInvalidState):
		respondError(w, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, ledger.ErrNotConfigured), errors.Is(err, orchestrator.ErrNotConfigured):
		respondError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", err.Error())
	case errors.Is(err, orchestrator.ErrSubmission):
		respondError(w, http.StatusBadGateway, "SUBMISSION_FAILED", err.Error())
	default:
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
	}
}

// Store read handlers
func (s *Server) listBattles(w http.ResponseWriter, r *http.Request) {
	var filter battle.Filter
	if v := r.URL.Query().Get("agentId"); v != "" {
		id, err := parseQueryInt64(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid agentId")
			return
		}
		filter.AgentID = &id
	}
	limit, offset := parseLimitOffset(r, 50, 200)
	battles, err := s.battles.List(r.Context(), filter, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"battles": battles})
}

func (s *Server) getBattle(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r, "battleId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid battleId")
		return
	}
	b, err := s.battles.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if b == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "battle not found")
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (s *Server) listBattleEvents(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r, "battleId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid battleId")
		return
	}
	events, err := s.battles.ListEvents(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"battleId": id, "events": events})
}

func (s *Server) getAgentStats(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r, "agentId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid agentId")
		return
	}
	stats, err := s.stats.GetByAgentID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if stats == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "agent has no recorded battles")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := parseLimitOffset(r, 10, 100)
	entries, err := s.leaderboard.Top(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}
