package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/arena-bridge/arena-bridge/internal/domain/agent"
)

// MockStatsRepository is a mock implementation of agent.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) ApplyDelta(ctx context.Context, agentID int64, delta agent.StatsDelta) error {
	args := m.Called(ctx, agentID, delta)
	return args.Error(0)
}

func (m *MockStatsRepository) GetByAgentID(ctx context.Context, agentID int64) (*agent.Stats, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Stats), args.Error(1)
}

func (m *MockStatsRepository) List(ctx context.Context, limit, offset int) ([]*agent.Stats, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*agent.Stats), args.Error(1)
}
