package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/arena-bridge/arena-bridge/internal/domain/battle"
)

// MockRepository is a mock implementation of battle.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Upsert(ctx context.Context, b *battle.Battle) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockRepository) SetOutcome(ctx context.Context, battleID, winnerID int64, health1, health2 int64) error {
	args := m.Called(ctx, battleID, winnerID, health1, health2)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, battleID int64) (*battle.Battle, error) {
	args := m.Called(ctx, battleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*battle.Battle), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter battle.Filter, limit, offset int) ([]*battle.Battle, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*battle.Battle), args.Error(1)
}

func (m *MockRepository) InsertEvent(ctx context.Context, e *battle.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockRepository) ListEvents(ctx context.Context, battleID int64) ([]*battle.Event, error) {
	args := m.Called(ctx, battleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*battle.Event), args.Error(1)
}
