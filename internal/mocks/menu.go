package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/makansehat/backend/internal/types"
)

// MockUserAllergenLoader is a mock implementation of service.UserAllergenLoader
type MockUserAllergenLoader struct {
	mock.Mock
}

func (m *MockUserAllergenLoader) LoadUserAllergens(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockAutoAssigner is a mock implementation of scheduler.AutoAssigner
type MockAutoAssigner struct {
	mock.Mock
}

func (m *MockAutoAssigner) AutoAssignWeek(ctx context.Context, start string) (*types.AutoAssignResult, error) {
	args := m.Called(ctx, start)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AutoAssignResult), args.Error(1)
}
