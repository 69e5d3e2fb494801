// Package mocks holds testify mocks of the interfaces the handlers, services and
// scheduler depend on.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/makansehat/backend/internal/types"
)

// MockTokenValidator is a mock implementation of middleware.TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}
