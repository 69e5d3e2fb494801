package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockImageSigner is a mock implementation of service.MenuImageSigner
type MockImageSigner struct {
	mock.Mock
}

func (m *MockImageSigner) GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expiration)
	return args.String(0), args.Error(1)
}

func (m *MockImageSigner) GenerateUploadURL(ctx context.Context, objectKey, contentType string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, contentType, expiration)
	return args.String(0), args.Error(1)
}
