package testutil

import (
	"context"

	"github.com/dimitrije/gabay-admin-api/internal/identity"
	"github.com/dimitrije/gabay-admin-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockIdentityPlatform mocks the GoTrue client
type MockIdentityPlatform struct {
	mock.Mock
}

func (m *MockIdentityPlatform) GetUser(ctx context.Context, accessToken string) (*models.Identity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockIdentityPlatform) CreateUser(ctx context.Context, params identity.CreateUserParams) (*models.Identity, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockIdentityPlatform) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockIdentityPlatform) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	args := m.Called(ctx, email, redirectTo)
	return args.Error(0)
}

// MockProfileStore mocks the profile store
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) AdminFlag(ctx context.Context, callerToken, userID string) (any, bool, error) {
	args := m.Called(ctx, callerToken, userID)
	return args.Get(0), args.Bool(1), args.Error(2)
}

func (m *MockProfileStore) Insert(ctx context.Context, record models.ProfileRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockGate mocks the request gate
type MockGate struct {
	mock.Mock
}

func (m *MockGate) Admit(ctx context.Context, authHeader string) (*models.Caller, error) {
	args := m.Called(ctx, authHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Caller), args.Error(1)
}

// MockAdminService mocks the AdminService
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) CreateUser(ctx context.Context, caller *models.Caller, req models.ProvisioningRequest) error {
	args := m.Called(ctx, caller, req)
	return args.Error(0)
}

func (m *MockAdminService) DeleteUser(ctx context.Context, caller *models.Caller, userID string) error {
	args := m.Called(ctx, caller, userID)
	return args.Error(0)
}

func (m *MockAdminService) SendPasswordReset(ctx context.Context, caller *models.Caller, email, redirectTo string) error {
	args := m.Called(ctx, caller, email, redirectTo)
	return args.Error(0)
}
