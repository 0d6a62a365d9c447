package mocks

import (
	"context"
	"time"

	"github.com/you/authsvc/domain"
)

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	RegisterFunc        func(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	LoginFunc           func(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error)
	ValidateTokenFunc   func(ctx context.Context, token string) (*domain.UserInfo, error)
	UpdatePasswordFunc  func(ctx context.Context, userID uint, current, next string) error
	ForgotPasswordFunc  func(ctx context.Context, email string) error
	GetProfileFunc      func(ctx context.Context, userID uint) (*domain.User, error)
	CheckPermissionFunc func(user *domain.User, permission string) bool
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return &domain.User{
		ID:           1,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         req.Role,
		Organization: domain.OrganizationForRole(req.Role, req.Organization),
		Permissions:  domain.PermissionsForRole(req.Role),
		IsActive:     true,
	}, nil
}

func (m *MockAuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &domain.AuthResult{
		User:        &domain.UserInfo{ID: 1, Email: req.Email},
		AccessToken: "mock_token",
		ExpiresAt:   time.Now().Add(8 * time.Hour),
	}, nil
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*domain.UserInfo, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, userID uint, current, next string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, userID, current, next)
	}
	return nil
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockAuthService) CheckPermission(user *domain.User, permission string) bool {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(user, permission)
	}
	if user == nil {
		return false
	}
	return user.HasPermission(permission)
}
