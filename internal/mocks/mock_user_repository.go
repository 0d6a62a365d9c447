package mocks

import (
	"context"
	"time"

	"github.com/you/authsvc/domain"
)

// MockUserRepository implements domain.UserRepository for testing
type MockUserRepository struct {
	CreateFunc                 func(ctx context.Context, user *domain.User) error
	FindByEmailFunc            func(ctx context.Context, email string) (*domain.User, error)
	FindByPhoneFunc            func(ctx context.Context, phone string) (*domain.User, error)
	FindByIDFunc               func(ctx context.Context, id uint) (*domain.User, error)
	UpdateFunc                 func(ctx context.Context, user *domain.User) error
	IncrementInvalidLoginsFunc func(ctx context.Context, userID uint) error
	RecordLoginFunc            func(ctx context.Context, userID uint, at time.Time) error
	SetEmailVerifiedFunc       func(ctx context.Context, userID uint) error
	SetPhoneVerifiedFunc       func(ctx context.Context, userID uint) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) IncrementInvalidLogins(ctx context.Context, userID uint) error {
	if m.IncrementInvalidLoginsFunc != nil {
		return m.IncrementInvalidLoginsFunc(ctx, userID)
	}
	return nil
}

func (m *MockUserRepository) RecordLogin(ctx context.Context, userID uint, at time.Time) error {
	if m.RecordLoginFunc != nil {
		return m.RecordLoginFunc(ctx, userID, at)
	}
	return nil
}

func (m *MockUserRepository) SetEmailVerified(ctx context.Context, userID uint) error {
	if m.SetEmailVerifiedFunc != nil {
		return m.SetEmailVerifiedFunc(ctx, userID)
	}
	return nil
}

func (m *MockUserRepository) SetPhoneVerified(ctx context.Context, userID uint) error {
	if m.SetPhoneVerifiedFunc != nil {
		return m.SetPhoneVerifiedFunc(ctx, userID)
	}
	return nil
}
