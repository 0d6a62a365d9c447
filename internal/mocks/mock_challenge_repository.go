package mocks

import (
	"context"

	"github.com/you/authsvc/domain"
)

// MockChallengeRepository implements domain.ChallengeRepository for testing
type MockChallengeRepository struct {
	SupersedeFunc         func(ctx context.Context, challenge *domain.Challenge) error
	FindActiveFunc        func(ctx context.Context, contact domain.Contact, purpose domain.OTPPurpose) (*domain.Challenge, error)
	MarkUsedFunc          func(ctx context.Context, challengeID uint) error
	IncrementAttemptsFunc func(ctx context.Context, challengeID uint) error
}

// NewMockChallengeRepository creates a new MockChallengeRepository with default behaviors
func NewMockChallengeRepository() *MockChallengeRepository {
	return &MockChallengeRepository{}
}

func (m *MockChallengeRepository) Supersede(ctx context.Context, challenge *domain.Challenge) error {
	if m.SupersedeFunc != nil {
		return m.SupersedeFunc(ctx, challenge)
	}
	challenge.ID = 1
	return nil
}

func (m *MockChallengeRepository) FindActive(ctx context.Context, contact domain.Contact, purpose domain.OTPPurpose) (*domain.Challenge, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx, contact, purpose)
	}
	return nil, domain.ErrOTPNotFound
}

func (m *MockChallengeRepository) MarkUsed(ctx context.Context, challengeID uint) error {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, challengeID)
	}
	return nil
}

func (m *MockChallengeRepository) IncrementAttempts(ctx context.Context, challengeID uint) error {
	if m.IncrementAttemptsFunc != nil {
		return m.IncrementAttemptsFunc(ctx, challengeID)
	}
	return nil
}
