package mocks

import (
	"context"
	"strings"
	"time"

	"github.com/you/authsvc/domain"
)

// MockPasswordService implements domain.PasswordService for testing
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool
}

func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed_"+password
}

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	IssueFunc    func(user *domain.User) (string, time.Time, error)
	ValidateFunc func(token string) (*domain.TokenClaims, error)
}

func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) Issue(user *domain.User) (string, time.Time, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(user)
	}
	return "token_for_" + user.Email, time.Now().Add(8 * time.Hour), nil
}

func (m *MockTokenService) Validate(token string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	if !strings.HasPrefix(token, "token_for_") {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.TokenClaims{UserID: 1, Email: strings.TrimPrefix(token, "token_for_")}, nil
}

// MockOTPService implements domain.OTPService for testing
type MockOTPService struct {
	GenerateFunc  func(ctx context.Context, contact domain.Contact, purpose domain.OTPPurpose) (*domain.OTPResult, error)
	VerifyFunc    func(ctx context.Context, contact domain.Contact, code string, purpose domain.OTPPurpose) error
	CanResendFunc func(ctx context.Context, contact domain.Contact) (bool, int64, error)
}

func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func (m *MockOTPService) Generate(ctx context.Context, contact domain.Contact, purpose domain.OTPPurpose) (*domain.OTPResult, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, contact, purpose)
	}
	return &domain.OTPResult{ExpiresAt: time.Now().Add(5 * time.Minute)}, nil
}

func (m *MockOTPService) Verify(ctx context.Context, contact domain.Contact, code string, purpose domain.OTPPurpose) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, contact, code, purpose)
	}
	return nil
}

func (m *MockOTPService) CanResend(ctx context.Context, contact domain.Contact) (bool, int64, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, contact)
	}
	return true, 0, nil
}

// MockNotificationService implements domain.NotificationService for testing
type MockNotificationService struct {
	SendSMSFunc   func(to, message string) error
	SendEmailFunc func(to, subject, body string) error

	SentSMS    []string
	SentEmails []string
}

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	m.SentSMS = append(m.SentSMS, message)
	return nil
}

func (m *MockNotificationService) SendEmail(to, subject, body string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	m.SentEmails = append(m.SentEmails, body)
	return nil
}

// MockCasbinEnforcer implements domain.CasbinEnforcer for testing
type MockCasbinEnforcer struct {
	Policies [][]string

	EnforceFunc func(rvals ...interface{}) (bool, error)
}

func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{}
}

func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	policy := make([]string, 0, len(params))
	for _, p := range params {
		policy = append(policy, p.(string))
	}
	m.Policies = append(m.Policies, policy)
	return true, nil
}

func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	return true, nil
}

func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	return false, nil
}

func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	return m.Policies, nil
}

func (m *MockCasbinEnforcer) SavePolicy() error {
	return nil
}
