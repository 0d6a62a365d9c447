package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Update(ctx context.Context, user *User) error
	// IncrementInvalidLogins bumps the failed-login counter atomically so
	// concurrent failures never lose increments.
	IncrementInvalidLogins(ctx context.Context, userID uint) error
	// RecordLogin resets the failed-login counter and stamps the login time.
	RecordLogin(ctx context.Context, userID uint, at time.Time) error
	SetEmailVerified(ctx context.Context, userID uint) error
	SetPhoneVerified(ctx context.Context, userID uint) error
}

// ChallengeRepository defines OTP challenge data access operations
type ChallengeRepository interface {
	// Supersede marks every live challenge for the challenge's
	// (contact, purpose) pair as used and inserts the new one in a single
	// transaction, so at most one live challenge exists per pair.
	Supersede(ctx context.Context, challenge *Challenge) error
	// FindActive returns the unused, unexpired challenge for the pair,
	// or ErrOTPNotFound.
	FindActive(ctx context.Context, contact Contact, purpose OTPPurpose) (*Challenge, error)
	MarkUsed(ctx context.Context, challengeID uint) error
	// IncrementAttempts bumps the guess counter atomically.
	IncrementAttempts(ctx context.Context, challengeID uint) error
}

// AuthService defines the authentication engine
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	ValidateToken(ctx context.Context, token string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID uint, current, next string) error
	ForgotPassword(ctx context.Context, email string) error
	GetProfile(ctx context.Context, userID uint) (*User, error)
	CheckPermission(user *User, permission string) bool
}

// OTPService defines the one-time-passcode engine
type OTPService interface {
	Generate(ctx context.Context, contact Contact, purpose OTPPurpose) (*OTPResult, error)
	Verify(ctx context.Context, contact Contact, code string, purpose OTPPurpose) error
	CanResend(ctx context.Context, contact Contact) (bool, int64, error)
}

// PasswordService defines password hashing operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines bearer token operations
type TokenService interface {
	Issue(user *User) (token string, expiresAt time.Time, err error)
	Validate(token string) (*TokenClaims, error)
}

// NotificationService delivers OTP codes and password-reset messages. The
// core decides that a notification is warranted, never how it travels.
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// PolicyService defines route authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer is the subset of the Casbin enforcer the policy service
// needs, kept as an interface for testability.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
