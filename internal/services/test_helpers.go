package services

import (
	"testing"
	"time"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/mocks"
)

// newAuthServiceForTest creates an AuthService with mock dependencies.
// Nil arguments get default mocks.
func newAuthServiceForTest(t *testing.T,
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService) domain.AuthService {
	t.Helper()

	if userRepo == nil {
		userRepo = mocks.NewMockUserRepository()
	}
	if passwordSvc == nil {
		passwordSvc = mocks.NewMockPasswordService()
	}
	if tokenSvc == nil {
		tokenSvc = mocks.NewMockTokenService()
	}
	if otpSvc == nil {
		otpSvc = mocks.NewMockOTPService()
	}

	return NewAuthService(userRepo, passwordSvc, tokenSvc, otpSvc)
}

// activeCustomer creates a valid customer account whose password is
// "secret1" under the mock password service.
func activeCustomer(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:           1,
		Email:        "a@x.com",
		Phone:        "+1234567890",
		PasswordHash: "hashed_secret1",
		Role:         domain.RoleCustomer,
		Organization: domain.OrgExternalUsers,
		Permissions:  domain.PermissionsForRole(domain.RoleCustomer),
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}
