package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/you/authsvc/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	otpSvc      domain.OTPService
	// dummyHash is compared against when no account matches a password
	// login, so the lookup-miss path costs the same as a real mismatch.
	dummyHash string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
) domain.AuthService {
	dummyHash, err := passwordSvc.Hash("authsvc-timing-equalizer")
	if err != nil {
		// A hasher that cannot hash at startup is fatal per the error
		// handling design; surface it loudly rather than per-request.
		log.Fatalf("password service unusable: %v", err)
	}
	return &AuthServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		otpSvc:      otpSvc,
		dummyHash:   dummyHash,
	}
}

// requiredProfileFields enumerates the minimum role-specific profile
// fields per role. This table is the contract for registration; it is
// maintained explicitly, never inferred from struct shapes.
var requiredProfileFields = map[domain.Role][]string{
	domain.RoleCustomer:      nil,
	domain.RoleBiller:        {"restaurant_name", "business_license", "tax_id"},
	domain.RoleOperator:      {"employee_id", "position", "department"},
	domain.RoleWorker:        {"employee_id", "position", "department"},
	domain.RoleDeliveryAgent: {"employee_id", "vehicle_type", "license_plate", "drivers_license"},
	domain.RoleDeveloper:     {"employee_id", "specialization", "department"},
	domain.RoleTester:        {"employee_id", "specialization", "department"},
	domain.RoleNetworkAdmin:  {"employee_id", "specialization", "department"},
	domain.RoleDatabaseAdmin: {"employee_id", "specialization", "department"},
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if req.Email == "" || len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: email and a password of at least 6 characters are required", domain.ErrMissingFields)
	}
	role, err := domain.ParseRole(string(req.Role))
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if req.Phone != "" {
		if _, err := s.userRepo.FindByPhone(ctx, req.Phone); err == nil {
			return nil, domain.ErrPhoneTaken
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to check phone: %w", err)
		}
	}

	profile, err := s.validateRoleProfile(req, role)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := s.passwordSvc.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		Role:         role,
		Organization: domain.OrganizationForRole(role, req.Organization),
		Permissions:  domain.PermissionsForRole(role),
		Profile:      profile,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Kick off email verification. Delivery is best-effort: a notifier
	// outage must not roll back the registration.
	if s.otpSvc != nil {
		if _, err := s.otpSvc.Generate(ctx, domain.Contact{Email: user.Email}, domain.PurposeEmailVerification); err != nil {
			log.Printf("email verification otp for user %d not sent: %v", user.ID, err)
		}
	}

	return user, nil
}

// validateRoleProfile checks the role-conditional profile substructure
// against the required-field table and returns the variant to persist.
func (s *AuthServiceImpl) validateRoleProfile(req domain.RegisterRequest, role domain.Role) (domain.RoleProfile, error) {
	required := requiredProfileFields[role]
	if len(required) == 0 {
		return nil, nil
	}

	var profile domain.RoleProfile
	values := map[string]string{}
	switch role {
	case domain.RoleBiller:
		if req.Business == nil {
			return nil, fmt.Errorf("%w: role %s requires a business profile", domain.ErrMissingProfile, role)
		}
		profile = req.Business
		values["restaurant_name"] = req.Business.RestaurantName
		values["business_license"] = req.Business.BusinessLicense
		values["tax_id"] = req.Business.TaxID
	case domain.RoleOperator, domain.RoleWorker:
		if req.Employee == nil {
			return nil, fmt.Errorf("%w: role %s requires an employee profile", domain.ErrMissingProfile, role)
		}
		profile = req.Employee
		values["employee_id"] = req.Employee.EmployeeID
		values["position"] = req.Employee.Position
		values["department"] = req.Employee.Department
	case domain.RoleDeliveryAgent:
		if req.Delivery == nil {
			return nil, fmt.Errorf("%w: role %s requires a delivery profile", domain.ErrMissingProfile, role)
		}
		profile = req.Delivery
		values["employee_id"] = req.Delivery.EmployeeID
		values["vehicle_type"] = req.Delivery.VehicleType
		values["license_plate"] = req.Delivery.LicensePlate
		values["drivers_license"] = req.Delivery.DriversLicense
	case domain.RoleDeveloper, domain.RoleTester, domain.RoleNetworkAdmin, domain.RoleDatabaseAdmin:
		if req.Tech == nil {
			return nil, fmt.Errorf("%w: role %s requires a tech profile", domain.ErrMissingProfile, role)
		}
		profile = req.Tech
		values["employee_id"] = req.Tech.EmployeeID
		values["specialization"] = req.Tech.Specialization
		values["department"] = req.Tech.Department
	}

	var missing []string
	for _, field := range required {
		if values[field] == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingProfile, strings.Join(missing, ", "))
	}
	return profile, nil
}

// Login implements domain.AuthService. Every failure, whatever the
// internal cause, surfaces as ErrInvalidCredentials so the response never
// reveals whether the account exists or which factor failed.
func (s *AuthServiceImpl) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	switch req.Method {
	case domain.LoginEmailPassword:
		if req.Email == "" || req.Password == "" {
			return nil, domain.ErrInvalidCredentials
		}
		user, err := s.userRepo.FindByEmail(ctx, req.Email)
		return s.passwordLogin(ctx, user, err, req.Password)
	case domain.LoginPhonePassword:
		if req.Phone == "" || req.Password == "" {
			return nil, domain.ErrInvalidCredentials
		}
		user, err := s.userRepo.FindByPhone(ctx, req.Phone)
		return s.passwordLogin(ctx, user, err, req.Password)
	case domain.LoginEmailOTP:
		if req.Email == "" || req.Code == "" {
			return nil, domain.ErrInvalidCredentials
		}
		user, err := s.userRepo.FindByEmail(ctx, req.Email)
		return s.otpLogin(ctx, user, err, domain.Contact{Email: req.Email}, req.Code)
	case domain.LoginPhoneOTP:
		if req.Phone == "" || req.Code == "" {
			return nil, domain.ErrInvalidCredentials
		}
		user, err := s.userRepo.FindByPhone(ctx, req.Phone)
		return s.otpLogin(ctx, user, err, domain.Contact{Phone: req.Phone}, req.Code)
	}
	return nil, domain.ErrInvalidCredentials
}

func (s *AuthServiceImpl) passwordLogin(ctx context.Context, user *domain.User, findErr error, password string) (*domain.AuthResult, error) {
	if findErr != nil || user == nil || !user.IsActive {
		// Burn a compare anyway so a lookup miss takes as long as a
		// mismatch.
		s.passwordSvc.Verify(s.dummyHash, password)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		// Tracked internally even though the response stays uniform.
		if err := s.userRepo.IncrementInvalidLogins(ctx, user.ID); err != nil {
			log.Printf("failed to record invalid login for user %d: %v", user.ID, err)
		}
		return nil, domain.ErrInvalidCredentials
	}

	return s.finishLogin(ctx, user)
}

func (s *AuthServiceImpl) otpLogin(ctx context.Context, user *domain.User, findErr error, contact domain.Contact, code string) (*domain.AuthResult, error) {
	if findErr != nil || user == nil || !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.otpSvc.Verify(ctx, contact, code, domain.PurposeLogin); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.finishLogin(ctx, user)
}

func (s *AuthServiceImpl) finishLogin(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	now := time.Now()
	if err := s.userRepo.RecordLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.InvalidLogins = 0
	user.LastLoginAt = &now

	token, expiresAt, err := s.tokenSvc.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.AuthResult{
		User:        user.Info(),
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// ValidateToken implements domain.AuthService. The user is re-fetched so a
// deactivated account invalidates every outstanding token immediately,
// not at expiry.
func (s *AuthServiceImpl) ValidateToken(ctx context.Context, token string) (*domain.UserInfo, error) {
	claims, err := s.tokenSvc.Validate(token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, domain.ErrTokenInvalid
	}

	return user.Info(), nil
}

// UpdatePassword implements domain.AuthService
func (s *AuthServiceImpl) UpdatePassword(ctx context.Context, userID uint, current, next string) error {
	if len(next) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", domain.ErrMissingFields)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.passwordSvc.Verify(user.PasswordHash, current) {
		return domain.ErrInvalidCredentials
	}

	hashed, err := s.passwordSvc.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hashed

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// ForgotPassword implements domain.AuthService. The outcome is identical
// whether or not the account exists; reset delivery happens out of band.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || !user.IsActive {
		return nil
	}

	if _, err := s.otpSvc.Generate(ctx, domain.Contact{Email: email}, domain.PurposePasswordReset); err != nil {
		log.Printf("password reset otp for %q not sent: %v", email, err)
	}
	return nil
}

// GetProfile implements domain.AuthService
func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// CheckPermission implements domain.AuthService. The check runs against
// the snapshot taken at registration, matching the claims of any token
// issued for the user, not the live catalog.
func (s *AuthServiceImpl) CheckPermission(user *domain.User, permission string) bool {
	if user == nil {
		return false
	}
	return user.HasPermission(permission)
}
