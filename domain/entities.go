package domain

import "time"

// User represents an authenticated account in the system
type User struct {
	ID            uint
	Email         string
	Phone         string
	PasswordHash  string
	Role          Role
	Organization  string
	Permissions   []string
	Profile       RoleProfile
	IsActive      bool
	EmailVerified bool
	PhoneVerified bool
	InvalidLogins int
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Info returns the redacted view of the user that is safe to hand back to
// callers. The password hash never leaves the core.
func (u *User) Info() *UserInfo {
	return &UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Role:         u.Role,
		Organization: u.Organization,
		Permissions:  append([]string(nil), u.Permissions...),
		LastLoginAt:  u.LastLoginAt,
	}
}

// HasPermission reports whether the permission is in the user's snapshot.
// The snapshot is taken from the role catalog at registration time and is
// deliberately not re-derived from the live catalog.
func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// UserInfo is the redacted identity view returned by login, token
// validation and profile lookups.
type UserInfo struct {
	ID           uint       `json:"id"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	Organization string     `json:"organization"`
	Permissions  []string   `json:"permissions"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// LoginMethod discriminates the four supported login flows
type LoginMethod string

const (
	LoginEmailPassword LoginMethod = "email_password"
	LoginPhonePassword LoginMethod = "phone_password"
	LoginEmailOTP      LoginMethod = "email_otp"
	LoginPhoneOTP      LoginMethod = "phone_otp"
)

// LoginRequest carries the credentials for one of the four login methods.
// Only the fields required by the chosen method need to be set.
type LoginRequest struct {
	Method   LoginMethod
	Email    string
	Phone    string
	Password string
	Code     string
}

// RegisterRequest carries registration input. The profile pointer matching
// the role's requirement must be set; the others stay nil.
type RegisterRequest struct {
	Email        string
	Phone        string
	Password     string
	Role         Role
	Organization string

	Business *BusinessProfile
	Employee *EmployeeProfile
	Delivery *DeliveryProfile
	Tech     *TechProfile
}

// AuthResult represents a successful login
type AuthResult struct {
	User        *UserInfo
	AccessToken string
	ExpiresAt   time.Time
}

// Contact identifies a user by exactly one of email or phone
type Contact struct {
	Email string
	Phone string
}

// Valid reports whether exactly one of email/phone is present.
func (c Contact) Valid() bool {
	return (c.Email != "") != (c.Phone != "")
}

// Key returns the non-empty side of the contact.
func (c Contact) Key() string {
	if c.Email != "" {
		return c.Email
	}
	return c.Phone
}

// OTPPurpose is the reason a one-time passcode was issued
type OTPPurpose string

const (
	PurposeLogin             OTPPurpose = "login"
	PurposePasswordReset     OTPPurpose = "password_reset"
	PurposePhoneVerification OTPPurpose = "phone_verification"
	PurposeEmailVerification OTPPurpose = "email_verification"
)

// ParseOTPPurpose validates a purpose string supplied by a caller.
func ParseOTPPurpose(s string) (OTPPurpose, error) {
	switch p := OTPPurpose(s); p {
	case PurposeLogin, PurposePasswordReset, PurposePhoneVerification, PurposeEmailVerification:
		return p, nil
	}
	return "", ErrInvalidPurpose
}

// Challenge is a pending one-time-passcode record. At most one live
// challenge exists per (contact, purpose) pair; generation supersedes any
// previous unused challenge for the same pair.
type Challenge struct {
	ID          uint
	Email       string
	Phone       string
	Code        string
	Purpose     OTPPurpose
	IsUsed      bool
	Attempts    int
	MaxAttempts int
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Valid reports whether the challenge can still be redeemed.
func (c *Challenge) Valid(now time.Time) bool {
	return !c.IsUsed && !now.After(c.ExpiresAt) && c.Attempts < c.MaxAttempts
}

// Contact returns the contact the challenge was issued for.
func (c *Challenge) Contact() Contact {
	return Contact{Email: c.Email, Phone: c.Phone}
}

// OTPResult represents a generated challenge
type OTPResult struct {
	ExpiresAt time.Time
	// Code is only populated outside production deployments so integration
	// tests can complete the flow without a real SMS/email channel.
	Code string
}

// TokenClaims represents the claim bundle carried by an issued token
type TokenClaims struct {
	UserID       uint
	Email        string
	Role         Role
	Organization string
	Permissions  []string
	IssuedAt     int64
	ExpiresAt    int64
}
