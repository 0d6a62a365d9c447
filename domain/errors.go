package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrUserInactive       = errors.New("user account is inactive")
)

// Validation errors
var (
	ErrMissingFields  = errors.New("required fields missing")
	ErrUnknownRole    = errors.New("unknown role")
	ErrInvalidPurpose = errors.New("invalid otp purpose")
	ErrInvalidContact = errors.New("exactly one of email or phone is required")
	ErrMissingProfile = errors.New("role-specific profile missing or incomplete")
)

// OTP errors
var (
	ErrOTPInvalid     = errors.New("invalid otp code")
	ErrOTPNotFound    = errors.New("no active otp challenge")
	ErrOTPMaxAttempts = errors.New("maximum otp attempts exceeded")
	ErrOTPResendLimit = errors.New("otp resend limit exceeded")
)

// Token errors
var (
	ErrTokenInvalid = errors.New("invalid token")
)

// Store errors
var (
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ErrorKind classifies an error for callers that need to map it onto a
// transport-level response. Credential, token and OTP failures all
// classify as Unauthorized so the response never reveals which factor
// failed.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindNotFound
	KindUnavailable
)

// Kind classifies err into the error taxonomy.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrUnknownRole),
		errors.Is(err, ErrInvalidPurpose),
		errors.Is(err, ErrInvalidContact),
		errors.Is(err, ErrMissingProfile),
		errors.Is(err, ErrOTPResendLimit):
		return KindValidation
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrPhoneTaken):
		return KindConflict
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUserInactive),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrOTPInvalid),
		errors.Is(err, ErrOTPNotFound),
		errors.Is(err, ErrOTPMaxAttempts):
		return KindUnauthorized
	case errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return KindUnavailable
	}
	return KindUnknown
}
