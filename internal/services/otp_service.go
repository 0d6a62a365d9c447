package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/authsvc/domain"
)

// OTPServiceImpl implements domain.OTPService. Challenge lifecycle lives
// in the challenge store; Redis only backs the resend throttle.
type OTPServiceImpl struct {
	notificationSvc domain.NotificationService
	userRepo        domain.UserRepository
	challengeRepo   domain.ChallengeRepository
	redisClient     *redis.Client
	config          OTPConfig
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
	// RevealCodes surfaces the raw code in generation results. Only set
	// outside production; production configs must leave it off.
	RevealCodes bool
}

// NewOTPService creates a new OTP service
func NewOTPService(
	notificationSvc domain.NotificationService,
	userRepo domain.UserRepository,
	challengeRepo domain.ChallengeRepository,
	redisClient *redis.Client,
	config OTPConfig,
) domain.OTPService {
	return &OTPServiceImpl{
		notificationSvc: notificationSvc,
		userRepo:        userRepo,
		challengeRepo:   challengeRepo,
		redisClient:     redisClient,
		config:          config,
	}
}

// Generate implements domain.OTPService
func (s *OTPServiceImpl) Generate(ctx context.Context, contact domain.Contact, purpose domain.OTPPurpose) (*domain.OTPResult, error) {
	if !contact.Valid() {
		return nil, domain.ErrInvalidContact
	}

	// A login OTP only makes sense for an account that exists.
	if purpose == domain.PurposeLogin {
		if _, err := s.findUser(ctx, contact); err != nil {
			return nil, err
		}
	}

	if canResend, waitTime, err := s.CanResend(ctx, contact); err != nil {
		return nil, err
	} else if !canResend {
		return nil, fmt.Errorf("%w: wait %d seconds", domain.ErrOTPResendLimit, waitTime)
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	challenge := &domain.Challenge{
		Email:       contact.Email,
		Phone:       contact.Phone,
		Code:        code,
		Purpose:     purpose,
		MaxAttempts: s.config.MaxAttempts,
		ExpiresAt:   time.Now().Add(s.config.TTL),
	}

	// Supersede marks every live challenge for this (contact, purpose)
	// pair used before inserting, so only the newest code can redeem.
	if err := s.challengeRepo.Supersede(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to store OTP challenge: %w", err)
	}

	s.setResendThrottle(ctx, contact)

	if err := s.deliver(contact, code); err != nil {
		// The undeliverable code must not stay redeemable.
		if markErr := s.challengeRepo.MarkUsed(ctx, challenge.ID); markErr != nil {
			log.Printf("failed to invalidate undelivered challenge %d: %v", challenge.ID, markErr)
		}
		return nil, fmt.Errorf("failed to deliver OTP: %w", err)
	}

	result := &domain.OTPResult{ExpiresAt: challenge.ExpiresAt}
	if s.config.RevealCodes {
		result.Code = code
	}
	return result, nil
}

// Verify implements domain.OTPService. There is exactly one success path:
// a live challenge with a matching code that has attempts to spare. A
// used challenge can never verify again.
func (s *OTPServiceImpl) Verify(ctx context.Context, contact domain.Contact, code string, purpose domain.OTPPurpose) error {
	if !contact.Valid() {
		return domain.ErrInvalidContact
	}

	challenge, err := s.challengeRepo.FindActive(ctx, contact, purpose)
	if err != nil {
		return err
	}

	if challenge.Attempts >= challenge.MaxAttempts {
		return domain.ErrOTPMaxAttempts
	}

	if subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(code)) != 1 {
		if err := s.challengeRepo.IncrementAttempts(ctx, challenge.ID); err != nil {
			log.Printf("failed to record otp attempt for challenge %d: %v", challenge.ID, err)
		}
		return domain.ErrOTPInvalid
	}

	if err := s.challengeRepo.MarkUsed(ctx, challenge.ID); err != nil {
		return fmt.Errorf("failed to consume OTP challenge: %w", err)
	}

	s.recordVerification(ctx, contact, purpose)

	return nil
}

// recordVerification flips the matching verified flag on the account for
// the verification purposes. Best-effort: the OTP is already consumed.
func (s *OTPServiceImpl) recordVerification(ctx context.Context, contact domain.Contact, purpose domain.OTPPurpose) {
	if purpose != domain.PurposeEmailVerification && purpose != domain.PurposePhoneVerification {
		return
	}
	user, err := s.findUser(ctx, contact)
	if err != nil {
		return
	}

	if purpose == domain.PurposeEmailVerification {
		err = s.userRepo.SetEmailVerified(ctx, user.ID)
	} else {
		err = s.userRepo.SetPhoneVerified(ctx, user.ID)
	}
	if err != nil {
		log.Printf("failed to mark user %d verified: %v", user.ID, err)
	}
}

// CanResend implements domain.OTPService with Redis-based throttling
func (s *OTPServiceImpl) CanResend(ctx context.Context, contact domain.Contact) (bool, int64, error) {
	if s.redisClient == nil {
		return true, 0, nil
	}

	ttl, err := s.redisClient.TTL(ctx, resendKey(contact)).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return false, 0, domain.ErrStoreUnavailable
		}
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}

	if ttl <= 0 {
		return true, 0, nil
	}
	return false, int64(ttl.Seconds()), nil
}

func (s *OTPServiceImpl) setResendThrottle(ctx context.Context, contact domain.Contact) {
	if s.redisClient == nil || s.config.ResendWindow <= 0 {
		return
	}
	if err := s.redisClient.Set(ctx, resendKey(contact), 1, s.config.ResendWindow).Err(); err != nil {
		log.Printf("failed to set otp resend throttle for %q: %v", contact.Key(), err)
	}
}

func resendKey(contact domain.Contact) string {
	return "otp:resend:" + contact.Key()
}

func (s *OTPServiceImpl) findUser(ctx context.Context, contact domain.Contact) (*domain.User, error) {
	if contact.Email != "" {
		return s.userRepo.FindByEmail(ctx, contact.Email)
	}
	return s.userRepo.FindByPhone(ctx, contact.Phone)
}

func (s *OTPServiceImpl) deliver(contact domain.Contact, code string) error {
	message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if contact.Phone != "" {
		return s.notificationSvc.SendSMS(contact.Phone, message)
	}
	return s.notificationSvc.SendEmail(contact.Email, "Your verification code", message)
}

// generateSecureCode generates a cryptographically secure OTP code
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
