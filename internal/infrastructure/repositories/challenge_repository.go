package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/you/authsvc/domain"
)

// ChallengeRepositoryImpl implements domain.ChallengeRepository using GORM
type ChallengeRepositoryImpl struct {
	db *gorm.DB
}

// DBChallenge represents the database model for an OTP challenge
type DBChallenge struct {
	ID          uint   `gorm:"primaryKey"`
	Email       string `gorm:"index;size:255"`
	Phone       string `gorm:"index;size:32"`
	Code        string `gorm:"size:16"`
	Purpose     string `gorm:"index;size:32"`
	IsUsed      bool   `gorm:"index"`
	Attempts    int
	MaxAttempts int
	CreatedAt   time.Time
	ExpiresAt   time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBChallenge) TableName() string {
	return "otp_challenges"
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *gorm.DB) domain.ChallengeRepository {
	return &ChallengeRepositoryImpl{db: db}
}

// Supersede implements domain.ChallengeRepository. The invalidate and the
// insert share a transaction so two concurrent generations cannot leave
// two live challenges for the same (contact, purpose) pair.
func (r *ChallengeRepositoryImpl) Supersede(ctx context.Context, challenge *domain.Challenge) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invalidate := tx.Model(&DBChallenge{}).
			Where("purpose = ? AND is_used = ?", string(challenge.Purpose), false)
		invalidate = contactScope(invalidate, challenge.Contact())
		if err := invalidate.Update("is_used", true).Error; err != nil {
			return err
		}

		dbChallenge := r.domainToDB(challenge)
		if err := tx.Create(dbChallenge).Error; err != nil {
			return err
		}
		challenge.ID = dbChallenge.ID
		challenge.CreatedAt = dbChallenge.CreatedAt
		return nil
	})
	return storeErr(err)
}

// FindActive implements domain.ChallengeRepository
func (r *ChallengeRepositoryImpl) FindActive(ctx context.Context, contact domain.Contact, purpose domain.OTPPurpose) (*domain.Challenge, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var dbChallenge DBChallenge
	q := r.db.WithContext(ctx).
		Where("purpose = ? AND is_used = ? AND expires_at > ?", string(purpose), false, time.Now())
	q = contactScope(q, contact)
	err := q.Order("created_at DESC").First(&dbChallenge).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrOTPNotFound
		}
		return nil, storeErr(err)
	}
	return r.dbToDomain(&dbChallenge), nil
}

// MarkUsed implements domain.ChallengeRepository
func (r *ChallengeRepositoryImpl) MarkUsed(ctx context.Context, challengeID uint) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return storeErr(r.db.WithContext(ctx).Model(&DBChallenge{}).
		Where("id = ?", challengeID).Update("is_used", true).Error)
}

// IncrementAttempts implements domain.ChallengeRepository. The increment
// runs in SQL so concurrent guesses never lose updates.
func (r *ChallengeRepositoryImpl) IncrementAttempts(ctx context.Context, challengeID uint) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return storeErr(r.db.WithContext(ctx).Model(&DBChallenge{}).
		Where("id = ?", challengeID).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error)
}

func contactScope(q *gorm.DB, contact domain.Contact) *gorm.DB {
	if contact.Email != "" {
		return q.Where("email = ?", contact.Email)
	}
	return q.Where("phone = ?", contact.Phone)
}

func (r *ChallengeRepositoryImpl) domainToDB(c *domain.Challenge) *DBChallenge {
	return &DBChallenge{
		ID:          c.ID,
		Email:       c.Email,
		Phone:       c.Phone,
		Code:        c.Code,
		Purpose:     string(c.Purpose),
		IsUsed:      c.IsUsed,
		Attempts:    c.Attempts,
		MaxAttempts: c.MaxAttempts,
		ExpiresAt:   c.ExpiresAt,
	}
}

func (r *ChallengeRepositoryImpl) dbToDomain(c *DBChallenge) *domain.Challenge {
	return &domain.Challenge{
		ID:          c.ID,
		Email:       c.Email,
		Phone:       c.Phone,
		Code:        c.Code,
		Purpose:     domain.OTPPurpose(c.Purpose),
		IsUsed:      c.IsUsed,
		Attempts:    c.Attempts,
		MaxAttempts: c.MaxAttempts,
		CreatedAt:   c.CreatedAt,
		ExpiresAt:   c.ExpiresAt,
	}
}
