package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/you/authsvc/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags). The
// permission snapshot and the role-specific profile are stored as JSON
// columns; the profile deserializes back into the variant the role
// dictates.
type DBUser struct {
	ID            uint   `gorm:"primaryKey"`
	Email         string `gorm:"uniqueIndex;size:255"`
	Phone         string `gorm:"index;size:32"`
	PasswordHash  string `gorm:"column:password"`
	Role          string `gorm:"index;size:64"`
	Organization  string `gorm:"size:255"`
	Permissions   string `gorm:"type:text"`
	Profile       string `gorm:"type:text"`
	IsActive      bool   `gorm:"index"`
	EmailVerified bool
	PhoneVerified bool
	InvalidLogins int
	LastLoginAt   *time.Time
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	dbUser, err := r.domainToDB(user)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return storeErr(err)
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, "phone = ?", phone)
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeErr(err)
	}
	return r.dbToDomain(&dbUser)
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	dbUser, err := r.domainToDB(user)
	if err != nil {
		return err
	}
	return storeErr(r.db.WithContext(ctx).Save(dbUser).Error)
}

// IncrementInvalidLogins implements domain.UserRepository. The increment
// runs in SQL so concurrent failed logins never lose updates.
func (r *UserRepositoryImpl) IncrementInvalidLogins(ctx context.Context, userID uint) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return storeErr(r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).
		UpdateColumn("invalid_logins", gorm.Expr("invalid_logins + 1")).Error)
}

// RecordLogin implements domain.UserRepository
func (r *UserRepositoryImpl) RecordLogin(ctx context.Context, userID uint, at time.Time) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return storeErr(r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"invalid_logins": 0,
			"last_login_at":  at,
		}).Error)
}

// SetEmailVerified implements domain.UserRepository
func (r *UserRepositoryImpl) SetEmailVerified(ctx context.Context, userID uint) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return storeErr(r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).Update("email_verified", true).Error)
}

// SetPhoneVerified implements domain.UserRepository
func (r *UserRepositoryImpl) SetPhoneVerified(ctx context.Context, userID uint) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return storeErr(r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).Update("phone_verified", true).Error)
}

// domainToDB converts a domain user to the database model
func (r *UserRepositoryImpl) domainToDB(user *domain.User) (*DBUser, error) {
	perms, err := json.Marshal(user.Permissions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal permissions: %w", err)
	}

	profile := ""
	if user.Profile != nil {
		data, err := json.Marshal(user.Profile)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profile: %w", err)
		}
		profile = string(data)
	}

	return &DBUser{
		ID:            user.ID,
		Email:         user.Email,
		Phone:         user.Phone,
		PasswordHash:  user.PasswordHash,
		Role:          string(user.Role),
		Organization:  user.Organization,
		Permissions:   string(perms),
		Profile:       profile,
		IsActive:      user.IsActive,
		EmailVerified: user.EmailVerified,
		PhoneVerified: user.PhoneVerified,
		InvalidLogins: user.InvalidLogins,
		LastLoginAt:   user.LastLoginAt,
	}, nil
}

// dbToDomain converts a database user to the domain model
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) (*domain.User, error) {
	user := &domain.User{
		ID:            dbUser.ID,
		Email:         dbUser.Email,
		Phone:         dbUser.Phone,
		PasswordHash:  dbUser.PasswordHash,
		Role:          domain.Role(dbUser.Role),
		Organization:  dbUser.Organization,
		IsActive:      dbUser.IsActive,
		EmailVerified: dbUser.EmailVerified,
		PhoneVerified: dbUser.PhoneVerified,
		InvalidLogins: dbUser.InvalidLogins,
		LastLoginAt:   dbUser.LastLoginAt,
		CreatedAt:     dbUser.CreatedAt,
		UpdatedAt:     dbUser.UpdatedAt,
	}

	if dbUser.Permissions != "" {
		if err := json.Unmarshal([]byte(dbUser.Permissions), &user.Permissions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal permissions: %w", err)
		}
	}

	profile, err := profileForRole(user.Role, dbUser.Profile)
	if err != nil {
		return nil, err
	}
	user.Profile = profile

	return user, nil
}

// profileForRole deserializes the stored profile into the variant the role
// carries. Customers have no profile; an empty column stays nil.
func profileForRole(role domain.Role, data string) (domain.RoleProfile, error) {
	if data == "" {
		return nil, nil
	}

	var profile domain.RoleProfile
	switch role {
	case domain.RoleBiller:
		profile = &domain.BusinessProfile{}
	case domain.RoleOperator, domain.RoleWorker:
		profile = &domain.EmployeeProfile{}
	case domain.RoleDeliveryAgent:
		profile = &domain.DeliveryProfile{}
	case domain.RoleDeveloper, domain.RoleTester, domain.RoleNetworkAdmin, domain.RoleDatabaseAdmin:
		profile = &domain.TechProfile{}
	default:
		return nil, nil
	}

	if err := json.Unmarshal([]byte(data), profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return profile, nil
}
