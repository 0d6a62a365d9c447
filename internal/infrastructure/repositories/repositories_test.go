package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/authsvc/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&DBUser{}, &DBChallenge{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, repo domain.UserRepository, user *domain.User) *domain.User {
	t.Helper()
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := seedUser(t, repo, &domain.User{
		Email:        "a@x.com",
		Phone:        "+1234567890",
		PasswordHash: "hash",
		Role:         domain.RoleBiller,
		Organization: domain.OrgDefaultRestaurant,
		Permissions:  domain.PermissionsForRole(domain.RoleBiller),
		Profile: &domain.BusinessProfile{
			RestaurantName:  "Spice Route",
			BusinessLicense: "BL-100",
			TaxID:           "TX-9",
			UpiID:           "spice@upi",
		},
		IsActive: true,
	})
	if user.ID == 0 {
		t.Fatal("expected ID assigned on create")
	}

	tests := []struct {
		name string
		find func() (*domain.User, error)
	}{
		{"by email", func() (*domain.User, error) { return repo.FindByEmail(ctx, "a@x.com") }},
		{"by phone", func() (*domain.User, error) { return repo.FindByPhone(ctx, "+1234567890") }},
		{"by id", func() (*domain.User, error) { return repo.FindByID(ctx, user.ID) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := tt.find()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if found.Email != "a@x.com" || found.Role != domain.RoleBiller {
				t.Errorf("roundtrip mismatch: %+v", found)
			}
			if len(found.Permissions) != len(domain.PermissionsForRole(domain.RoleBiller)) {
				t.Errorf("permission snapshot lost: %v", found.Permissions)
			}
			profile, ok := found.Profile.(*domain.BusinessProfile)
			if !ok {
				t.Fatalf("expected business profile back, got %T", found.Profile)
			}
			if profile.RestaurantName != "Spice Route" || profile.UpiID != "spice@upi" {
				t.Errorf("profile roundtrip mismatch: %+v", profile)
			}
		})
	}
}

func TestUserRepository_FindMissing(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.FindByEmail(ctx, "nobody@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound by email, got %v", err)
	}
	if _, err := repo.FindByPhone(ctx, "+1999"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound by phone, got %v", err)
	}
	if _, err := repo.FindByID(ctx, 404); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound by id, got %v", err)
	}
}

func TestUserRepository_ProfileVariantFollowsRole(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	tests := []struct {
		name    string
		role    domain.Role
		profile domain.RoleProfile
		check   func(*testing.T, domain.RoleProfile)
	}{
		{
			name:    "customer has none",
			role:    domain.RoleCustomer,
			profile: nil,
			check: func(t *testing.T, p domain.RoleProfile) {
				if p != nil {
					t.Errorf("expected nil profile, got %T", p)
				}
			},
		},
		{
			name: "worker gets employee variant",
			role: domain.RoleWorker,
			profile: &domain.EmployeeProfile{
				EmployeeID: "EMP-1", Position: "cook", Department: "kitchen",
			},
			check: func(t *testing.T, p domain.RoleProfile) {
				ep, ok := p.(*domain.EmployeeProfile)
				if !ok || ep.Position != "cook" {
					t.Errorf("expected employee profile, got %#v", p)
				}
			},
		},
		{
			name: "delivery agent gets delivery variant",
			role: domain.RoleDeliveryAgent,
			profile: &domain.DeliveryProfile{
				EmployeeID: "EMP-2", VehicleType: "bike", LicensePlate: "KA02", DriversLicense: "DL-1",
			},
			check: func(t *testing.T, p domain.RoleProfile) {
				dp, ok := p.(*domain.DeliveryProfile)
				if !ok || dp.VehicleType != "bike" {
					t.Errorf("expected delivery profile, got %#v", p)
				}
			},
		},
		{
			name: "database admin gets tech variant",
			role: domain.RoleDatabaseAdmin,
			profile: &domain.TechProfile{
				EmployeeID: "EMP-3", Specialization: "postgres", Department: "it",
			},
			check: func(t *testing.T, p domain.RoleProfile) {
				tp, ok := p.(*domain.TechProfile)
				if !ok || tp.Specialization != "postgres" {
					t.Errorf("expected tech profile, got %#v", p)
				}
			},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := seedUser(t, repo, &domain.User{
				Email:    "user" + string(rune('a'+i)) + "@x.com",
				Role:     tt.role,
				Profile:  tt.profile,
				IsActive: true,
			})
			found, err := repo.FindByID(ctx, user.ID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, found.Profile)
		})
	}
}

func TestUserRepository_InvalidLoginCounter(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := seedUser(t, repo, &domain.User{
		Email: "a@x.com", Role: domain.RoleCustomer, IsActive: true,
	})

	for i := 0; i < 3; i++ {
		if err := repo.IncrementInvalidLogins(ctx, user.ID); err != nil {
			t.Fatalf("increment failed: %v", err)
		}
	}
	found, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.InvalidLogins != 3 {
		t.Errorf("expected 3 invalid logins, got %d", found.InvalidLogins)
	}
	if found.LastLoginAt != nil {
		t.Error("failed attempts must not stamp a login")
	}

	at := time.Now()
	if err := repo.RecordLogin(ctx, user.ID, at); err != nil {
		t.Fatalf("record login failed: %v", err)
	}
	found, err = repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.InvalidLogins != 0 {
		t.Errorf("successful login must reset the counter, got %d", found.InvalidLogins)
	}
	if found.LastLoginAt == nil {
		t.Fatal("expected last login stamped")
	}
}

func TestUserRepository_VerifiedFlags(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := seedUser(t, repo, &domain.User{
		Email: "a@x.com", Phone: "+1", Role: domain.RoleCustomer, IsActive: true,
	})

	if err := repo.SetEmailVerified(ctx, user.ID); err != nil {
		t.Fatalf("set email verified failed: %v", err)
	}
	if err := repo.SetPhoneVerified(ctx, user.ID); err != nil {
		t.Fatalf("set phone verified failed: %v", err)
	}

	found, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found.EmailVerified || !found.PhoneVerified {
		t.Errorf("expected both flags set, got email=%v phone=%v", found.EmailVerified, found.PhoneVerified)
	}
}

func newChallenge(email string, purpose domain.OTPPurpose, code string) *domain.Challenge {
	return &domain.Challenge{
		Email:       email,
		Code:        code,
		Purpose:     purpose,
		MaxAttempts: 3,
		ExpiresAt:   time.Now().Add(5 * time.Minute),
	}
}

func TestChallengeRepository_SupersedeLeavesOneLive(t *testing.T) {
	repo := NewChallengeRepository(setupTestDB(t))
	ctx := context.Background()
	contact := domain.Contact{Email: "a@x.com"}

	first := newChallenge("a@x.com", domain.PurposeLogin, "111111")
	if err := repo.Supersede(ctx, first); err != nil {
		t.Fatalf("first supersede failed: %v", err)
	}
	second := newChallenge("a@x.com", domain.PurposeLogin, "222222")
	if err := repo.Supersede(ctx, second); err != nil {
		t.Fatalf("second supersede failed: %v", err)
	}

	active, err := repo.FindActive(ctx, contact, domain.PurposeLogin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active.Code != "222222" {
		t.Errorf("expected the newest code to be live, got %q", active.Code)
	}
	if active.ID == first.ID {
		t.Error("superseded challenge still resolves as active")
	}
}

func TestChallengeRepository_SupersedeScopedByPurpose(t *testing.T) {
	repo := NewChallengeRepository(setupTestDB(t))
	ctx := context.Background()
	contact := domain.Contact{Email: "a@x.com"}

	login := newChallenge("a@x.com", domain.PurposeLogin, "111111")
	if err := repo.Supersede(ctx, login); err != nil {
		t.Fatalf("supersede failed: %v", err)
	}
	reset := newChallenge("a@x.com", domain.PurposePasswordReset, "222222")
	if err := repo.Supersede(ctx, reset); err != nil {
		t.Fatalf("supersede failed: %v", err)
	}

	// A reset code must not displace the pending login code.
	active, err := repo.FindActive(ctx, contact, domain.PurposeLogin)
	if err != nil {
		t.Fatalf("login challenge lost: %v", err)
	}
	if active.Code != "111111" {
		t.Errorf("expected login code to survive, got %q", active.Code)
	}
}

func TestChallengeRepository_FindActive(t *testing.T) {
	repo := NewChallengeRepository(setupTestDB(t))
	ctx := context.Background()
	contact := domain.Contact{Email: "a@x.com"}

	t.Run("no challenges", func(t *testing.T) {
		_, err := repo.FindActive(ctx, contact, domain.PurposeLogin)
		if !errors.Is(err, domain.ErrOTPNotFound) {
			t.Fatalf("expected ErrOTPNotFound, got %v", err)
		}
	})

	t.Run("expired challenge is not active", func(t *testing.T) {
		expired := newChallenge("a@x.com", domain.PurposeLogin, "111111")
		expired.ExpiresAt = time.Now().Add(-time.Minute)
		if err := repo.Supersede(ctx, expired); err != nil {
			t.Fatalf("supersede failed: %v", err)
		}

		_, err := repo.FindActive(ctx, contact, domain.PurposeLogin)
		if !errors.Is(err, domain.ErrOTPNotFound) {
			t.Fatalf("expected ErrOTPNotFound, got %v", err)
		}
	})

	t.Run("used challenge is not active", func(t *testing.T) {
		ch := newChallenge("a@x.com", domain.PurposeLogin, "222222")
		if err := repo.Supersede(ctx, ch); err != nil {
			t.Fatalf("supersede failed: %v", err)
		}
		if err := repo.MarkUsed(ctx, ch.ID); err != nil {
			t.Fatalf("mark used failed: %v", err)
		}

		_, err := repo.FindActive(ctx, contact, domain.PurposeLogin)
		if !errors.Is(err, domain.ErrOTPNotFound) {
			t.Fatalf("expected ErrOTPNotFound, got %v", err)
		}
	})

	t.Run("phone contact scoping", func(t *testing.T) {
		ch := &domain.Challenge{
			Phone:       "+1234567890",
			Code:        "333333",
			Purpose:     domain.PurposeLogin,
			MaxAttempts: 3,
			ExpiresAt:   time.Now().Add(5 * time.Minute),
		}
		if err := repo.Supersede(ctx, ch); err != nil {
			t.Fatalf("supersede failed: %v", err)
		}

		found, err := repo.FindActive(ctx, domain.Contact{Phone: "+1234567890"}, domain.PurposeLogin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found.Code != "333333" {
			t.Errorf("expected phone-scoped challenge, got %q", found.Code)
		}
	})
}

func TestChallengeRepository_IncrementAttempts(t *testing.T) {
	repo := NewChallengeRepository(setupTestDB(t))
	ctx := context.Background()

	ch := newChallenge("a@x.com", domain.PurposeLogin, "111111")
	if err := repo.Supersede(ctx, ch); err != nil {
		t.Fatalf("supersede failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.IncrementAttempts(ctx, ch.ID); err != nil {
			t.Fatalf("increment failed: %v", err)
		}
	}

	found, err := repo.FindActive(ctx, domain.Contact{Email: "a@x.com"}, domain.PurposeLogin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", found.Attempts)
	}
}
