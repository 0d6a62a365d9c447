package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/authsvc/domain"
)

const testSecret = "test-secret-key-for-jwt-signing"

func newTestJWTService() domain.TokenService {
	return NewJWTService(testSecret, "authsvc", 8*time.Hour)
}

func testUser() *domain.User {
	return &domain.User{
		ID:           42,
		Email:        "a@x.com",
		Role:         domain.RoleCustomer,
		Organization: domain.OrgExternalUsers,
		Permissions:  domain.PermissionsForRole(domain.RoleCustomer),
		IsActive:     true,
	}
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestJWTService()

	token, expiresAt, err := svc.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
	assert.Equal(t, domain.OrgExternalUsers, claims.Organization)
	assert.ElementsMatch(t, domain.PermissionsForRole(domain.RoleCustomer), claims.Permissions)
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt)
}

func TestJWTService_ProfileClaims(t *testing.T) {
	svc := newTestJWTService()

	tests := []struct {
		name       string
		profile    domain.RoleProfile
		wantClaims map[string]string
	}{
		{
			name: "business profile carries restaurant and upi",
			profile: &domain.BusinessProfile{
				RestaurantName: "Spice Route",
				UpiID:          "spice@upi",
			},
			wantClaims: map[string]string{
				"restaurant": "Spice Route",
				"upi_id":     "spice@upi",
			},
		},
		{
			name: "delivery profile carries vehicle and plate",
			profile: &domain.DeliveryProfile{
				EmployeeID:   "EMP-1",
				VehicleType:  "scooter",
				LicensePlate: "KA01AB1234",
			},
			wantClaims: map[string]string{
				"vehicle_type":  "scooter",
				"license_plate": "KA01AB1234",
			},
		},
		{
			name: "tech profile carries employee id",
			profile: &domain.TechProfile{
				EmployeeID: "EMP-7",
			},
			wantClaims: map[string]string{
				"employee_id": "EMP-7",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := testUser()
			user.Profile = tt.profile

			token, _, err := svc.Issue(user)
			require.NoError(t, err)

			parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
				return []byte(testSecret), nil
			})
			require.NoError(t, err)
			claims := parsed.Claims.(jwt.MapClaims)

			for key, want := range tt.wantClaims {
				assert.Equal(t, want, claims[key], "claim %s", key)
			}
		})
	}
}

func TestJWTService_Validate_Failures(t *testing.T) {
	svc := newTestJWTService()

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Validate("not.a.token")
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService("a-different-secret-entirely", "authsvc", time.Hour)
		token, _, err := other.Issue(testUser())
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTService(testSecret, "authsvc", -time.Minute)
		token, _, err := expired.Issue(testUser())
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, _, err := svc.Issue(testUser())
		require.NoError(t, err)

		tampered := token[:len(token)-4] + "AAAA"
		_, err = svc.Validate(tampered)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("unsigned token rejected", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub":  int64(42),
			"role": "customer",
			"iat":  time.Now().Unix(),
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("missing role claim", func(t *testing.T) {
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": int64(42),
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		token, err := raw.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})
}

func TestJWTService_UniqueJTI(t *testing.T) {
	svc := newTestJWTService()
	user := testUser()

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		token, _, err := svc.Issue(user)
		require.NoError(t, err)

		parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)

		jti := parsed.Claims.(jwt.MapClaims)["jti"].(string)
		assert.False(t, seen[jti], "jti reused across issues")
		seen[jti] = true
	}
}
