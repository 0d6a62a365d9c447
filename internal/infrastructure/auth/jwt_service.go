package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/you/authsvc/domain"
)

// JWTServiceImpl implements domain.TokenService
type JWTServiceImpl struct {
	secretKey []byte
	issuer    string
	tokenTTL  time.Duration
}

// NewJWTService creates a new JWT service. The secret comes from
// configuration; an empty secret is rejected at startup by config.Load.
func NewJWTService(secretKey string, issuer string, tokenTTL time.Duration) domain.TokenService {
	return &JWTServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		tokenTTL:  tokenTTL,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// Issue implements domain.TokenService. The claim set is a wire contract:
// downstream services authorize against sub, role, org and the permission
// list, and the role supplementary claims carry payment and delivery
// identifiers for the roles that have them.
func (j *JWTServiceImpl) Issue(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.tokenTTL)

	claims := jwt.MapClaims{
		"sub":         int64(user.ID),
		"email":       user.Email,
		"role":        string(user.Role),
		"org":         user.Organization,
		"permissions": user.Permissions,
		"iss":         j.issuer,
		"iat":         now.Unix(),
		"exp":         expiresAt.Unix(),
		"jti":         j.generateJTI(),
	}

	switch p := user.Profile.(type) {
	case *domain.BusinessProfile:
		claims["restaurant"] = p.RestaurantName
		if p.UpiID != "" {
			claims["upi_id"] = p.UpiID
		}
	case *domain.DeliveryProfile:
		claims["vehicle_type"] = p.VehicleType
		claims["license_plate"] = p.LicensePlate
	case *domain.EmployeeProfile:
		claims["employee_id"] = p.EmployeeID
	case *domain.TechProfile:
		claims["employee_id"] = p.EmployeeID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate implements domain.TokenService. Every structural, signature or
// expiry failure collapses into ErrTokenInvalid; the caller never learns
// which check failed.
func (j *JWTServiceImpl) Validate(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return j.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, domain.ErrTokenInvalid
	}

	tokenClaims := &domain.TokenClaims{
		UserID:    uint(sub),
		Role:      domain.Role(role),
		IssuedAt:  int64(iat),
		ExpiresAt: int64(exp),
	}
	if email, ok := claims["email"].(string); ok {
		tokenClaims.Email = email
	}
	if org, ok := claims["org"].(string); ok {
		tokenClaims.Organization = org
	}
	if perms, ok := claims["permissions"].([]interface{}); ok {
		for _, p := range perms {
			if s, ok := p.(string); ok {
				tokenClaims.Permissions = append(tokenClaims.Permissions, s)
			}
		}
	}

	return tokenClaims, nil
}
