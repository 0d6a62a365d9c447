package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/domain"
)

// AuthMW validates bearer tokens on protected routes
type AuthMW struct {
	authSvc domain.AuthService
}

func NewAuthMW(authSvc domain.AuthService) *AuthMW {
	return &AuthMW{authSvc: authSvc}
}

// WithToken returns the token validation middleware. Validation goes
// through the auth engine so a deactivated account is rejected even with
// an unexpired token.
func (mw *AuthMW) WithToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		info, err := mw.authSvc.ValidateToken(c.Request.Context(), tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", info.ID)
		c.Set("user_role", string(info.Role))
		c.Set("user_info", info)
		c.Next()
	}
}

// CurrentUser pulls the validated identity out of the request context.
func CurrentUser(c *gin.Context) (*domain.UserInfo, bool) {
	v, ok := c.Get("user_info")
	if !ok {
		return nil, false
	}
	info, ok := v.(*domain.UserInfo)
	return info, ok
}
