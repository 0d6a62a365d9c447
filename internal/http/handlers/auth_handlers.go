package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/http/middleware"
)

// AuthHandlers exposes the identity core over HTTP
type AuthHandlers struct {
	authSvc domain.AuthService
	otpSvc  domain.OTPService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, otpSvc domain.OTPService) *AuthHandlers {
	return &AuthHandlers{
		authSvc: authSvc,
		otpSvc:  otpSvc,
	}
}

// statusFor maps the error taxonomy onto HTTP statuses. Unauthorized
// failures share one generic message so responses never reveal which
// factor failed.
func statusFor(err error) (int, string) {
	switch domain.Kind(err) {
	case domain.KindValidation:
		return http.StatusBadRequest, err.Error()
	case domain.KindConflict:
		return http.StatusConflict, err.Error()
	case domain.KindUnauthorized:
		return http.StatusUnauthorized, "invalid credentials"
	case domain.KindNotFound:
		return http.StatusNotFound, "not found"
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable, "service unavailable"
	}
	return http.StatusInternalServerError, "internal error"
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email        string                  `json:"email" binding:"required,email"`
	Phone        string                  `json:"phone"`
	Password     string                  `json:"password" binding:"required,min=6"`
	Role         string                  `json:"role" binding:"required"`
	Organization string                  `json:"organization"`
	Business     *domain.BusinessProfile `json:"business,omitempty"`
	Employee     *domain.EmployeeProfile `json:"employee,omitempty"`
	Delivery     *domain.DeliveryProfile `json:"delivery,omitempty"`
	Tech         *domain.TechProfile     `json:"tech,omitempty"`
}

// LoginRequest represents a login request for any of the four methods
type LoginRequest struct {
	Method   string `json:"method"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// PasswordUpdateRequest represents a password change
type PasswordUpdateRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// ForgotPasswordRequest represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// OTPGenerateRequest represents an OTP generation request
type OTPGenerateRequest struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Purpose string `json:"purpose" binding:"required"`
}

// OTPVerifyRequest represents an OTP verification request
type OTPVerifyRequest struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Code    string `json:"code" binding:"required"`
	Purpose string `json:"purpose" binding:"required"`
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), domain.RegisterRequest{
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     req.Password,
		Role:         domain.Role(req.Role),
		Organization: req.Organization,
		Business:     req.Business,
		Employee:     req.Employee,
		Delivery:     req.Delivery,
		Tech:         req.Tech,
	})
	if err != nil {
		status, msg := statusFor(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"role":         user.Role,
			"organization": user.Organization,
			"permissions":  user.Permissions,
		},
	})
}

// Login handles all four login methods
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	method := domain.LoginMethod(req.Method)
	if req.Method == "" {
		method = domain.LoginEmailPassword
	}

	result, err := h.authSvc.Login(c.Request.Context(), domain.LoginRequest{
		Method:   method,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Code:     req.Code,
	})
	if err != nil {
		status, msg := statusFor(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": result.AccessToken,
			"token_type":   "Bearer",
			"expires_at":   result.ExpiresAt,
			"user":         result.User,
		},
	})
}

// Validate re-checks the presented token and returns the identity view
func (h *AuthHandlers) Validate(c *gin.Context) {
	info, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"valid": true, "user": info}})
}

// Me returns the caller's full profile
func (h *AuthHandlers) Me(c *gin.Context) {
	info, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	user, err := h.authSvc.GetProfile(c.Request.Context(), info.ID)
	if err != nil {
		status, msg := statusFor(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":             user.ID,
			"email":          user.Email,
			"phone":          user.Phone,
			"role":           user.Role,
			"organization":   user.Organization,
			"permissions":    user.Permissions,
			"profile":        user.Profile,
			"is_active":      user.IsActive,
			"email_verified": user.EmailVerified,
			"phone_verified": user.PhoneVerified,
			"last_login_at":  user.LastLoginAt,
			"created_at":     user.CreatedAt,
		},
	})
}

// UpdatePassword handles password changes for the caller
func (h *AuthHandlers) UpdatePassword(c *gin.Context) {
	info, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	var req PasswordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.UpdatePassword(c.Request.Context(), info.ID, req.CurrentPassword, req.NewPassword); err != nil {
		status, msg := statusFor(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "password updated"}})
}

// ForgotPassword always responds with the same message, whether or not
// the account exists.
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_ = h.authSvc.ForgotPassword(c.Request.Context(), req.Email)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "If an account with this email exists, a reset code has been sent"},
	})
}

// GenerateOTP handles OTP challenge creation
func (h *AuthHandlers) GenerateOTP(c *gin.Context) {
	var req OTPGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purpose, err := domain.ParseOTPPurpose(req.Purpose)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.otpSvc.Generate(c.Request.Context(), domain.Contact{Email: req.Email, Phone: req.Phone}, purpose)
	if err != nil {
		status, msg := statusFor(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	data := gin.H{"expires_at": result.ExpiresAt}
	if result.Code != "" {
		data["otp_for_testing"] = result.Code
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// VerifyOTP handles OTP verification
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purpose, err := domain.ParseOTPPurpose(req.Purpose)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.otpSvc.Verify(c.Request.Context(), domain.Contact{Email: req.Email, Phone: req.Phone}, req.Code, purpose); err != nil {
		status, msg := statusFor(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "verified"}})
}

// Roles lists every role with its catalog permissions and organization
func (h *AuthHandlers) Roles(c *gin.Context) {
	roles := make([]gin.H, 0, len(domain.AllRoles))
	for _, role := range domain.AllRoles {
		roles = append(roles, gin.H{
			"role":         role,
			"permissions":  domain.PermissionsForRole(role),
			"organization": domain.OrganizationForRole(role, ""),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": roles})
}

// RolePermissions returns the catalog permission set for one role
func (h *AuthHandlers) RolePermissions(c *gin.Context) {
	role, err := domain.ParseRole(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"role": role, "permissions": domain.PermissionsForRole(role)},
	})
}

// CheckPermission reports whether the caller's snapshot grants a permission
func (h *AuthHandlers) CheckPermission(c *gin.Context) {
	info, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	var req struct {
		Permission string `json:"permission" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authSvc.GetProfile(c.Request.Context(), info.ID)
	if err != nil {
		status, msg := statusFor(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"permission":     req.Permission,
			"has_permission": h.authSvc.CheckPermission(user, req.Permission),
		},
	})
}
