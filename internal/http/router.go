package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/internal/http/handlers"
	"github.com/you/authsvc/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, ph *handlers.PolicyHandlers, authmw *middleware.AuthMW, cb middleware.CasbinMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/forgot-password", ah.ForgotPassword)
	auth.POST("/otp/generate", ah.GenerateOTP)
	auth.POST("/otp/verify", ah.VerifyOTP)
	auth.GET("/roles", ah.Roles)
	auth.GET("/permissions/:role", ah.RolePermissions)

	protected := r.Group("/auth").Use(authmw.WithToken())
	protected.GET("/validate", ah.Validate)
	protected.GET("/me", ah.Me)
	protected.PUT("/password", ah.UpdatePassword)
	protected.POST("/check-permission", ah.CheckPermission)

	adm := r.Group("/admin").Use(authmw.WithToken(), cb.Enforce())
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
