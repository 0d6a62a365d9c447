package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/config"
	httpx "github.com/you/authsvc/internal/http"
	"github.com/you/authsvc/internal/http/handlers"
	"github.com/you/authsvc/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	container, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if err := container.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}

	authH := handlers.NewAuthHandlers(container.AuthSvc, container.OTPSvc)
	polH := handlers.NewPolicyHandlers(container.PolicySvc)

	authMW := middleware.NewAuthMW(container.AuthSvc)
	casbinMW := middleware.NewCasbinMW(container.Casbin.E)

	r := httpx.BuildRouter(authH, polH, authMW, casbinMW)

	seedPolicies(container.PolicySvc)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}

// seedPolicies grants the IT roles the admin surface on first boot.
// Route policies are administrative state, separate from the permission
// snapshots carried in tokens.
func seedPolicies(policySvc domain.PolicyService) {
	if len(policySvc.GetPolicies()) > 0 {
		return
	}
	for _, role := range []domain.Role{domain.RoleDeveloper, domain.RoleNetworkAdmin, domain.RoleDatabaseAdmin} {
		if err := policySvc.AddPolicy("role_"+string(role), "/admin/*", "(GET|POST|DELETE)"); err != nil {
			log.Printf("casbin: failed to seed policy for %s: %v", role, err)
		}
	}
	log.Println("casbin: seeded default policies")
}
