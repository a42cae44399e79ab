package app

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/eduauthsvc/internal/config"
	httpx "github.com/you/eduauthsvc/internal/http"
	"github.com/you/eduauthsvc/internal/http/handlers"
	"github.com/you/eduauthsvc/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	authH := handlers.NewAuthHandlers(c.AuthSvc, cfg.RefreshTTL)
	polH := handlers.NewPolicyHandlers(c.PolicySvc)

	jwtMW := middleware.NewAuthMW(c.TokenSvc)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)

	r := httpx.BuildRouter(authH, polH, jwtMW, casbinMW)

	seedPolicies(c)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}

// seedPolicies installs the default role policies on a fresh database
func seedPolicies(c *Container) {
	if len(c.PolicySvc.GetPolicies()) > 0 {
		return
	}
	_ = c.PolicySvc.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
	_ = c.PolicySvc.AddPolicy("role_admin", "/auth/me", "GET")
	_ = c.PolicySvc.AddPolicy("role_student", "/auth/me", "GET")
	log.Println("casbin: seeded default policies")
}
