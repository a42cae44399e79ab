package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/you/eduauthsvc/internal/http/handlers"
	"github.com/you/eduauthsvc/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, ph *handlers.PolicyHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/refresh", ah.Refresh)
	auth.POST("/password/forgot", ah.ForgotPassword)
	auth.POST("/password/verify-otp", ah.VerifyResetOTP)
	auth.POST("/password/reset", ah.ResetPassword)
	auth.POST("/email/request-verification", ah.RequestEmailVerification)
	auth.POST("/email/verify", ah.VerifyEmail)

	v := r.Group("/").Use(jwtmw.WithJWT(), cb.Enforce())
	v.GET("/auth/me", ah.Me)

	adm := r.Group("/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
