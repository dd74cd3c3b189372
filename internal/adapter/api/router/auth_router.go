package router

import (
	"github.com/labstack/echo/v4"

	"predu/internal/adapter/api/handler"
	"predu/internal/adapter/api/middleware"
	"predu/internal/infrastructure/ratelimit"
)

// SetupAuthRouter initializes auth routes. All of them are public and
// throttled per client IP.
func SetupAuthRouter(e *echo.Echo, limiter middleware.Limiter) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/v1/auth")
	auth.Use(middleware.RateLimit(limiter, ratelimit.ActionAuth))

	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/guest", authHandler.Guest)
}
