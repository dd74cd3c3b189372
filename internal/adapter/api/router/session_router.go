package router

import (
	"github.com/labstack/echo/v4"

	"predu/internal/adapter/api/handler"
	"predu/internal/adapter/api/middleware"
)

func SetupSessionRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	sessionHandler := handler.GetSessionHandler()

	e.GET("/v1/session", sessionHandler.GetSession, authMiddleware.Optional)
	e.GET("/v1/route", sessionHandler.Route, authMiddleware.Optional)
}
