package router

import (
	"github.com/labstack/echo/v4"

	"predu/internal/adapter/api/handler"
	"predu/internal/adapter/api/middleware"
)

func SetupInstitutionRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	institutionHandler := handler.GetInstitutionHandler()

	e.GET("/v1/institutions/:id", institutionHandler.Get, authMiddleware.Authenticate)
}
