package router

import (
	"github.com/labstack/echo/v4"

	"predu/internal/adapter/api/handler"
	"predu/internal/adapter/api/middleware"
)

func SetupTutorRequestRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	tutorRequestHandler := handler.GetTutorRequestHandler()

	requests := e.Group("/v1/tutor-requests")
	requests.Use(authMiddleware.Authenticate)

	requests.POST("", tutorRequestHandler.Submit)
	requests.GET("/me", tutorRequestHandler.Mine)
}
