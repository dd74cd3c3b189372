package router

import (
	"github.com/labstack/echo/v4"

	"predu/internal/adapter/api/handler"
	"predu/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	tutorRequestHandler := handler.GetTutorRequestHandler()

	// Admin routes - require authentication and admin role
	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/tutor-requests", tutorRequestHandler.List)
	admin.POST("/tutor-requests/:id/approve", tutorRequestHandler.Approve)
	admin.POST("/tutor-requests/:id/reject", tutorRequestHandler.Reject)
}
