package router

import (
	"github.com/labstack/echo/v4"

	"predu/internal/adapter/api/handler"
	"predu/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	notificationHandler := handler.GetNotificationHandler()

	notifications := e.Group("/v1/notifications")
	notifications.Use(authMiddleware.Authenticate)

	notifications.GET("", notificationHandler.List)
	notifications.POST("", notificationHandler.Add)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)
	notifications.PATCH("/:id/read", notificationHandler.MarkRead)
	notifications.DELETE("/:id", notificationHandler.Remove)
}
