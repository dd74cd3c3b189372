package router

import (
	"github.com/labstack/echo/v4"

	"predu/internal/adapter/api/handler"
	"predu/internal/adapter/api/middleware"
)

// SetupChatRouter mounts the vocational-guidance assistant. Its per-user
// throttling lives in the use case.
func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	e.POST("/v1/chat/vocational", chatHandler.AskVocational, authMiddleware.Authenticate)
}
