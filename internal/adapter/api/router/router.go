package router

import (
	"github.com/labstack/echo/v4"

	"predu/internal/adapter/api/handler"
	"predu/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
	limiter middleware.Limiter,
	wsHandler *handler.WebSocketHandler,
) {
	SetupHealthRouter(e)
	SetupAuthRouter(e, limiter)
	SetupSessionRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware)
	SetupTutorRequestRouter(e, authMiddleware)
	SetupAdminRouter(e, authMiddleware, adminMiddleware)
	SetupInstitutionRouter(e, authMiddleware)
	SetupFileRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupWebSocketRouter(e, wsHandler)
}
