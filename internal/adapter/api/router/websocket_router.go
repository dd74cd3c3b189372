package router

import (
	"github.com/labstack/echo/v4"

	"predu/internal/adapter/api/handler"
)

// SetupWebSocketRouter sets up the realtime session endpoint. Auth is
// handled inside the session.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/v1/ws", wsHandler.HandleWebSocket)
}
