package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "predu/internal/infrastructure/websocket"
	"predu/pkg/errors"
	"predu/pkg/logger"
)

type WebSocketHandler struct {
	ctx       context.Context
	wsManager *ws.Manager
	deps      ws.SessionDeps
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketHandler binds sessions to ctx, which outlives any one request.
func NewWebSocketHandler(ctx context.Context, wsManager *ws.Manager, deps ws.SessionDeps) *WebSocketHandler {
	return &WebSocketHandler{
		ctx:       ctx,
		wsManager: wsManager,
		deps:      deps,
	}
}

// HandleWebSocket upgrades the connection. The ID token may come as ?token=
// or later in an auth message; without one the session starts signed out.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := ws.NewClient(uuid.New().String(), conn)
	session := ws.NewClientSession(h.ctx, h.deps, client)
	client.Session = session

	if !h.wsManager.Register(client) {
		conn.Close()
		return nil
	}
	logger.Debug("WebSocket: client %s connected from %s", client.ID, c.RealIP())

	go client.WritePump()
	session.Open(c.QueryParam("token"))
	go client.ReadPump(h.wsManager)

	return nil
}
