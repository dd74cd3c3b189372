package websocket

import (
	"encoding/json"
	"time"

	"predu/internal/domain/entity"
	"predu/internal/usecase"
	"predu/pkg/logger"
)

// WebSocket Message Types
const (
	MessageTypeAuth               = "auth"
	MessageTypeSignOut            = "sign_out"
	MessageTypeNavigate           = "navigate"
	MessageTypeNotificationRead   = "notification_read"
	MessageTypeNotificationRemove = "notification_remove"
	MessageTypePing               = "ping"

	MessageTypePong          = "pong"
	MessageTypeSession       = "session"
	MessageTypeRoute         = "route"
	MessageTypeNotifications = "notifications"
	MessageTypeError         = "error"
)

// WSMessage is the envelope of every frame in both directions.
type WSMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type AuthData struct {
	IDToken string `json:"id_token"`
}

type NavigateData struct {
	Path string `json:"path"`
}

type NotificationIDData struct {
	ID string `json:"id"`
}

type SessionData struct {
	User    *entity.Identity `json:"user"`
	Loading bool             `json:"loading"`
}

type RouteData struct {
	Path     string           `json:"path"`
	Decision usecase.Decision `json:"decision"`
	Role     string           `json:"role,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type NotificationsData struct {
	Items  []entity.Notification `json:"items"`
	Unread int                   `json:"unread"`
}

type ErrorData struct {
	Message string `json:"message"`
}

// HandleClientMessage processes incoming WebSocket messages
func (s *ClientSession) HandleClientMessage(messageBytes []byte) {
	var wsMessage WSMessage
	if err := json.Unmarshal(messageBytes, &wsMessage); err != nil {
		logger.Debug("WebSocket: failed to unmarshal message: %v", err)
		s.sendError("Invalid message format")
		return
	}

	switch wsMessage.Type {
	case MessageTypePing:
		s.send(MessageTypePong, map[string]string{"status": "alive"})

	case MessageTypeAuth:
		var data AuthData
		if !s.decode(wsMessage.Data, &data) {
			return
		}
		s.authenticate(data.IDToken)

	case MessageTypeSignOut:
		s.auth.Push(usecase.AuthEvent{})

	case MessageTypeNavigate:
		var data NavigateData
		if !s.decode(wsMessage.Data, &data) {
			return
		}
		s.navigate(data.Path)

	case MessageTypeNotificationRead, MessageTypeNotificationRemove:
		var data NotificationIDData
		if !s.decode(wsMessage.Data, &data) {
			return
		}
		notifications := s.currentNotifications()
		if notifications == nil {
			s.sendError("Sign in to manage notifications")
			return
		}
		if wsMessage.Type == MessageTypeNotificationRead {
			notifications.MarkRead(data.ID)
		} else {
			notifications.Remove(data.ID)
		}

	default:
		logger.Debug("WebSocket: unknown message type '%s'", wsMessage.Type)
		s.sendError("Unknown message type")
	}
}

func (s *ClientSession) decode(raw json.RawMessage, v interface{}) bool {
	if len(raw) == 0 {
		s.sendError("Missing message data")
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.sendError("Invalid message data")
		return false
	}
	return true
}

func (s *ClientSession) send(messageType string, data interface{}) {
	payload, err := json.Marshal(outgoingMessage{
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("WebSocket: failed to marshal %s message: %v", messageType, err)
		return
	}
	s.out.Enqueue(payload)
}

func (s *ClientSession) sendError(message string) {
	s.send(MessageTypeError, ErrorData{Message: message})
}
