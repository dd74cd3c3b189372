package handler

import (
	"github.com/labstack/echo/v4"

	"predu/internal/domain/entity"
	"predu/internal/usecase"
	"predu/pkg/errors"
	"predu/pkg/response"
)

type NotificationHandler struct {
	hub *usecase.NotificationHub
}

func NewNotificationHandler(hub *usecase.NotificationHub) *NotificationHandler {
	return &NotificationHandler{
		hub: hub,
	}
}

type notificationListResponse struct {
	Items  []entity.Notification `json:"items"`
	Unread int                   `json:"unread"`
}

func (h *NotificationHandler) service(c echo.Context) *usecase.NotificationService {
	return h.hub.For(c.Get("uid").(string))
}

func listResponse(s *usecase.NotificationService) notificationListResponse {
	return notificationListResponse{Items: s.List(), Unread: s.UnreadCount()}
}

func (h *NotificationHandler) List(c echo.Context) error {
	return response.Success(c, listResponse(h.service(c)))
}

// Add drops the notification silently when one of the same type is already
// listed; the response shows the resulting list either way.
func (h *NotificationHandler) Add(c echo.Context) error {
	var req entity.NotificationInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	s := h.service(c)
	s.Add(req)
	return response.Created(c, listResponse(s))
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	return response.Success(c, map[string]int{
		"unread": h.service(c).UnreadCount(),
	})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	s := h.service(c)
	s.MarkRead(c.Param("id"))
	return response.Success(c, listResponse(s))
}

func (h *NotificationHandler) Remove(c echo.Context) error {
	s := h.service(c)
	s.Remove(c.Param("id"))
	return response.Success(c, listResponse(s))
}
