package handler

import (
	"github.com/labstack/echo/v4"

	"predu/internal/adapter/api/middleware"
	"predu/internal/domain/entity"
	"predu/internal/usecase"
	"predu/pkg/response"
)

// SessionHandler exposes the route guard to stateless clients. Both
// endpoints run behind the optional auth middleware.
type SessionHandler struct {
	routingUseCase *usecase.RoutingUseCase
}

func NewSessionHandler(routingUseCase *usecase.RoutingUseCase) *SessionHandler {
	return &SessionHandler{
		routingUseCase: routingUseCase,
	}
}

type sessionResponse struct {
	User        *entity.Identity `json:"user"`
	Role        string           `json:"role,omitempty"`
	Destination string           `json:"destination,omitempty"`
}

type routeResponse struct {
	Path     string           `json:"path"`
	Decision usecase.Decision `json:"decision"`
	Role     string           `json:"role,omitempty"`
}

func (h *SessionHandler) GetSession(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	body := sessionResponse{User: identity}
	if identity == nil || identity.Anonymous {
		return response.Success(c, body)
	}

	eval, err := h.routingUseCase.EvaluateIdentity(c.Request().Context(), identity, usecase.RouteDashboard)
	if err != nil {
		return response.ErrorWithDetails(c, err, eval.Decision)
	}
	body.Role = eval.Role.Name()
	body.Destination = usecase.Destination(eval.Role)
	return response.Success(c, body)
}

// Route answers GET /v1/route?path=/some/page with the guard decision.
func (h *SessionHandler) Route(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		path = usecase.RouteHome
	}

	eval, err := h.routingUseCase.EvaluateIdentity(c.Request().Context(), middleware.IdentityFrom(c), path)
	if err != nil {
		return response.ErrorWithDetails(c, err, eval.Decision)
	}

	body := routeResponse{Path: path, Decision: eval.Decision}
	if eval.Role != nil {
		body.Role = eval.Role.Name()
	}
	return response.Success(c, body)
}
