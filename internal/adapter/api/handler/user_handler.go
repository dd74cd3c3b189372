package handler

import (
	"github.com/labstack/echo/v4"

	"predu/internal/domain/entity"
	"predu/internal/usecase"
	"predu/pkg/errors"
	"predu/pkg/response"
)

type UserHandler struct {
	profileUseCase *usecase.ProfileUseCase
}

func NewUserHandler(profileUseCase *usecase.ProfileUseCase) *UserHandler {
	return &UserHandler{
		profileUseCase: profileUseCase,
	}
}

type chooseRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student tutor"`
}

func (h *UserHandler) GetMe(c echo.Context) error {
	uid := c.Get("uid").(string)

	profile, err := h.profileUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *UserHandler) ChooseRole(c echo.Context) error {
	var req chooseRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	profile, err := h.profileUseCase.ChooseRole(c.Request().Context(), uid, entity.Role(req.Role))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}

func (h *UserHandler) CompleteTutorVerification(c echo.Context) error {
	uid := c.Get("uid").(string)

	profile, err := h.profileUseCase.CompleteTutorVerification(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}
