package handler

import (
	"github.com/labstack/echo/v4"

	"predu/internal/domain/entity"
	"predu/internal/usecase"
	"predu/pkg/errors"
	"predu/pkg/response"
	"predu/pkg/utils"
)

type TutorRequestHandler struct {
	tutorRequestUseCase *usecase.TutorRequestUseCase
}

func NewTutorRequestHandler(tutorRequestUseCase *usecase.TutorRequestUseCase) *TutorRequestHandler {
	return &TutorRequestHandler{
		tutorRequestUseCase: tutorRequestUseCase,
	}
}

type submitTutorRequestRequest struct {
	GroupName string `json:"group_name" validate:"required,max=120"`
	DNI       string `json:"dni" validate:"required"`
}

func (h *TutorRequestHandler) Submit(c echo.Context) error {
	var req submitTutorRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	request, err := h.tutorRequestUseCase.Submit(c.Request().Context(), uid, usecase.SubmitTutorRequestInput{
		GroupName: req.GroupName,
		DNI:       req.DNI,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, request)
}

func (h *TutorRequestHandler) Mine(c echo.Context) error {
	uid := c.Get("uid").(string)

	request, err := h.tutorRequestUseCase.Mine(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, request)
}

// List is the admin queue, pending by default.
func (h *TutorRequestHandler) List(c echo.Context) error {
	status := entity.TutorRequestStatus(c.QueryParam("status"))
	switch status {
	case "":
		status = entity.TutorRequestPending
	case entity.TutorRequestPending, entity.TutorRequestApproved, entity.TutorRequestRejected:
	default:
		return response.Error(c, errors.BadRequest("Unknown status", nil))
	}

	params := utils.GetPaginationParams(c)
	requests, total, err := h.tutorRequestUseCase.ListByStatus(c.Request().Context(), status, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, requests, total, params.Page, params.PageSize)
}

func (h *TutorRequestHandler) Approve(c echo.Context) error {
	request, err := h.tutorRequestUseCase.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, request)
}

func (h *TutorRequestHandler) Reject(c echo.Context) error {
	request, err := h.tutorRequestUseCase.Reject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, request)
}
