package handler

import (
	"github.com/labstack/echo/v4"

	"predu/internal/usecase"
	"predu/pkg/response"
)

type InstitutionHandler struct {
	institutionUseCase *usecase.InstitutionUseCase
}

func NewInstitutionHandler(institutionUseCase *usecase.InstitutionUseCase) *InstitutionHandler {
	return &InstitutionHandler{
		institutionUseCase: institutionUseCase,
	}
}

func (h *InstitutionHandler) Get(c echo.Context) error {
	ref, err := h.institutionUseCase.Resolve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, ref)
}
