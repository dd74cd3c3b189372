package handler

import (
	"github.com/labstack/echo/v4"

	"predu/internal/domain/entity"
	"predu/internal/usecase"
	"predu/pkg/errors"
	"predu/pkg/response"
)

type ChatHandler struct {
	vocationalChatUseCase *usecase.VocationalChatUseCase
}

func NewChatHandler(vocationalChatUseCase *usecase.VocationalChatUseCase) *ChatHandler {
	return &ChatHandler{
		vocationalChatUseCase: vocationalChatUseCase,
	}
}

func (h *ChatHandler) AskVocational(c echo.Context) error {
	var req entity.VocationalChatInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	reply, err := h.vocationalChatUseCase.Ask(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, reply)
}
