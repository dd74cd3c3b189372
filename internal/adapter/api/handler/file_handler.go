package handler

import (
	"github.com/labstack/echo/v4"

	"predu/internal/domain/entity"
	"predu/internal/usecase"
	"predu/pkg/errors"
	"predu/pkg/logger"
	"predu/pkg/response"
	"predu/pkg/utils"
)

type FileHandler struct {
	fileUseCase    *usecase.FileUseCase
	profileUseCase *usecase.ProfileUseCase
}

func NewFileHandler(fileUseCase *usecase.FileUseCase, profileUseCase *usecase.ProfileUseCase) *FileHandler {
	return &FileHandler{
		fileUseCase:    fileUseCase,
		profileUseCase: profileUseCase,
	}
}

func getUserIDFromContext(c echo.Context) string {
	if uid, ok := c.Get("uid").(string); ok {
		return uid
	}
	return ""
}

// UploadFile takes a multipart form with "file" and an optional "folder".
func (h *FileHandler) UploadFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}
	logger.Debug("Received file: %s, size: %d bytes, type: %s", file.Filename, file.Size, file.Header.Get("Content-Type"))

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	userID := getUserIDFromContext(c)
	metadata, err := h.fileUseCase.Upload(c.Request().Context(), userID, usecase.UploadInput{
		File:     src,
		Filename: file.Filename,
		FileType: file.Header.Get("Content-Type"),
		Size:     file.Size,
		Folder:   c.FormValue("folder"),
		Progress: func(written, total int64) {
			logger.Debug("Upload %s: %d/%d bytes", file.Filename, written, total)
		},
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, metadata)
}

func (h *FileHandler) ListFiles(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	files, total, err := h.fileUseCase.ListMine(c.Request().Context(), getUserIDFromContext(c), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, files, total, params.Page, params.PageSize)
}

func (h *FileHandler) DeleteFile(c echo.Context) error {
	userID := getUserIDFromContext(c)

	isAdmin := false
	if profile, err := h.profileUseCase.GetProfile(c.Request().Context(), userID); err == nil {
		isAdmin = profile.Role == entity.RoleAdmin
	}

	if err := h.fileUseCase.Delete(c.Request().Context(), userID, c.Param("id"), isAdmin); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "File deleted successfully",
	})
}
