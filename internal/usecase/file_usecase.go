package usecase

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"predu/internal/domain/entity"
	"predu/internal/domain/repository"
	"predu/internal/domain/service"
	"predu/pkg/errors"
	"predu/pkg/logger"
)

const MaxUploadSize = 5 * 1024 * 1024

var allowedFileTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
}

var folderSanitizer = regexp.MustCompile(`[^a-z0-9/_-]+`)

type FileUseCase struct {
	fileService  service.FileUploadService
	metadataRepo repository.FileMetadataRepository
}

func NewFileUseCase(fileService service.FileUploadService, metadataRepo repository.FileMetadataRepository) *FileUseCase {
	return &FileUseCase{
		fileService:  fileService,
		metadataRepo: metadataRepo,
	}
}

type UploadInput struct {
	File     io.Reader
	Filename string
	FileType string
	Size     int64
	Folder   string
	Progress service.ProgressFunc
}

// Upload stores the file under users/{uid}/{folder} and records its
// metadata. A failed upload is reported once; the caller may retry.
func (uc *FileUseCase) Upload(ctx context.Context, userID string, input UploadInput) (*entity.FileMetadata, error) {
	if input.Size > MaxUploadSize {
		return nil, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", MaxUploadSize/(1024*1024)), nil)
	}
	if !allowedFileTypes[input.FileType] {
		return nil, errors.BadRequest("File type not supported", nil)
	}

	folder := SanitizeFolder(input.Folder)
	path := "users/" + userID + "/" + folder

	result, err := uc.fileService.UploadFile(ctx, input.File, input.FileType, path, input.Size, input.Progress)
	if err != nil {
		logger.Error("Upload failed for %s: %v", userID, err)
		return nil, errors.Internal("Failed to upload file", err)
	}

	metadata := &entity.FileMetadata{
		ID:         uuid.New().String(),
		URL:        result.URL,
		ObjectName: result.ObjectName,
		Folder:     folder,
		UploadedBy: userID,
		Filename:   input.Filename,
		FileType:   input.FileType,
		FileSize:   result.Size,
		CreatedAt:  time.Now(),
	}
	if err := uc.metadataRepo.Create(ctx, metadata); err != nil {
		logger.LogPersistenceError("files", metadata.ID, err)
	}

	return metadata, nil
}

func (uc *FileUseCase) ListMine(ctx context.Context, userID string, limit, offset int) ([]*entity.FileMetadata, int64, error) {
	files, total, err := uc.metadataRepo.GetByUploader(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, errors.Internal("Failed to list files", err)
	}
	return files, total, nil
}

func (uc *FileUseCase) Delete(ctx context.Context, userID, fileID string, isAdmin bool) error {
	metadata, err := uc.metadataRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if metadata.UploadedBy != userID && !isAdmin {
		return errors.Forbidden("You don't have permission to delete this file", nil)
	}
	if err := uc.fileService.DeleteFile(ctx, metadata.ObjectName); err != nil {
		return errors.Internal("Failed to delete file", err)
	}
	if err := uc.metadataRepo.Delete(ctx, fileID); err != nil {
		logger.LogPersistenceError("files", fileID, err)
	}
	return nil
}

func SanitizeFolder(folder string) string {
	folder = strings.ToLower(strings.TrimSpace(folder))
	folder = folderSanitizer.ReplaceAllString(folder, "-")
	folder = strings.Trim(folder, "/")
	for strings.Contains(folder, "//") {
		folder = strings.ReplaceAll(folder, "//", "/")
	}
	if folder == "" {
		return "uploads"
	}
	return folder
}
