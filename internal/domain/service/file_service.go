package service

import (
	"context"
	"io"
)

// ProgressFunc receives the bytes written so far and the expected total
// (total is 0 when unknown).
type ProgressFunc func(written, total int64)

type UploadResult struct {
	URL        string
	ObjectName string
	Size       int64
}

type FileUploadService interface {
	UploadFile(ctx context.Context, file io.Reader, fileType, folder string, size int64, progress ProgressFunc) (*UploadResult, error)
	DeleteFile(ctx context.Context, objectName string) error
	Close() error
}
