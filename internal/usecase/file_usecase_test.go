package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predu/internal/domain/entity"
	"predu/internal/domain/service"
	"predu/pkg/errors"
)

type fakeUploader struct {
	uploads   []string
	deleted   []string
	uploadErr error
}

func (f *fakeUploader) UploadFile(ctx context.Context, file io.Reader, fileType, folder string, size int64, progress service.ProgressFunc) (*service.UploadResult, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		progress(int64(len(data)), size)
	}
	object := folder + "/obj"
	f.uploads = append(f.uploads, object)
	return &service.UploadResult{URL: "https://storage.test/" + object, ObjectName: object, Size: int64(len(data))}, nil
}

func (f *fakeUploader) DeleteFile(ctx context.Context, objectName string) error {
	f.deleted = append(f.deleted, objectName)
	return nil
}

func (f *fakeUploader) Close() error { return nil }

type fakeFileMetadataRepo struct {
	files     map[string]*entity.FileMetadata
	createErr error
}

func newFakeFileMetadataRepo() *fakeFileMetadataRepo {
	return &fakeFileMetadataRepo{files: make(map[string]*entity.FileMetadata)}
}

func (r *fakeFileMetadataRepo) Create(ctx context.Context, metadata *entity.FileMetadata) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.files[metadata.ID] = metadata
	return nil
}

func (r *fakeFileMetadataRepo) GetByID(ctx context.Context, id string) (*entity.FileMetadata, error) {
	if m, ok := r.files[id]; ok {
		return m, nil
	}
	return nil, errors.NotFound("File", nil)
}

func (r *fakeFileMetadataRepo) GetByUploader(ctx context.Context, userID string, limit, offset int) ([]*entity.FileMetadata, int64, error) {
	var out []*entity.FileMetadata
	for _, m := range r.files {
		if m.UploadedBy == userID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeFileMetadataRepo) Delete(ctx context.Context, id string) error {
	delete(r.files, id)
	return nil
}

func TestUploadStoresUnderUserFolder(t *testing.T) {
	uploader := &fakeUploader{}
	repo := newFakeFileMetadataRepo()
	uc := NewFileUseCase(uploader, repo)

	var reported int64
	meta, err := uc.Upload(context.Background(), "u1", UploadInput{
		File:     strings.NewReader("%PDF-1.4"),
		Filename: "dni.pdf",
		FileType: "application/pdf",
		Size:     8,
		Folder:   "Tutor Docs",
		Progress: func(written, total int64) { reported = written },
	})

	require.NoError(t, err)
	assert.Equal(t, "users/u1/tutor-docs/obj", meta.ObjectName)
	assert.Equal(t, int64(8), meta.FileSize)
	assert.Equal(t, int64(8), reported)
	assert.Contains(t, repo.files, meta.ID)
}

func TestUploadValidation(t *testing.T) {
	uc := NewFileUseCase(&fakeUploader{}, newFakeFileMetadataRepo())

	_, err := uc.Upload(context.Background(), "u1", UploadInput{File: strings.NewReader(""), FileType: "image/png", Size: MaxUploadSize + 1})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = uc.Upload(context.Background(), "u1", UploadInput{File: strings.NewReader(""), FileType: "text/html", Size: 10})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestUploadFailureAndMetadataFailure(t *testing.T) {
	uc := NewFileUseCase(&fakeUploader{uploadErr: fmt.Errorf("quota")}, newFakeFileMetadataRepo())
	_, err := uc.Upload(context.Background(), "u1", UploadInput{File: strings.NewReader("x"), FileType: "image/png", Size: 1})
	assert.True(t, errors.Is(err, errors.CodeInternal))

	repo := newFakeFileMetadataRepo()
	repo.createErr = fmt.Errorf("unavailable")
	uc = NewFileUseCase(&fakeUploader{}, repo)
	meta, err := uc.Upload(context.Background(), "u1", UploadInput{File: strings.NewReader("x"), FileType: "image/png", Size: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, meta.URL)
}

func TestDeleteFilePermissions(t *testing.T) {
	uploader := &fakeUploader{}
	repo := newFakeFileMetadataRepo()
	repo.files["f1"] = &entity.FileMetadata{ID: "f1", ObjectName: "users/u1/uploads/a", UploadedBy: "u1"}
	repo.files["f2"] = &entity.FileMetadata{ID: "f2", ObjectName: "users/u1/uploads/b", UploadedBy: "u1"}
	uc := NewFileUseCase(uploader, repo)

	err := uc.Delete(context.Background(), "u2", "f1", false)
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	require.NoError(t, uc.Delete(context.Background(), "u1", "f1", false))
	require.NoError(t, uc.Delete(context.Background(), "admin", "f2", true))
	assert.Equal(t, []string{"users/u1/uploads/a", "users/u1/uploads/b"}, uploader.deleted)
	assert.Empty(t, repo.files)
}

func TestListMine(t *testing.T) {
	repo := newFakeFileMetadataRepo()
	repo.files["f1"] = &entity.FileMetadata{ID: "f1", UploadedBy: "u1"}
	repo.files["f2"] = &entity.FileMetadata{ID: "f2", UploadedBy: "u2"}

	files, total, err := NewFileUseCase(&fakeUploader{}, repo).ListMine(context.Background(), "u1", 10, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "f1", files[0].ID)
}

func TestSanitizeFolder(t *testing.T) {
	assert.Equal(t, "uploads", SanitizeFolder(""))
	assert.Equal(t, "uploads", SanitizeFolder("///"))
	assert.Equal(t, "a/b", SanitizeFolder("A//B/"))
	assert.Equal(t, "-/etc", SanitizeFolder("../etc"))
}
