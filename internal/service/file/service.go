package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/authsphere/authsphere-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

type FileService interface {
	// UploadReplyImage stores an image attached to a task reply and returns
	// its public URL.
	UploadReplyImage(ctx context.Context, userID string, file io.Reader, filename string) (string, error)

	// UploadReplyPDF stores a PDF attached to a task reply and returns its
	// public URL.
	UploadReplyPDF(ctx context.Context, userID string, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, path string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func validExt(filename string, allowed ...string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return ext, true
		}
	}
	return ext, false
}

// UploadReplyImage uploads a task reply image attachment.
func (s *fileServiceImpl) UploadReplyImage(ctx context.Context, userID string, file io.Reader, filename string) (string, error) {
	ext, ok := validExt(filename, ".jpg", ".jpeg", ".png")
	if !ok {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png allowed")
	}

	path := filepath.Join("replies", userID, fmt.Sprintf("%s%s", uuid.NewString(), ext))

	uploadedPath, err := s.storage.Upload(ctx, file, path)
	if err != nil {
		return "", fmt.Errorf("failed to upload reply image: %w", err)
	}

	return s.storage.PublicURL(uploadedPath), nil
}

// UploadReplyPDF uploads a task reply PDF attachment.
func (s *fileServiceImpl) UploadReplyPDF(ctx context.Context, userID string, file io.Reader, filename string) (string, error) {
	ext, ok := validExt(filename, ".pdf")
	if !ok {
		return "", fmt.Errorf("invalid file type: only pdf allowed")
	}

	path := filepath.Join("replies", userID, fmt.Sprintf("%s%s", uuid.NewString(), ext))

	uploadedPath, err := s.storage.Upload(ctx, file, path)
	if err != nil {
		return "", fmt.Errorf("failed to upload reply pdf: %w", err)
	}

	return s.storage.PublicURL(uploadedPath), nil
}

// DeleteFile removes an uploaded attachment.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}
