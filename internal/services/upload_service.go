package services

import (
	"context"
	"io"
	"strings"
	"time"

	"warung-pos/internal/storage"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
)

// 10 MB, matching the client-side attachment limit.
const maxUploadBytes = 10 << 20

type UploadService struct {
	store *storage.Client
}

func NewUploadService(store *storage.Client) *UploadService {
	return &UploadService{store: store}
}

type UploadResult struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	IsImage  bool   `json:"is_image"`
}

type PresignResult struct {
	UploadURL string            `json:"upload_url"`
	FileURL   string            `json:"file_url"`
	Headers   map[string]string `json:"headers"`
}

// Upload streams a file through the server into object storage.
func (s *UploadService) Upload(ctx context.Context, userID uuid.UUID, fileName, contentType string, size int64, body io.Reader) (UploadResult, error) {
	if s.store == nil {
		return UploadResult{}, warung_errors.ErrServiceUnavailable
	}
	if size > maxUploadBytes {
		return UploadResult{}, warung_errors.ErrTooLarge
	}
	if err := s.store.ValidateContentType(contentType); err != nil {
		return UploadResult{}, warung_errors.ErrInvalidInput
	}

	key := storage.ObjectKey(userID.String(), fileName, time.Now())
	url, err := s.store.Upload(ctx, key, contentType, io.LimitReader(body, maxUploadBytes))
	if err != nil {
		return UploadResult{}, err
	}

	return UploadResult{
		FileURL:  url,
		FileName: fileName,
		IsImage:  strings.HasPrefix(contentType, "image/"),
	}, nil
}

// Presign hands the client a short-lived PUT URL so large files skip the
// server entirely.
func (s *UploadService) Presign(ctx context.Context, userID uuid.UUID, fileName, contentType string, size int64) (PresignResult, error) {
	if s.store == nil {
		return PresignResult{}, warung_errors.ErrServiceUnavailable
	}
	if size <= 0 || size > maxUploadBytes {
		return PresignResult{}, warung_errors.ErrTooLarge
	}
	if err := s.store.ValidateContentType(contentType); err != nil {
		return PresignResult{}, warung_errors.ErrInvalidInput
	}

	key := storage.ObjectKey(userID.String(), fileName, time.Now())
	uploadURL, headers, err := s.store.PresignPut(ctx, key, contentType, size)
	if err != nil {
		return PresignResult{}, err
	}

	return PresignResult{
		UploadURL: uploadURL,
		FileURL:   s.store.FileURL(key),
		Headers:   headers,
	}, nil
}
