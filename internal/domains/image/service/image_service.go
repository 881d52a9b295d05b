package service

import (
	"context"
	"errors"
	"strings"

	"blog-backend/internal/domains/image"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared/apperror"
)

type imageService struct {
	storage storage.Storage
}

func NewImageService(store storage.Storage) image.Service {
	return &imageService{storage: store}
}

func (s *imageService) ViewURL(ctx context.Context, fileID string) (string, error) {
	if _, err := s.stat(ctx, fileID, "Image not found"); err != nil {
		return "", err
	}
	return s.presign(ctx, fileID, false, "Failed to serve image")
}

func (s *imageService) DownloadURL(ctx context.Context, fileID string) (string, error) {
	if _, err := s.stat(ctx, fileID, "File not found"); err != nil {
		return "", err
	}
	return s.presign(ctx, fileID, true, "Failed to download file")
}

func (s *imageService) URLs(ctx context.Context, fileID string) (*image.URLs, error) {
	if _, err := s.stat(ctx, fileID, "Image not found"); err != nil {
		return nil, err
	}
	view, err := s.presign(ctx, fileID, false, "Failed to get image URL")
	if err != nil {
		return nil, err
	}
	download, err := s.presign(ctx, fileID, true, "Failed to get image URL")
	if err != nil {
		return nil, err
	}
	return &image.URLs{FileID: fileID, URL: view, DownloadURL: download}, nil
}

func (s *imageService) Info(ctx context.Context, fileID string) (*image.Info, error) {
	obj, err := s.stat(ctx, fileID, "File not found")
	if err != nil {
		return nil, err
	}
	return &image.Info{
		ID:           obj.Key,
		Name:         obj.Key,
		Signature:    strings.Trim(obj.ETag, `"`),
		MimeType:     obj.ContentType,
		SizeOriginal: obj.Size,
		CreatedAt:    obj.LastModified,
		UpdatedAt:    obj.LastModified,
	}, nil
}

func (s *imageService) stat(ctx context.Context, fileID, notFound string) (*storage.ObjectInfo, error) {
	if strings.TrimSpace(fileID) == "" {
		return nil, apperror.Validation("File ID is required", nil)
	}
	obj, err := s.storage.Stat(ctx, fileID)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, apperror.NotFound(notFound)
		}
		return nil, apperror.Internal("Failed to get file information", err)
	}
	return obj, nil
}

func (s *imageService) presign(ctx context.Context, fileID string, download bool, failure string) (string, error) {
	url, err := s.storage.PresignedURL(ctx, fileID, download)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", apperror.NotFound("Image not found")
		}
		return "", apperror.Internal(failure, err)
	}
	return url, nil
}
