package service

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/storage"
	"github.com/google/uuid"
)

const defaultMediaType = "application/octet-stream"

// MediaService stores uploaded assignment files and describes them as
// model.File metadata. File contents are never inspected.
type MediaService struct {
	store    storage.ObjectStore
	maxBytes int64
}

// NewMediaService creates a new MediaService.
func NewMediaService(store storage.ObjectStore, maxBytes int64) *MediaService {
	return &MediaService{store: store, maxBytes: maxBytes}
}

// SaveUpload stores one uploaded file under a UUID key.
func (s *MediaService) SaveUpload(ctx context.Context, header *multipart.FileHeader) (model.File, error) {
	if s.maxBytes > 0 && header.Size > s.maxBytes {
		return model.File{}, fmt.Errorf("%w: %s is %d bytes (max: %d)", ErrFileTooLarge, header.Filename, header.Size, s.maxBytes)
	}

	file, err := header.Open()
	if err != nil {
		return model.File{}, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	mediaType := mediaTypeOf(header)
	key := "assignments/" + uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))

	location, err := s.store.Put(ctx, key, file, header.Size, mediaType)
	if err != nil {
		return model.File{}, err
	}

	return model.File{
		Name:        filepath.Base(header.Filename),
		MediaType:   mediaType,
		StoragePath: location,
		Size:        header.Size,
	}, nil
}

// SaveUploads stores every file in order and stops at the first failure.
func (s *MediaService) SaveUploads(ctx context.Context, headers []*multipart.FileHeader) ([]model.File, error) {
	files := make([]model.File, 0, len(headers))
	for _, h := range headers {
		f, err := s.SaveUpload(ctx, h)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// mediaTypeOf prefers the client's Content-Type and falls back to the
// file extension.
func mediaTypeOf(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			return mt
		}
	}
	if mt := mime.TypeByExtension(filepath.Ext(header.Filename)); mt != "" {
		if parsed, _, err := mime.ParseMediaType(mt); err == nil {
			return parsed
		}
	}
	return defaultMediaType
}
