package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"time"

	"portfolio_backend/internal/imageprocessor"
	"portfolio_backend/internal/logger"
	"portfolio_backend/internal/services/dto"
	"portfolio_backend/internal/storage"
	"portfolio_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// Папки, куда можно загружать изображения
var uploadFolders = map[string]bool{
	"projects": true,
	"services": true,
	"misc":     true,
}

type UploadService interface {
	UploadImage(ctx context.Context, file *multipart.FileHeader, folder string) (*dto.UploadResponse, error)
}

type UploadConfig struct {
	MaxFileSize  int64
	AllowedTypes []string
}

type uploadService struct {
	storage   storage.Storage
	processor *imageprocessor.Processor
	config    UploadConfig
	allowed   map[string]bool
}

func NewUploadService(store storage.Storage, processor *imageprocessor.Processor, config UploadConfig) UploadService {
	allowed := make(map[string]bool, len(config.AllowedTypes))
	for _, t := range config.AllowedTypes {
		allowed[t] = true
	}
	return &uploadService{
		storage:   store,
		processor: processor,
		config:    config,
		allowed:   allowed,
	}
}

// UploadImage проверяет файл, уменьшает и сохраняет в хранилище
func (s *uploadService) UploadImage(ctx context.Context, file *multipart.FileHeader, folder string) (*dto.UploadResponse, error) {
	if folder == "" {
		folder = "misc"
	}
	if !uploadFolders[folder] {
		return nil, apperrors.ValidationError(map[string]string{"folder": "Folder must be one of: projects, services, misc"})
	}
	if file == nil {
		return nil, apperrors.ValidationError(map[string]string{"file": "File is required"})
	}
	if s.config.MaxFileSize > 0 && file.Size > s.config.MaxFileSize {
		return nil, apperrors.ValidationError(map[string]string{
			"file": fmt.Sprintf("File must be at most %d bytes", s.config.MaxFileSize),
		})
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// заголовку клиента не доверяем, смотрим на содержимое
	detected := http.DetectContentType(data)
	if !s.allowed[detected] {
		return nil, apperrors.ValidationError(map[string]string{"file": "Unsupported file type: " + detected})
	}

	processed, err := s.processor.Process(data)
	if err != nil {
		return nil, apperrors.ValidationError(map[string]string{"file": "File is not a valid image"})
	}

	key := path.Join(folder, time.Now().UTC().Format("2006/01"), uuid.NewString()+processed.Ext)
	if err := s.storage.Save(ctx, key, bytes.NewReader(processed.Data), processed.ContentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Image uploaded", "path", key, "size", len(processed.Data))

	return &dto.UploadResponse{
		URL:         s.storage.GetURL(key),
		Path:        key,
		Size:        int64(len(processed.Data)),
		ContentType: processed.ContentType,
		Width:       processed.Width,
		Height:      processed.Height,
	}, nil
}
