package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/officekit/toolbox-api/internal/auth"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/mapper"
	"github.com/officekit/toolbox-api/internal/repository"
	"github.com/officekit/toolbox-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrFileNotFound is returned when a shared file is not found
var ErrFileNotFound = errors.New("file not found")

// ErrFileAccessDenied is returned when a user touches a file they don't own
var ErrFileAccessDenied = errors.New("file does not belong to current user")

// ErrShareNotFound is returned for an unknown share token
var ErrShareNotFound = errors.New("share not found")

// ErrShareExpired is returned when a share link has passed its expiry
var ErrShareExpired = errors.New("share link has expired")

// FileService handles uploads, share links, and downloads of shared files
type FileService struct {
	fileRepo      *repository.SharedFileRepository
	store         storage.Storage
	baseURL       string
	defaultExpiry time.Duration
	logger        *zap.Logger
}

// NewFileService creates a new FileService instance. defaultExpiry of
// zero means uploads never expire.
func NewFileService(
	fileRepo *repository.SharedFileRepository,
	store storage.Storage,
	baseURL string,
	defaultExpiry time.Duration,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		fileRepo:      fileRepo,
		store:         store,
		baseURL:       baseURL,
		defaultExpiry: defaultExpiry,
		logger:        logger,
	}
}

// Upload stores the file and creates a share record for it
func (s *FileService) Upload(ctx context.Context, filename, contentType string, data io.Reader) (*domain.SharedFileDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	storagePath, size, err := s.store.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	token, err := newShareToken()
	if err != nil {
		// Don't leave an orphaned blob behind
		_ = s.store.Delete(ctx, storagePath)
		return nil, err
	}

	file := &domain.SharedFile{
		OwnerID:     userCtx.UserID,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
		ShareToken:  token,
	}

	if s.defaultExpiry > 0 {
		expiresAt := time.Now().UTC().Add(s.defaultExpiry)
		file.ExpiresAt = &expiresAt
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		_ = s.store.Delete(ctx, storagePath)
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("fileID", file.ID.String()),
		zap.String("ownerID", userCtx.UserID.String()),
		zap.String("filename", filename),
		zap.Int64("size", size),
	)

	dto := mapper.ToSharedFileDTO(file, s.baseURL)
	return &dto, nil
}

// ListForCurrentUser returns a page of the current user's shared files
func (s *FileService) ListForCurrentUser(ctx context.Context, page, pageSize int) (*domain.PaginatedResponse, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	files, total, err := s.fileRepo.ListByOwner(ctx, userCtx.UserID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	dtos := make([]domain.SharedFileDTO, len(files))
	for i, file := range files {
		dtos[i] = mapper.ToSharedFileDTO(&file, s.baseURL)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetByID returns a file record, verifying ownership
func (s *FileService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SharedFileDTO, error) {
	file, err := s.ownedFile(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToSharedFileDTO(file, s.baseURL)
	return &dto, nil
}

// Download opens the file content for its owner
func (s *FileService) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, *domain.SharedFile, error) {
	file, err := s.ownedFile(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.store.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return reader, file, nil
}

// Delete removes the file record and its stored content
func (s *FileService) Delete(ctx context.Context, id uuid.UUID) error {
	file, err := s.ownedFile(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, file.StoragePath); err != nil {
		return fmt.Errorf("failed to delete stored file: %w", err)
	}

	if err := s.fileRepo.Delete(ctx, file.ID); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	s.logger.Info("file deleted",
		zap.String("fileID", file.ID.String()),
		zap.String("filename", file.Filename),
	)
	return nil
}

// OpenShared resolves a share token for an anonymous download. Counts
// the download and rejects expired links.
func (s *FileService) OpenShared(ctx context.Context, token string) (io.ReadCloser, *domain.SharedFile, error) {
	file, err := s.fileRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrShareNotFound
		}
		return nil, nil, fmt.Errorf("failed to resolve share token: %w", err)
	}

	if file.IsExpired(time.Now().UTC()) {
		return nil, nil, ErrShareExpired
	}

	reader, err := s.store.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	if err := s.fileRepo.IncrementDownloadCount(ctx, file.ID); err != nil {
		s.logger.Warn("failed to increment download count",
			zap.String("fileID", file.ID.String()),
			zap.Error(err),
		)
	}

	return reader, file, nil
}

// CleanupExpired removes expired shares and their stored content.
// Returns the number of shares removed.
func (s *FileService) CleanupExpired(ctx context.Context) (int, error) {
	expired, err := s.fileRepo.ListExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to list expired shares: %w", err)
	}

	removed := 0
	for _, file := range expired {
		if err := s.store.Delete(ctx, file.StoragePath); err != nil {
			s.logger.Warn("failed to delete expired file content",
				zap.String("fileID", file.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if err := s.fileRepo.Delete(ctx, file.ID); err != nil {
			s.logger.Warn("failed to delete expired file record",
				zap.String("fileID", file.ID.String()),
				zap.Error(err),
			)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("expired shares cleaned up", zap.Int("removed", removed))
	}
	return removed, nil
}

func (s *FileService) ownedFile(ctx context.Context, id uuid.UUID) (*domain.SharedFile, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	if file.OwnerID != userCtx.UserID && !userCtx.IsAdmin() {
		return nil, ErrFileAccessDenied
	}

	return file, nil
}

// newShareToken generates an opaque 32-hex-char share token
func newShareToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
