package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/officekit/toolbox-api/internal/auth"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/mapper"
	"github.com/officekit/toolbox-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BookmarkService handles business logic for tool bookmarks
type BookmarkService struct {
	bookmarkRepo *repository.BookmarkRepository
	toolRepo     *repository.ToolRepository
	logger       *zap.Logger
}

// NewBookmarkService creates a new BookmarkService instance
func NewBookmarkService(
	bookmarkRepo *repository.BookmarkRepository,
	toolRepo *repository.ToolRepository,
	logger *zap.Logger,
) *BookmarkService {
	return &BookmarkService{
		bookmarkRepo: bookmarkRepo,
		toolRepo:     toolRepo,
		logger:       logger,
	}
}

// Add bookmarks a tool for the current user. Adding an existing bookmark
// is a no-op, so the operation is idempotent.
func (s *BookmarkService) Add(ctx context.Context, toolID string) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUserContextRequired
	}

	if _, err := s.toolRepo.GetByID(ctx, toolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrToolNotFound
		}
		return fmt.Errorf("failed to get tool: %w", err)
	}

	exists, err := s.bookmarkRepo.Exists(ctx, userCtx.UserID, toolID)
	if err != nil {
		return fmt.Errorf("failed to check bookmark: %w", err)
	}
	if exists {
		return nil
	}

	bookmark := &domain.Bookmark{
		UserID: userCtx.UserID,
		ToolID: toolID,
	}
	if err := s.bookmarkRepo.Create(ctx, bookmark); err != nil {
		return fmt.Errorf("failed to create bookmark: %w", err)
	}

	s.logger.Info("bookmark added",
		zap.String("userID", userCtx.UserID.String()),
		zap.String("toolID", toolID),
	)
	return nil
}

// Remove deletes the current user's bookmark for a tool. Removing a
// bookmark that doesn't exist is also a no-op.
func (s *BookmarkService) Remove(ctx context.Context, toolID string) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUserContextRequired
	}

	if err := s.bookmarkRepo.Delete(ctx, userCtx.UserID, toolID); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	s.logger.Info("bookmark removed",
		zap.String("userID", userCtx.UserID.String()),
		zap.String("toolID", toolID),
	)
	return nil
}

// ListForCurrentUser returns the current user's bookmarks, newest first
func (s *BookmarkService) ListForCurrentUser(ctx context.Context) ([]domain.BookmarkDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	bookmarks, err := s.bookmarkRepo.ListByUser(ctx, userCtx.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	dtos := make([]domain.BookmarkDTO, len(bookmarks))
	for i, bookmark := range bookmarks {
		dtos[i] = mapper.ToBookmarkDTO(&bookmark)
	}
	return dtos, nil
}
