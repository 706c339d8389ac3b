package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/officekit/toolbox-api/internal/domain"
	"gorm.io/gorm"
)

type BookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

func (r *BookmarkRepository) Create(ctx context.Context, bookmark *domain.Bookmark) error {
	return r.db.WithContext(ctx).Create(bookmark).Error
}

func (r *BookmarkRepository) Delete(ctx context.Context, userID uuid.UUID, toolID string) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Bookmark{}, "user_id = ? AND tool_id = ?", userID, toolID).Error
}

func (r *BookmarkRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Bookmark, error) {
	var bookmarks []domain.Bookmark
	err := r.db.WithContext(ctx).
		Preload("Tool").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	return bookmarks, err
}

func (r *BookmarkRepository) Exists(ctx context.Context, userID uuid.UUID, toolID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Bookmark{}).
		Where("user_id = ? AND tool_id = ?", userID, toolID).
		Count(&count).Error
	return count > 0, err
}

// ToolIDsForUser returns the set of bookmarked tool ids, used to flag
// bookmarks on registry listings without one query per tool.
func (r *BookmarkRepository) ToolIDsForUser(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&domain.Bookmark{}).
		Where("user_id = ?", userID).
		Pluck("tool_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
