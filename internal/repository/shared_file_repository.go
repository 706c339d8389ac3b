package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/officekit/toolbox-api/internal/domain"
	"gorm.io/gorm"
)

type SharedFileRepository struct {
	db *gorm.DB
}

func NewSharedFileRepository(db *gorm.DB) *SharedFileRepository {
	return &SharedFileRepository{db: db}
}

func (r *SharedFileRepository) Create(ctx context.Context, file *domain.SharedFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *SharedFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SharedFile, error) {
	var file domain.SharedFile
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *SharedFileRepository) GetByToken(ctx context.Context, token string) (*domain.SharedFile, error) {
	var file domain.SharedFile
	err := r.db.WithContext(ctx).First(&file, "share_token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *SharedFileRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]domain.SharedFile, int64, error) {
	var files []domain.SharedFile
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.SharedFile{}).Where("owner_id = ?", ownerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&files).Error

	return files, total, err
}

func (r *SharedFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.SharedFile{}, "id = ?", id).Error
}

func (r *SharedFileRepository) IncrementDownloadCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.SharedFile{}).
		Where("id = ?", id).
		Update("download_count", gorm.Expr("download_count + 1")).Error
}

// ListExpired returns shares whose expiry has passed, for the cleanup sweep
func (r *SharedFileRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.SharedFile, error) {
	var files []domain.SharedFile
	err := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Find(&files).Error
	return files, err
}
