package repository

import (
	"context"
	"time"

	"github.com/officekit/toolbox-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ToolRepository struct {
	db *gorm.DB
}

func NewToolRepository(db *gorm.DB) *ToolRepository {
	return &ToolRepository{db: db}
}

// ToolListOptions filter and paginate the registry listing
type ToolListOptions struct {
	Category        string
	Search          string
	IncludeInactive bool
	Page            int
	PageSize        int
}

func (r *ToolRepository) List(ctx context.Context, opts ToolListOptions) ([]domain.Tool, int64, error) {
	var tools []domain.Tool
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Tool{})

	if !opts.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	// "all" is a pseudo-category matching every tool
	if opts.Category != "" && opts.Category != string(domain.CategoryAll) {
		query = query.Where("category = ?", opts.Category)
	}

	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (opts.Page - 1) * opts.PageSize
	err := query.Offset(offset).Limit(opts.PageSize).Order("name ASC").Find(&tools).Error

	return tools, total, err
}

func (r *ToolRepository) GetByID(ctx context.Context, id string) (*domain.Tool, error) {
	var tool domain.Tool
	err := r.db.WithContext(ctx).First(&tool, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tool, nil
}

func (r *ToolRepository) Create(ctx context.Context, tool *domain.Tool) error {
	return r.db.WithContext(ctx).Create(tool).Error
}

func (r *ToolRepository) Update(ctx context.Context, tool *domain.Tool) error {
	return r.db.WithContext(ctx).Save(tool).Error
}

func (r *ToolRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Tool{}, "id = ?", id).Error
}

// IncrementUsage bumps the denormalized usage counter and last-used time
func (r *ToolRepository) IncrementUsage(ctx context.Context, id string, usedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Tool{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"usage_count":  gorm.Expr("usage_count + 1"),
			"last_used_at": usedAt,
		}).Error
}

// Seed inserts catalog entries that don't exist yet, leaving existing
// rows (and their counters) untouched.
func (r *ToolRepository) Seed(ctx context.Context, tools []domain.Tool) error {
	if len(tools) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&tools).Error
}
