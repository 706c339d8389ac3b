package repository

import (
	"context"
	"time"

	"github.com/officekit/toolbox-api/internal/domain"
	"gorm.io/gorm"
)

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) Create(ctx context.Context, usage *domain.ToolUsage) error {
	return r.db.WithContext(ctx).Create(usage).Error
}

func (r *UsageRepository) ListByTool(ctx context.Context, toolID string, page, pageSize int) ([]domain.ToolUsage, int64, error) {
	var usages []domain.ToolUsage
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.ToolUsage{}).Where("tool_id = ?", toolID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("used_at DESC").Find(&usages).Error

	return usages, total, err
}

func (r *UsageRepository) TotalCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ToolUsage{}).Count(&count).Error
	return count, err
}

// toolUsageRow is the scan target for the per-tool aggregate
type toolUsageRow struct {
	ToolID     string
	Name       string
	Category   string
	UsageCount int64
	LastUsed   *time.Time
}

// CountByTool aggregates usage per tool, joined with registry metadata
func (r *UsageRepository) CountByTool(ctx context.Context) ([]domain.ToolUsageStatDTO, error) {
	var rows []toolUsageRow
	err := r.db.WithContext(ctx).
		Model(&domain.ToolUsage{}).
		Select("tool_usage.tool_id, tools.name, tools.category, tools.last_used_at as last_used, COUNT(*) as usage_count").
		Joins("JOIN tools ON tools.id = tool_usage.tool_id").
		Group("tool_usage.tool_id, tools.name, tools.category, tools.last_used_at").
		Order("usage_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]domain.ToolUsageStatDTO, 0, len(rows))
	for _, row := range rows {
		stat := domain.ToolUsageStatDTO{
			ToolID:     row.ToolID,
			ToolName:   row.Name,
			Category:   row.Category,
			UsageCount: row.UsageCount,
		}
		if row.LastUsed != nil {
			stat.LastUsed = row.LastUsed.Format("2006-01-02T15:04:05Z")
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// categoryUsageRow is the scan target for the per-category aggregate
type categoryUsageRow struct {
	Category   string
	UsageCount int64
}

// CountByCategory aggregates usage per tool category
func (r *UsageRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []categoryUsageRow
	err := r.db.WithContext(ctx).
		Model(&domain.ToolUsage{}).
		Select("tools.category, COUNT(*) as usage_count").
		Joins("JOIN tools ON tools.id = tool_usage.tool_id").
		Group("tools.category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.UsageCount
	}
	return counts, nil
}
