package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/officekit/toolbox-api/internal/auth"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/mapper"
	"github.com/officekit/toolbox-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UsageService records tool usage and serves usage statistics
type UsageService struct {
	usageRepo *repository.UsageRepository
	toolRepo  *repository.ToolRepository
	logger    *zap.Logger
}

// NewUsageService creates a new UsageService instance
func NewUsageService(
	usageRepo *repository.UsageRepository,
	toolRepo *repository.ToolRepository,
	logger *zap.Logger,
) *UsageService {
	return &UsageService{
		usageRepo: usageRepo,
		toolRepo:  toolRepo,
		logger:    logger,
	}
}

// Record stores one use of a tool and bumps the registry counters.
// Works for anonymous requests; the user is attributed when present.
func (s *UsageService) Record(ctx context.Context, toolID string, durationMs int64) (*domain.ToolUsageDTO, error) {
	if _, err := s.toolRepo.GetByID(ctx, toolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, fmt.Errorf("failed to get tool: %w", err)
	}

	var userID *uuid.UUID
	if userCtx, ok := auth.FromContext(ctx); ok {
		id := userCtx.UserID
		userID = &id
	}

	usage := &domain.ToolUsage{
		ToolID:     toolID,
		UserID:     userID,
		DurationMs: durationMs,
		UsedAt:     time.Now().UTC(),
	}

	if err := s.usageRepo.Create(ctx, usage); err != nil {
		return nil, fmt.Errorf("failed to record usage: %w", err)
	}

	if err := s.toolRepo.IncrementUsage(ctx, toolID, usage.UsedAt); err != nil {
		// The usage row is the source of truth; a failed counter bump is
		// logged but does not fail the request.
		s.logger.Warn("failed to increment tool usage counter",
			zap.String("toolID", toolID),
			zap.Error(err),
		)
	}

	s.logger.Debug("tool usage recorded",
		zap.String("toolID", toolID),
		zap.Bool("anonymous", userID == nil),
	)

	dto := mapper.ToToolUsageDTO(usage)
	return &dto, nil
}

// ListForTool returns a page of usage records for one tool
func (s *UsageService) ListForTool(ctx context.Context, toolID string, page, pageSize int) (*domain.PaginatedResponse, error) {
	if _, err := s.toolRepo.GetByID(ctx, toolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, fmt.Errorf("failed to get tool: %w", err)
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

	usages, total, err := s.usageRepo.ListByTool(ctx, toolID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage: %w", err)
	}

	dtos := make([]domain.ToolUsageDTO, len(usages))
	for i, usage := range usages {
		dtos[i] = mapper.ToToolUsageDTO(&usage)
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

// Stats aggregates usage across the whole registry
func (s *UsageService) Stats(ctx context.Context) (*domain.UsageStatsDTO, error) {
	total, err := s.usageRepo.TotalCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count usage: %w", err)
	}

	byTool, err := s.usageRepo.CountByTool(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate usage by tool: %w", err)
	}

	byCategory, err := s.usageRepo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate usage by category: %w", err)
	}

	return &domain.UsageStatsDTO{
		TotalUsage: total,
		ByTool:     byTool,
		ByCategory: byCategory,
	}, nil
}
