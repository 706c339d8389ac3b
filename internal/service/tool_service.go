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

// ErrToolNotFound is returned when a tool is not in the registry
var ErrToolNotFound = errors.New("tool not found")

// ErrToolExists is returned when creating a tool with a taken id
var ErrToolExists = errors.New("tool id already exists")

// ErrInvalidCategory is returned for an unknown tool category
var ErrInvalidCategory = errors.New("invalid tool category")

// ToolService handles business logic for the tool registry
type ToolService struct {
	toolRepo     *repository.ToolRepository
	bookmarkRepo *repository.BookmarkRepository
	logger       *zap.Logger
}

// NewToolService creates a new ToolService instance
func NewToolService(
	toolRepo *repository.ToolRepository,
	bookmarkRepo *repository.BookmarkRepository,
	logger *zap.Logger,
) *ToolService {
	return &ToolService{
		toolRepo:     toolRepo,
		bookmarkRepo: bookmarkRepo,
		logger:       logger,
	}
}

// EnsureSeedTools inserts the built-in catalog entries that are missing.
// Called at startup so a fresh database lists the standard tools.
func (s *ToolService) EnsureSeedTools(ctx context.Context) error {
	if err := s.toolRepo.Seed(ctx, domain.SeedTools); err != nil {
		return fmt.Errorf("failed to seed tools: %w", err)
	}
	s.logger.Info("tool catalog seeded", zap.Int("count", len(domain.SeedTools)))
	return nil
}

// List returns a page of active tools matching the category and search
// filters. Tools bookmarked by the current user are flagged.
func (s *ToolService) List(ctx context.Context, category, search string, page, pageSize int) (*domain.PaginatedResponse, error) {
	if category != "" && !domain.IsValidCategory(category) {
		return nil, ErrInvalidCategory
	}

	// Clamp page size
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	tools, total, err := s.toolRepo.List(ctx, repository.ToolListOptions{
		Category: category,
		Search:   search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	bookmarked, err := s.bookmarkedSet(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.ToolDTO, len(tools))
	for i, tool := range tools {
		dtos[i] = mapper.ToToolDTO(&tool, bookmarked[tool.ID])
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

// GetByID returns a single registry entry
func (s *ToolService) GetByID(ctx context.Context, id string) (*domain.ToolDTO, error) {
	tool, err := s.toolRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, fmt.Errorf("failed to get tool: %w", err)
	}

	bookmarked, err := s.bookmarkedSet(ctx)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToToolDTO(tool, bookmarked[tool.ID])
	return &dto, nil
}

// Create registers a new tool (admin)
func (s *ToolService) Create(ctx context.Context, req *domain.CreateToolRequest) (*domain.ToolDTO, error) {
	if !domain.IsValidCategory(req.Category) || req.Category == string(domain.CategoryAll) {
		return nil, ErrInvalidCategory
	}

	if _, err := s.toolRepo.GetByID(ctx, req.ID); err == nil {
		return nil, ErrToolExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check tool id: %w", err)
	}

	tool := &domain.Tool{
		ID:          req.ID,
		Name:        req.Name,
		Category:    domain.ToolCategory(req.Category),
		Icon:        req.Icon,
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.toolRepo.Create(ctx, tool); err != nil {
		return nil, fmt.Errorf("failed to create tool: %w", err)
	}

	s.logger.Info("tool created",
		zap.String("toolID", tool.ID),
		zap.String("category", string(tool.Category)),
	)

	dto := mapper.ToToolDTO(tool, false)
	return &dto, nil
}

// Update changes registry metadata (admin)
func (s *ToolService) Update(ctx context.Context, id string, req *domain.UpdateToolRequest) (*domain.ToolDTO, error) {
	tool, err := s.toolRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, fmt.Errorf("failed to get tool: %w", err)
	}

	if req.Name != nil {
		tool.Name = *req.Name
	}
	if req.Category != nil {
		if !domain.IsValidCategory(*req.Category) || *req.Category == string(domain.CategoryAll) {
			return nil, ErrInvalidCategory
		}
		tool.Category = domain.ToolCategory(*req.Category)
	}
	if req.Icon != nil {
		tool.Icon = *req.Icon
	}
	if req.Description != nil {
		tool.Description = *req.Description
	}
	if req.IsActive != nil {
		tool.IsActive = *req.IsActive
	}

	if err := s.toolRepo.Update(ctx, tool); err != nil {
		return nil, fmt.Errorf("failed to update tool: %w", err)
	}

	s.logger.Info("tool updated", zap.String("toolID", tool.ID))

	dto := mapper.ToToolDTO(tool, false)
	return &dto, nil
}

// Delete removes a tool from the registry (admin)
func (s *ToolService) Delete(ctx context.Context, id string) error {
	if _, err := s.toolRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrToolNotFound
		}
		return fmt.Errorf("failed to get tool: %w", err)
	}

	if err := s.toolRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tool: %w", err)
	}

	s.logger.Info("tool deleted", zap.String("toolID", id))
	return nil
}

// bookmarkedSet returns the current user's bookmarked tool ids, or an
// empty set when the request is unauthenticated.
func (s *ToolService) bookmarkedSet(ctx context.Context) (map[string]bool, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return map[string]bool{}, nil
	}

	set, err := s.bookmarkRepo.ToolIDsForUser(ctx, userCtx.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}
	return set, nil
}
