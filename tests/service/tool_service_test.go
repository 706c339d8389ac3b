package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/officekit/toolbox-api/internal/auth"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/repository"
	"github.com/officekit/toolbox-api/internal/service"
	"github.com/officekit/toolbox-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createToolService(db *gorm.DB) *service.ToolService {
	toolRepo := repository.NewToolRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	return service.NewToolService(toolRepo, bookmarkRepo, zap.NewNop())
}

func memberContext(userID uuid.UUID) context.Context {
	userCtx := &auth.UserContext{
		UserID:      userID,
		DisplayName: "Test User",
		Email:       "user@example.com",
		Roles:       []domain.UserRoleType{domain.RoleMember},
	}
	return auth.WithUserContext(context.Background(), userCtx)
}

func adminContext(userID uuid.UUID) context.Context {
	userCtx := &auth.UserContext{
		UserID:      userID,
		DisplayName: "Admin User",
		Email:       "admin@example.com",
		Roles:       []domain.UserRoleType{domain.RoleAdmin},
	}
	return auth.WithUserContext(context.Background(), userCtx)
}

func TestToolService_EnsureSeedTools(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createToolService(db)

	require.NoError(t, svc.EnsureSeedTools(context.Background()))

	result, err := svc.List(context.Background(), "all", "", 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(len(domain.SeedTools)), result.Total)

	// Seeding again must not duplicate entries
	require.NoError(t, svc.EnsureSeedTools(context.Background()))

	result, err = svc.List(context.Background(), "all", "", 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(len(domain.SeedTools)), result.Total)
}

func TestToolService_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createToolService(db)

	testutil.CreateTestTool(t, db, "bmi-calculator", domain.CategoryCalculator)
	testutil.CreateTestTool(t, db, "photo-cropper", domain.CategoryImage)
	testutil.CreateTestTool(t, db, "file-compressor", domain.CategoryFile)

	t.Run("all category returns every active tool", func(t *testing.T) {
		result, err := svc.List(context.Background(), "all", "", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Total)
	})

	t.Run("empty category behaves like all", func(t *testing.T) {
		result, err := svc.List(context.Background(), "", "", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Total)
	})

	t.Run("filters by category", func(t *testing.T) {
		result, err := svc.List(context.Background(), "image", "", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)

		tools := result.Data.([]domain.ToolDTO)
		require.Len(t, tools, 1)
		assert.Equal(t, "photo-cropper", tools[0].ID)
	})

	t.Run("search matches name", func(t *testing.T) {
		result, err := svc.List(context.Background(), "all", "cropper", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		_, err := svc.List(context.Background(), "gardening", "", 1, 20)
		assert.ErrorIs(t, err, service.ErrInvalidCategory)
	})

	t.Run("inactive tools are hidden", func(t *testing.T) {
		require.NoError(t, db.Model(&domain.Tool{}).
			Where("id = ?", "file-compressor").
			Update("is_active", false).Error)

		result, err := svc.List(context.Background(), "all", "", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Total)
	})

	t.Run("pagination clamps an oversized page size", func(t *testing.T) {
		result, err := svc.List(context.Background(), "all", "", 1, 5000)
		require.NoError(t, err)
		assert.Equal(t, 200, result.PageSize)
	})
}

func TestToolService_List_BookmarkFlag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createToolService(db)

	user := testutil.CreateTestUser(t, db, "flags@example.com")
	testutil.CreateTestTool(t, db, "bmi-calculator", domain.CategoryCalculator)
	testutil.CreateTestTool(t, db, "photo-cropper", domain.CategoryImage)

	require.NoError(t, db.Create(&domain.Bookmark{
		UserID: user.ID,
		ToolID: "bmi-calculator",
	}).Error)

	t.Run("anonymous listing has no bookmark flags", func(t *testing.T) {
		result, err := svc.List(context.Background(), "all", "", 1, 20)
		require.NoError(t, err)

		for _, tool := range result.Data.([]domain.ToolDTO) {
			assert.False(t, tool.IsBookmarked)
		}
	})

	t.Run("signed-in listing flags bookmarked tools", func(t *testing.T) {
		result, err := svc.List(memberContext(user.ID), "all", "", 1, 20)
		require.NoError(t, err)

		flags := map[string]bool{}
		for _, tool := range result.Data.([]domain.ToolDTO) {
			flags[tool.ID] = tool.IsBookmarked
		}
		assert.True(t, flags["bmi-calculator"])
		assert.False(t, flags["photo-cropper"])
	})
}

func TestToolService_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createToolService(db)

	testutil.CreateTestTool(t, db, "bmi-calculator", domain.CategoryCalculator)

	dto, err := svc.GetByID(context.Background(), "bmi-calculator")
	require.NoError(t, err)
	assert.Equal(t, "bmi-calculator", dto.ID)
	assert.Equal(t, "calculator", dto.Category)

	_, err = svc.GetByID(context.Background(), "no-such-tool")
	assert.ErrorIs(t, err, service.ErrToolNotFound)
}

func TestToolService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createToolService(db)

	t.Run("creates a registry entry", func(t *testing.T) {
		dto, err := svc.Create(context.Background(), &domain.CreateToolRequest{
			ID:          "word-counter",
			Name:        "Word Counter",
			Category:    "text",
			Icon:        "hash",
			Description: "Counts words and characters",
		})

		require.NoError(t, err)
		assert.Equal(t, "word-counter", dto.ID)
		assert.Equal(t, int64(0), dto.UsageCount)
	})

	t.Run("rejects a duplicate id", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &domain.CreateToolRequest{
			ID:       "word-counter",
			Name:     "Word Counter Again",
			Category: "text",
		})
		assert.ErrorIs(t, err, service.ErrToolExists)
	})

	t.Run("rejects the all pseudo-category", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &domain.CreateToolRequest{
			ID:       "everything",
			Name:     "Everything",
			Category: "all",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCategory)
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &domain.CreateToolRequest{
			ID:       "mystery",
			Name:     "Mystery",
			Category: "mystery",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCategory)
	})
}

func TestToolService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createToolService(db)

	testutil.CreateTestTool(t, db, "bmi-calculator", domain.CategoryCalculator)

	t.Run("patches only the given fields", func(t *testing.T) {
		newName := "Body Mass Index"
		dto, err := svc.Update(context.Background(), "bmi-calculator", &domain.UpdateToolRequest{
			Name: &newName,
		})

		require.NoError(t, err)
		assert.Equal(t, "Body Mass Index", dto.Name)
		assert.Equal(t, "calculator", dto.Category)
	})

	t.Run("can deactivate a tool", func(t *testing.T) {
		inactive := false
		_, err := svc.Update(context.Background(), "bmi-calculator", &domain.UpdateToolRequest{
			IsActive: &inactive,
		})
		require.NoError(t, err)

		result, err := svc.List(context.Background(), "all", "", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Total)
	})

	t.Run("unknown tool", func(t *testing.T) {
		name := "x"
		_, err := svc.Update(context.Background(), "no-such-tool", &domain.UpdateToolRequest{Name: &name})
		assert.ErrorIs(t, err, service.ErrToolNotFound)
	})

	t.Run("rejects an invalid category", func(t *testing.T) {
		bad := "all"
		_, err := svc.Update(context.Background(), "bmi-calculator", &domain.UpdateToolRequest{Category: &bad})
		assert.ErrorIs(t, err, service.ErrInvalidCategory)
	})
}

func TestToolService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createToolService(db)

	testutil.CreateTestTool(t, db, "bmi-calculator", domain.CategoryCalculator)

	require.NoError(t, svc.Delete(context.Background(), "bmi-calculator"))

	_, err := svc.GetByID(context.Background(), "bmi-calculator")
	assert.ErrorIs(t, err, service.ErrToolNotFound)

	err = svc.Delete(context.Background(), "bmi-calculator")
	assert.ErrorIs(t, err, service.ErrToolNotFound)
}
