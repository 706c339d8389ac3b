package service_test

import (
	"context"
	"testing"

	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/repository"
	"github.com/officekit/toolbox-api/internal/service"
	"github.com/officekit/toolbox-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createBookmarkService(db *gorm.DB) *service.BookmarkService {
	bookmarkRepo := repository.NewBookmarkRepository(db)
	toolRepo := repository.NewToolRepository(db)
	return service.NewBookmarkService(bookmarkRepo, toolRepo, zap.NewNop())
}

func TestBookmarkService_Add(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createBookmarkService(db)

	user := testutil.CreateTestUser(t, db, "bookmarks@example.com")
	testutil.CreateTestTool(t, db, "bmi-calculator", domain.CategoryCalculator)

	ctx := memberContext(user.ID)

	t.Run("adds a bookmark", func(t *testing.T) {
		require.NoError(t, svc.Add(ctx, "bmi-calculator"))

		list, err := svc.ListForCurrentUser(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "bmi-calculator", list[0].ToolID)
	})

	t.Run("adding twice is a no-op", func(t *testing.T) {
		require.NoError(t, svc.Add(ctx, "bmi-calculator"))

		list, err := svc.ListForCurrentUser(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("unknown tool", func(t *testing.T) {
		err := svc.Add(ctx, "no-such-tool")
		assert.ErrorIs(t, err, service.ErrToolNotFound)
	})

	t.Run("requires a user", func(t *testing.T) {
		err := svc.Add(context.Background(), "bmi-calculator")
		assert.ErrorIs(t, err, service.ErrUserContextRequired)
	})
}

func TestBookmarkService_Remove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createBookmarkService(db)

	user := testutil.CreateTestUser(t, db, "remove@example.com")
	testutil.CreateTestTool(t, db, "photo-cropper", domain.CategoryImage)

	ctx := memberContext(user.ID)
	require.NoError(t, svc.Add(ctx, "photo-cropper"))

	t.Run("removes the bookmark", func(t *testing.T) {
		require.NoError(t, svc.Remove(ctx, "photo-cropper"))

		list, err := svc.ListForCurrentUser(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("removing a missing bookmark is a no-op", func(t *testing.T) {
		assert.NoError(t, svc.Remove(ctx, "photo-cropper"))
	})

	t.Run("requires a user", func(t *testing.T) {
		err := svc.Remove(context.Background(), "photo-cropper")
		assert.ErrorIs(t, err, service.ErrUserContextRequired)
	})
}

func TestBookmarkService_ListForCurrentUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createBookmarkService(db)

	alice := testutil.CreateTestUser(t, db, "alice@example.com")
	bob := testutil.CreateTestUser(t, db, "bob@example.com")
	testutil.CreateTestTool(t, db, "bmi-calculator", domain.CategoryCalculator)
	testutil.CreateTestTool(t, db, "photo-cropper", domain.CategoryImage)

	require.NoError(t, svc.Add(memberContext(alice.ID), "bmi-calculator"))
	require.NoError(t, svc.Add(memberContext(alice.ID), "photo-cropper"))
	require.NoError(t, svc.Add(memberContext(bob.ID), "photo-cropper"))

	t.Run("lists only the current user's bookmarks", func(t *testing.T) {
		list, err := svc.ListForCurrentUser(memberContext(alice.ID))
		require.NoError(t, err)
		assert.Len(t, list, 2)

		list, err = svc.ListForCurrentUser(memberContext(bob.ID))
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "photo-cropper", list[0].ToolID)
		assert.Equal(t, "Tool photo-cropper", list[0].ToolName)
	})

	t.Run("requires a user", func(t *testing.T) {
		_, err := svc.ListForCurrentUser(context.Background())
		assert.ErrorIs(t, err, service.ErrUserContextRequired)
	})
}
