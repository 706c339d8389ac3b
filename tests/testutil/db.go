package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/officekit/toolbox-api/internal/database"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an isolated in-memory sqlite database with the
// full schema migrated. Each call gets its own database.
func SetupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	require.NoError(t, database.AutoMigrate(db), "Failed to migrate test database")

	return db
}

// CleanupTestData cleans up test data from all tables
// This should be called after tests to ensure a clean state
func CleanupTestData(t *testing.T, db *gorm.DB) {
	// Delete in order to respect foreign key constraints
	tables := []string{
		"tool_usage",
		"bookmarks",
		"shared_files",
		"tools",
		"users",
	}

	for _, table := range tables {
		err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE 1=1", table)).Error
		if err != nil {
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}
}

// CreateTestUser creates a test user and returns it
func CreateTestUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	user := &domain.User{
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtest",
		Roles:        []string{string(domain.RoleMember)},
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestTool creates a tool registry entry and returns it
func CreateTestTool(t *testing.T, db *gorm.DB, id string, category domain.ToolCategory) *domain.Tool {
	tool := &domain.Tool{
		ID:          id,
		Name:        "Tool " + id,
		Category:    category,
		Icon:        "wrench",
		Description: "A test tool",
		IsActive:    true,
	}
	require.NoError(t, db.Create(tool).Error)
	return tool
}

// CreateTestSharedFile creates a shared file record and returns it
func CreateTestSharedFile(t *testing.T, db *gorm.DB, ownerID uuid.UUID, token string, expiresAt *time.Time) *domain.SharedFile {
	file := &domain.SharedFile{
		OwnerID:     ownerID,
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Size:        1024,
		StoragePath: "ab/cd/abcd.pdf",
		ShareToken:  token,
		ExpiresAt:   expiresAt,
	}
	require.NoError(t, db.Create(file).Error)
	return file
}
