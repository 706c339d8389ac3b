package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID so the same models work on Postgres and
// the sqlite test database, which has no gen_random_uuid().
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// UserRoleType represents a user role
type UserRoleType string

const (
	RoleAdmin  UserRoleType = "admin"
	RoleMember UserRoleType = "member"
	// RoleAPIService is assigned to requests authenticated with the system API key
	RoleAPIService UserRoleType = "api_service"
)

// User represents a registered user of the toolbox
type User struct {
	BaseModel
	Email        string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName  string         `gorm:"type:varchar(200);not null;column:display_name"`
	PasswordHash string         `gorm:"type:varchar(100);not null;column:password_hash"`
	Roles        pq.StringArray `gorm:"type:text[]"`
	IsActive     bool           `gorm:"not null;default:true;column:is_active"`
	Bookmarks    []Bookmark     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	SharedFiles  []SharedFile   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

// ToolCategory classifies tools for sidebar filtering
type ToolCategory string

const (
	// CategoryAll is the pseudo-category that matches every tool
	CategoryAll        ToolCategory = "all"
	CategoryCalculator ToolCategory = "calculator"
	CategoryImage      ToolCategory = "image"
	CategoryText       ToolCategory = "text"
	CategoryAudio      ToolCategory = "audio"
	CategoryFile       ToolCategory = "file"
	CategoryConversion ToolCategory = "conversion"
)

// Categories lists all real (non-pseudo) tool categories
func Categories() []ToolCategory {
	return []ToolCategory{
		CategoryCalculator,
		CategoryImage,
		CategoryText,
		CategoryAudio,
		CategoryFile,
		CategoryConversion,
	}
}

// IsValidCategory reports whether s names a known category, including "all"
func IsValidCategory(s string) bool {
	if ToolCategory(s) == CategoryAll {
		return true
	}
	for _, c := range Categories() {
		if ToolCategory(s) == c {
			return true
		}
	}
	return false
}

// Tool represents one utility in the registry. The ID is a stable slug
// (e.g. "bmi-calculator") rather than a generated key so clients can
// route on it.
type Tool struct {
	ID          string       `gorm:"type:varchar(100);primaryKey"`
	Name        string       `gorm:"type:varchar(200);not null;index"`
	Category    ToolCategory `gorm:"type:varchar(50);not null;index"`
	Icon        string       `gorm:"type:varchar(100)"`
	Description string       `gorm:"type:varchar(500)"`
	UsageCount  int64        `gorm:"not null;default:0;column:usage_count"`
	LastUsedAt  *time.Time   `gorm:"column:last_used_at"`
	IsActive    bool         `gorm:"not null;default:true;column:is_active"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// Bookmark marks a tool as a favourite of a user. (user, tool) is unique.
type Bookmark struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_user_tool;column:user_id"`
	ToolID    string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_bookmark_user_tool;column:tool_id"`
	Tool      *Tool     `gorm:"foreignKey:ToolID"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ToolUsage records one use of a tool. UserID is nil for anonymous uses
// of the public computation endpoints.
type ToolUsage struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	ToolID     string     `gorm:"type:varchar(100);not null;index;column:tool_id"`
	Tool       *Tool      `gorm:"foreignKey:ToolID"`
	UserID     *uuid.UUID `gorm:"type:uuid;index;column:user_id"`
	DurationMs int64      `gorm:"not null;default:0;column:duration_ms"`
	UsedAt     time.Time  `gorm:"not null;index;column:used_at"`
}

// TableName keeps the table name aligned with the migration schema
func (ToolUsage) TableName() string { return "tool_usage" }

func (u *ToolUsage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.UsedAt.IsZero() {
		u.UsedAt = time.Now().UTC()
	}
	return nil
}

// SharedFile is a stored file a user can share via an opaque token.
type SharedFile struct {
	BaseModel
	OwnerID       uuid.UUID  `gorm:"type:uuid;not null;index;column:owner_id"`
	Owner         *User      `gorm:"foreignKey:OwnerID"`
	Filename      string     `gorm:"type:varchar(255);not null"`
	ContentType   string     `gorm:"type:varchar(100);not null;column:content_type"`
	Size          int64      `gorm:"not null"`
	StoragePath   string     `gorm:"type:varchar(500);not null;column:storage_path"`
	ShareToken    string     `gorm:"type:varchar(64);not null;uniqueIndex;column:share_token"`
	DownloadCount int64      `gorm:"not null;default:0;column:download_count"`
	ExpiresAt     *time.Time `gorm:"index;column:expires_at"`
}

// IsExpired reports whether the share has passed its expiry, if any
func (f *SharedFile) IsExpired(now time.Time) bool {
	return f.ExpiresAt != nil && now.After(*f.ExpiresAt)
}

// WeightUnit is an accepted weight input unit
type WeightUnit string

const (
	WeightKilograms WeightUnit = "kg"
	WeightPounds    WeightUnit = "lb"
)

// HeightUnit is an accepted height input unit
type HeightUnit string

const (
	HeightCentimeters HeightUnit = "cm"
	HeightMeters      HeightUnit = "m"
	HeightFeet        HeightUnit = "ft"
	HeightInches      HeightUnit = "in"
)

// BMICategory is the classification band of a BMI value
type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal weight"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

// SeedTools is the static catalog the registry is seeded from.
// Mirrors the sidebar of the client application.
var SeedTools = []Tool{
	{ID: "bmi-calculator", Name: "BMI Calculator", Category: CategoryCalculator, Icon: "scale", Description: "Calculate body mass index from weight and height", IsActive: true},
	{ID: "unit-converter", Name: "Unit Converter", Category: CategoryConversion, Icon: "ruler", Description: "Convert between metric and imperial units", IsActive: true},
	{ID: "photo-cropper", Name: "Photo Cropper", Category: CategoryImage, Icon: "crop", Description: "Crop images to a region or aspect ratio preset", IsActive: true},
	{ID: "file-compressor", Name: "File Compressor", Category: CategoryFile, Icon: "archive", Description: "Bundle files into a compressed archive", IsActive: true},
	{ID: "text-to-speech", Name: "Text to Speech", Category: CategoryAudio, Icon: "speaker", Description: "Export speech synthesis settings as SSML", IsActive: true},
	{ID: "file-sharer", Name: "File Sharer", Category: CategoryFile, Icon: "share", Description: "Upload a file and share it with a link", IsActive: true},
}
