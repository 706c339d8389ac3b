package domain

import (
	"github.com/google/uuid"
)

// ErrorResponse is the simple error envelope used by handlers
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

// RegisterRequest creates a new user account
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	DisplayName string `json:"displayName" validate:"required,min=1,max=200"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest exchanges credentials for a token
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries an issued bearer token
type TokenResponse struct {
	AccessToken string  `json:"accessToken"`
	TokenType   string  `json:"tokenType"`
	ExpiresIn   int64   `json:"expiresIn"`
	User        UserDTO `json:"user"`
}

// UserDTO is the outward representation of a user
type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Roles       []string  `json:"roles"`
	CreatedAt   string    `json:"createdAt"`
}

// ---------------------------------------------------------------------------
// Tool registry
// ---------------------------------------------------------------------------

// ToolDTO is the outward representation of a registry entry
type ToolDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Icon         string `json:"icon,omitempty"`
	Description  string `json:"description,omitempty"`
	IsBookmarked bool   `json:"isBookmarked"`
	UsageCount   int64  `json:"usageCount"`
	LastUsed     string `json:"lastUsed,omitempty"`
}

// CreateToolRequest registers a new tool (admin)
type CreateToolRequest struct {
	ID          string `json:"id" validate:"required,min=2,max=100"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Category    string `json:"category" validate:"required"`
	Icon        string `json:"icon" validate:"max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateToolRequest updates registry metadata (admin)
type UpdateToolRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Category    *string `json:"category"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
}

// RecordUsageRequest records one use of a tool
type RecordUsageRequest struct {
	DurationMs int64 `json:"durationMs" validate:"gte=0"`
}

// ToolUsageDTO is one usage record
type ToolUsageDTO struct {
	ID         uuid.UUID  `json:"id"`
	ToolID     string     `json:"toolId"`
	UserID     *uuid.UUID `json:"userId,omitempty"`
	DurationMs int64      `json:"durationMs"`
	UsedAt     string     `json:"usedAt"`
}

// ToolUsageStatDTO is a per-tool usage aggregate
type ToolUsageStatDTO struct {
	ToolID     string `json:"toolId"`
	ToolName   string `json:"toolName"`
	Category   string `json:"category"`
	UsageCount int64  `json:"usageCount"`
	LastUsed   string `json:"lastUsed,omitempty"`
}

// UsageStatsDTO aggregates usage across the registry
type UsageStatsDTO struct {
	TotalUsage int64              `json:"totalUsage"`
	ByTool     []ToolUsageStatDTO `json:"byTool"`
	ByCategory map[string]int64   `json:"byCategory"`
}

// BookmarkDTO is the outward representation of a bookmark
type BookmarkDTO struct {
	ID        uuid.UUID `json:"id"`
	ToolID    string    `json:"toolId"`
	ToolName  string    `json:"toolName"`
	Category  string    `json:"category"`
	CreatedAt string    `json:"createdAt"`
}

// ---------------------------------------------------------------------------
// BMI calculator
// ---------------------------------------------------------------------------

// BMIRequest carries weight/height with their units
type BMIRequest struct {
	Weight     float64 `json:"weight" validate:"required,gt=0"`
	WeightUnit string  `json:"weightUnit" validate:"required,oneof=kg lb"`
	Height     float64 `json:"height" validate:"required,gt=0"`
	HeightUnit string  `json:"heightUnit" validate:"required,oneof=cm m ft in"`
}

// BMIResponse is the computed result
type BMIResponse struct {
	BMI          float64 `json:"bmi"`
	Category     string  `json:"category"`
	Progress     float64 `json:"progress"`
	WeightKg     float64 `json:"weightKg"`
	HeightMeters float64 `json:"heightMeters"`
}

// ---------------------------------------------------------------------------
// Photo cropper
// ---------------------------------------------------------------------------

// CropAreaDTO is a rectangle in on-screen pixel coordinates
type CropAreaDTO struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

// CropGeometryRequest exercises the pure geometry: clamp a dragged origin,
// optionally refit the rectangle to an aspect preset, and rescale to the
// natural image size.
type CropGeometryRequest struct {
	Area            CropAreaDTO `json:"area" validate:"required"`
	ContainerWidth  float64     `json:"containerWidth" validate:"required,gt=0"`
	ContainerHeight float64     `json:"containerHeight" validate:"required,gt=0"`
	AspectWidth     int         `json:"aspectWidth" validate:"gte=0"`
	AspectHeight    int         `json:"aspectHeight" validate:"gte=0"`
	Margin          float64     `json:"margin" validate:"gte=0"`
	NaturalWidth    int         `json:"naturalWidth" validate:"gte=0"`
	NaturalHeight   int         `json:"naturalHeight" validate:"gte=0"`
}

// CropGeometryResponse returns the clamped display rectangle and, when
// natural dimensions were given, the equivalent source-space rectangle.
type CropGeometryResponse struct {
	Display CropAreaDTO  `json:"display"`
	Source  *CropRectDTO `json:"source,omitempty"`
}

// CropRectDTO is an integer rectangle in natural image pixels
type CropRectDTO struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ---------------------------------------------------------------------------
// Text to speech
// ---------------------------------------------------------------------------

// SpeechRequest carries the synthesis parameters to export.
// Ranges follow the Web Speech API: rate [0.1,2], pitch [0,2], volume [0,1].
type SpeechRequest struct {
	Text   string  `json:"text" validate:"required,min=1,max=10000"`
	Voice  string  `json:"voice" validate:"max=100"`
	Rate   float64 `json:"rate" validate:"gte=0.1,lte=2"`
	Pitch  float64 `json:"pitch" validate:"gte=0,lte=2"`
	Volume float64 `json:"volume" validate:"gte=0,lte=1"`
}

// ---------------------------------------------------------------------------
// Shared files
// ---------------------------------------------------------------------------

// SharedFileDTO is the outward representation of a shared file
type SharedFileDTO struct {
	ID            uuid.UUID `json:"id"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"contentType"`
	Size          int64     `json:"size"`
	ShareToken    string    `json:"shareToken"`
	ShareURL      string    `json:"shareUrl"`
	DownloadCount int64     `json:"downloadCount"`
	ExpiresAt     string    `json:"expiresAt,omitempty"`
	CreatedAt     string    `json:"createdAt"`
}
