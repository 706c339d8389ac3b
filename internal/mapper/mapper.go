package mapper

import (
	"fmt"

	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/tools/bmi"
	"github.com/officekit/toolbox-api/internal/tools/cropgeom"
)

const timestampFormat = "2006-01-02T15:04:05Z"

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Roles:       user.Roles,
		CreatedAt:   user.CreatedAt.Format(timestampFormat),
	}
}

// ToToolDTO converts Tool to ToolDTO. Bookmarked state depends on the
// requesting user and is supplied by the caller.
func ToToolDTO(tool *domain.Tool, isBookmarked bool) domain.ToolDTO {
	dto := domain.ToolDTO{
		ID:           tool.ID,
		Name:         tool.Name,
		Category:     string(tool.Category),
		Icon:         tool.Icon,
		Description:  tool.Description,
		IsBookmarked: isBookmarked,
		UsageCount:   tool.UsageCount,
	}

	if tool.LastUsedAt != nil {
		dto.LastUsed = tool.LastUsedAt.Format(timestampFormat)
	}

	return dto
}

// ToBookmarkDTO converts Bookmark to BookmarkDTO
func ToBookmarkDTO(bookmark *domain.Bookmark) domain.BookmarkDTO {
	dto := domain.BookmarkDTO{
		ID:        bookmark.ID,
		ToolID:    bookmark.ToolID,
		CreatedAt: bookmark.CreatedAt.Format(timestampFormat),
	}

	if bookmark.Tool != nil {
		dto.ToolName = bookmark.Tool.Name
		dto.Category = string(bookmark.Tool.Category)
	}

	return dto
}

// ToToolUsageDTO converts ToolUsage to ToolUsageDTO
func ToToolUsageDTO(usage *domain.ToolUsage) domain.ToolUsageDTO {
	return domain.ToolUsageDTO{
		ID:         usage.ID,
		ToolID:     usage.ToolID,
		UserID:     usage.UserID,
		DurationMs: usage.DurationMs,
		UsedAt:     usage.UsedAt.Format(timestampFormat),
	}
}

// ToSharedFileDTO converts SharedFile to SharedFileDTO. The share URL is
// built from the public base URL of the deployment.
func ToSharedFileDTO(file *domain.SharedFile, baseURL string) domain.SharedFileDTO {
	dto := domain.SharedFileDTO{
		ID:            file.ID,
		Filename:      file.Filename,
		ContentType:   file.ContentType,
		Size:          file.Size,
		ShareToken:    file.ShareToken,
		ShareURL:      fmt.Sprintf("%s/api/v1/shared/%s", baseURL, file.ShareToken),
		DownloadCount: file.DownloadCount,
		CreatedAt:     file.CreatedAt.Format(timestampFormat),
	}

	if file.ExpiresAt != nil {
		dto.ExpiresAt = file.ExpiresAt.Format(timestampFormat)
	}

	return dto
}

// ToBMIResponse converts a computed result to its response form
func ToBMIResponse(result *bmi.Result) domain.BMIResponse {
	return domain.BMIResponse{
		BMI:          result.BMI,
		Category:     string(result.Category),
		Progress:     result.Progress,
		WeightKg:     result.WeightKg,
		HeightMeters: result.HeightMeters,
	}
}

// ToCropArea converts the request rectangle to its geometry form
func ToCropArea(dto domain.CropAreaDTO) cropgeom.Area {
	return cropgeom.Area{X: dto.X, Y: dto.Y, Width: dto.Width, Height: dto.Height}
}

// ToCropAreaDTO converts a geometry rectangle back to its response form
func ToCropAreaDTO(a cropgeom.Area) domain.CropAreaDTO {
	return domain.CropAreaDTO{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
}
