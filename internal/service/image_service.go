package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/mapper"
	"github.com/officekit/toolbox-api/internal/tools/cropgeom"
	"go.uber.org/zap"
)

// ErrInvalidCropArea is returned when the crop rectangle is unusable
var ErrInvalidCropArea = errors.New("invalid crop area")

// ErrUnsupportedImage is returned when the upload cannot be decoded
var ErrUnsupportedImage = errors.New("unsupported image format")

// CroppedImage is the result of a crop: encoded bytes plus the metadata
// the handler needs to serve a download.
type CroppedImage struct {
	Data        []byte
	Filename    string
	ContentType string
	Width       int
	Height      int
}

// ImageService implements the photo cropper
type ImageService struct {
	logger *zap.Logger
}

// NewImageService creates a new ImageService instance
func NewImageService(logger *zap.Logger) *ImageService {
	return &ImageService{logger: logger}
}

// Geometry resolves crop-area geometry without touching pixels: clamps
// the dragged rectangle, optionally refits it to an aspect preset, and
// maps it into natural image space when natural dimensions are given.
func (s *ImageService) Geometry(ctx context.Context, req *domain.CropGeometryRequest) (*domain.CropGeometryResponse, error) {
	area := mapper.ToCropArea(req.Area)

	if req.AspectWidth > 0 && req.AspectHeight > 0 {
		ratio := cropgeom.AspectRatio{Width: req.AspectWidth, Height: req.AspectHeight}
		fitted, err := cropgeom.FitAspect(area, ratio, req.ContainerWidth, req.ContainerHeight, req.Margin)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCropArea, err)
		}
		area = fitted
	} else {
		area = cropgeom.ClampOrigin(area, req.ContainerWidth, req.ContainerHeight)
	}

	resp := &domain.CropGeometryResponse{
		Display: mapper.ToCropAreaDTO(area),
	}

	if req.NaturalWidth > 0 && req.NaturalHeight > 0 {
		rect, err := cropgeom.ToNatural(area, req.ContainerWidth, req.ContainerHeight, req.NaturalWidth, req.NaturalHeight)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCropArea, err)
		}
		resp.Source = &domain.CropRectDTO{
			X:      rect.Min.X,
			Y:      rect.Min.Y,
			Width:  rect.Dx(),
			Height: rect.Dy(),
		}
	}

	return resp, nil
}

// Crop decodes an uploaded image, maps the on-screen crop rectangle into
// the image's natural pixel space, and returns the cropped region
// re-encoded in the original format. displayedWidth/Height of zero mean
// the rectangle is already in natural coordinates.
func (s *ImageService) Crop(
	ctx context.Context,
	filename string,
	data io.Reader,
	area domain.CropAreaDTO,
	displayedWidth, displayedHeight float64,
) (*CroppedImage, error) {
	img, err := imaging.Decode(data, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	bounds := img.Bounds()
	naturalWidth := bounds.Dx()
	naturalHeight := bounds.Dy()

	if displayedWidth <= 0 || displayedHeight <= 0 {
		displayedWidth = float64(naturalWidth)
		displayedHeight = float64(naturalHeight)
	}

	clamped := cropgeom.ClampOrigin(mapper.ToCropArea(area), displayedWidth, displayedHeight)
	rect, err := cropgeom.ToNatural(clamped, displayedWidth, displayedHeight, naturalWidth, naturalHeight)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCropArea, err)
	}

	cropped := imaging.Crop(img, rect)

	format, ext, contentType := outputFormat(filename)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, format); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	result := &CroppedImage{
		Data:        buf.Bytes(),
		Filename:    fmt.Sprintf("cropped-%s%s", time.Now().UTC().Format("20060102-150405"), ext),
		ContentType: contentType,
		Width:       rect.Dx(),
		Height:      rect.Dy(),
	}

	s.logger.Info("image cropped",
		zap.String("filename", filename),
		zap.Int("width", result.Width),
		zap.Int("height", result.Height),
	)

	return result, nil
}

// outputFormat picks the encoding for the cropped download based on the
// uploaded filename, defaulting to PNG.
func outputFormat(filename string) (imaging.Format, string, string) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return imaging.JPEG, ".jpg", "image/jpeg"
	case ".gif":
		return imaging.GIF, ".gif", "image/gif"
	case ".bmp":
		return imaging.BMP, ".bmp", "image/bmp"
	case ".tif", ".tiff":
		return imaging.TIFF, ".tiff", "image/tiff"
	default:
		return imaging.PNG, ".png", "image/png"
	}
}
