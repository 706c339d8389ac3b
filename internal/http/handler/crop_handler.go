package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/service"
	"go.uber.org/zap"
)

const maxImageUploadBytes = 32 << 20 // 32 MB

// CropHandler handles HTTP requests for the photo cropper
type CropHandler struct {
	imageService *service.ImageService
	logger       *zap.Logger
}

// NewCropHandler creates a new CropHandler instance
func NewCropHandler(imageService *service.ImageService, logger *zap.Logger) *CropHandler {
	return &CropHandler{
		imageService: imageService,
		logger:       logger,
	}
}

// Geometry godoc
// @Summary Resolve crop geometry
// @Description Clamp a dragged crop rectangle to its container, optionally refit it to an aspect ratio, and map it to natural image pixels
// @Tags Tools
// @Accept json
// @Produce json
// @Param request body domain.CropGeometryRequest true "Crop geometry"
// @Success 200 {object} domain.CropGeometryResponse
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.ErrorResponse
// @Router /tools/crop/geometry [post]
func (h *CropHandler) Geometry(w http.ResponseWriter, r *http.Request) {
	var req domain.CropGeometryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.imageService.Geometry(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCropArea) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
			})
			return
		}
		h.logger.Error("failed to resolve crop geometry", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to resolve crop geometry",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Crop godoc
// @Summary Crop an image
// @Description Crop an uploaded image to the given rectangle and download the result. Coordinates are on-screen pixels when displayedWidth/displayedHeight are given, natural pixels otherwise.
// @Tags Tools
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param image formData file true "Image to crop"
// @Param x formData number true "Crop origin X"
// @Param y formData number true "Crop origin Y"
// @Param width formData number true "Crop width"
// @Param height formData number true "Crop height"
// @Param displayedWidth formData number false "On-screen image width"
// @Param displayedHeight formData number false "On-screen image height"
// @Success 200 {file} binary
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /tools/crop [post]
func (h *CropHandler) Crop(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid multipart form or file too large",
		})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Missing image file",
		})
		return
	}
	defer file.Close()

	area, ok := parseCropArea(w, r)
	if !ok {
		return
	}

	displayedWidth := parseFloatField(r, "displayedWidth")
	displayedHeight := parseFloatField(r, "displayedHeight")

	result, err := h.imageService.Crop(r.Context(), header.Filename, file, area, displayedWidth, displayedHeight)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedImage) || errors.Is(err, service.ErrInvalidCropArea) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
			})
			return
		}
		h.logger.Error("failed to crop image", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to crop image",
		})
		return
	}

	sendDownload(w, result.Filename, result.ContentType, result.Data)
}

func parseCropArea(w http.ResponseWriter, r *http.Request) (domain.CropAreaDTO, bool) {
	var area domain.CropAreaDTO
	var err error

	if area.X, err = strconv.ParseFloat(r.FormValue("x"), 64); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid crop origin x")
		return area, false
	}
	if area.Y, err = strconv.ParseFloat(r.FormValue("y"), 64); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid crop origin y")
		return area, false
	}
	if area.Width, err = strconv.ParseFloat(r.FormValue("width"), 64); err != nil || area.Width <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid crop width")
		return area, false
	}
	if area.Height, err = strconv.ParseFloat(r.FormValue("height"), 64); err != nil || area.Height <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid crop height")
		return area, false
	}

	return area, true
}

func parseFloatField(r *http.Request, name string) float64 {
	v, err := strconv.ParseFloat(r.FormValue(name), 64)
	if err != nil {
		return 0
	}
	return v
}
