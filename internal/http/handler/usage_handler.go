package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/service"
	"go.uber.org/zap"
)

// UsageHandler handles HTTP requests for tool usage tracking
type UsageHandler struct {
	usageService *service.UsageService
	logger       *zap.Logger
}

// NewUsageHandler creates a new UsageHandler instance
func NewUsageHandler(usageService *service.UsageService, logger *zap.Logger) *UsageHandler {
	return &UsageHandler{
		usageService: usageService,
		logger:       logger,
	}
}

// Record godoc
// @Summary Record tool usage
// @Description Record one use of a tool. The body is optional; an empty body records a zero-duration use.
// @Tags Usage
// @Accept json
// @Produce json
// @Param id path string true "Tool ID (slug)"
// @Param request body domain.RecordUsageRequest false "Usage details"
// @Success 201 {object} domain.ToolUsageDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tools/{id}/usage [post]
func (h *UsageHandler) Record(w http.ResponseWriter, r *http.Request) {
	toolID := chi.URLParam(r, "id")

	var req domain.RecordUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
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

	usage, err := h.usageService.Record(r.Context(), toolID, req.DurationMs)
	if err != nil {
		if errors.Is(err, service.ErrToolNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Tool not found",
			})
			return
		}
		h.logger.Error("failed to record usage", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to record usage",
		})
		return
	}

	respondJSON(w, http.StatusCreated, usage)
}

// ListForTool godoc
// @Summary List usage for a tool
// @Description Get paginated usage records for one tool, newest first
// @Tags Usage
// @Accept json
// @Produce json
// @Param id path string true "Tool ID (slug)"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ToolUsageDTO}
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tools/{id}/usage [get]
func (h *UsageHandler) ListForTool(w http.ResponseWriter, r *http.Request) {
	toolID := chi.URLParam(r, "id")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	result, err := h.usageService.ListForTool(r.Context(), toolID, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrToolNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Tool not found",
			})
			return
		}
		h.logger.Error("failed to list usage", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list usage",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Stats godoc
// @Summary Get usage statistics
// @Description Aggregate usage across all tools, grouped by tool and category
// @Tags Usage
// @Accept json
// @Produce json
// @Success 200 {object} domain.UsageStatsDTO
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /usage/stats [get]
func (h *UsageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.usageService.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to get usage stats", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get usage stats",
		})
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
