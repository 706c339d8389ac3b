package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/service"
	"go.uber.org/zap"
)

// ToolHandler handles HTTP requests for the tool registry
type ToolHandler struct {
	toolService *service.ToolService
	logger      *zap.Logger
}

// NewToolHandler creates a new ToolHandler instance
func NewToolHandler(toolService *service.ToolService, logger *zap.Logger) *ToolHandler {
	return &ToolHandler{
		toolService: toolService,
		logger:      logger,
	}
}

// List godoc
// @Summary List tools
// @Description Get paginated list of active tools, filtered by category and search text
// @Tags Tools
// @Accept json
// @Produce json
// @Param category query string false "Tool category ('all' matches every tool)" Enums(all, calculator, image, text, audio, file, conversion)
// @Param search query string false "Match against tool name and description"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ToolDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tools [get]
func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")

	result, err := h.toolService.List(r.Context(), category, search, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid tool category",
			})
			return
		}
		h.logger.Error("failed to list tools", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list tools",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get tool by ID
// @Description Get a single registry entry by its slug
// @Tags Tools
// @Accept json
// @Produce json
// @Param id path string true "Tool ID (slug)"
// @Success 200 {object} domain.ToolDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tools/{id} [get]
func (h *ToolHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tool, err := h.toolService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrToolNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Tool not found",
			})
			return
		}
		h.logger.Error("failed to get tool", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get tool",
		})
		return
	}

	respondJSON(w, http.StatusOK, tool)
}

// Create godoc
// @Summary Register a tool
// @Description Add a new tool to the registry (admin only)
// @Tags Tools
// @Accept json
// @Produce json
// @Param request body domain.CreateToolRequest true "Tool details"
// @Success 201 {object} domain.ToolDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tools [post]
func (h *ToolHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateToolRequest
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

	tool, err := h.toolService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid tool category",
			})
			return
		}
		if errors.Is(err, service.ErrToolExists) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "Tool id already exists",
			})
			return
		}
		h.logger.Error("failed to create tool", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create tool",
		})
		return
	}

	respondJSON(w, http.StatusCreated, tool)
}

// Update godoc
// @Summary Update a tool
// @Description Change registry metadata for a tool (admin only)
// @Tags Tools
// @Accept json
// @Produce json
// @Param id path string true "Tool ID (slug)"
// @Param request body domain.UpdateToolRequest true "Fields to update"
// @Success 200 {object} domain.ToolDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tools/{id} [put]
func (h *ToolHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.UpdateToolRequest
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

	tool, err := h.toolService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrToolNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Tool not found",
			})
			return
		}
		if errors.Is(err, service.ErrInvalidCategory) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid tool category",
			})
			return
		}
		h.logger.Error("failed to update tool", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update tool",
		})
		return
	}

	respondJSON(w, http.StatusOK, tool)
}

// Delete godoc
// @Summary Delete a tool
// @Description Remove a tool from the registry (admin only)
// @Tags Tools
// @Accept json
// @Produce json
// @Param id path string true "Tool ID (slug)"
// @Success 204 "No Content"
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tools/{id} [delete]
func (h *ToolHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.toolService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrToolNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Tool not found",
			})
			return
		}
		h.logger.Error("failed to delete tool", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete tool",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Categories godoc
// @Summary List tool categories
// @Description Get the selectable tool categories, including the "all" pseudo-category
// @Tags Tools
// @Accept json
// @Produce json
// @Success 200 {array} string
// @Router /categories [get]
func (h *ToolHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := []string{string(domain.CategoryAll)}
	for _, c := range domain.Categories() {
		categories = append(categories, string(c))
	}
	respondJSON(w, http.StatusOK, categories)
}
