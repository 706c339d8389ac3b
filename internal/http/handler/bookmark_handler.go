package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/service"
	"go.uber.org/zap"
)

// BookmarkHandler handles HTTP requests for tool bookmarks
type BookmarkHandler struct {
	bookmarkService *service.BookmarkService
	logger          *zap.Logger
}

// NewBookmarkHandler creates a new BookmarkHandler instance
func NewBookmarkHandler(bookmarkService *service.BookmarkService, logger *zap.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkService: bookmarkService,
		logger:          logger,
	}
}

// Add godoc
// @Summary Bookmark a tool
// @Description Mark a tool as a favourite of the current user (idempotent)
// @Tags Bookmarks
// @Accept json
// @Produce json
// @Param id path string true "Tool ID (slug)"
// @Success 204 "No Content"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tools/{id}/bookmark [put]
func (h *BookmarkHandler) Add(w http.ResponseWriter, r *http.Request) {
	toolID := chi.URLParam(r, "id")

	if err := h.bookmarkService.Add(r.Context(), toolID); err != nil {
		if errors.Is(err, service.ErrUserContextRequired) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authentication required",
			})
			return
		}
		if errors.Is(err, service.ErrToolNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Tool not found",
			})
			return
		}
		h.logger.Error("failed to add bookmark", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to add bookmark",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Remove godoc
// @Summary Remove a bookmark
// @Description Remove the current user's bookmark for a tool (idempotent)
// @Tags Bookmarks
// @Accept json
// @Produce json
// @Param id path string true "Tool ID (slug)"
// @Success 204 "No Content"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tools/{id}/bookmark [delete]
func (h *BookmarkHandler) Remove(w http.ResponseWriter, r *http.Request) {
	toolID := chi.URLParam(r, "id")

	if err := h.bookmarkService.Remove(r.Context(), toolID); err != nil {
		if errors.Is(err, service.ErrUserContextRequired) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authentication required",
			})
			return
		}
		h.logger.Error("failed to remove bookmark", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to remove bookmark",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List godoc
// @Summary List bookmarks
// @Description Get the current user's bookmarked tools, newest first
// @Tags Bookmarks
// @Accept json
// @Produce json
// @Success 200 {array} domain.BookmarkDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /bookmarks [get]
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.bookmarkService.ListForCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrUserContextRequired) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authentication required",
			})
			return
		}
		h.logger.Error("failed to list bookmarks", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list bookmarks",
		})
		return
	}

	respondJSON(w, http.StatusOK, bookmarks)
}
