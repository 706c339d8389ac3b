package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/service"
	"go.uber.org/zap"
)

// FileHandler handles HTTP requests for shared files
type FileHandler struct {
	fileService     *service.FileService
	maxUploadSizeMB int64
	logger          *zap.Logger
}

// NewFileHandler creates a new FileHandler instance
func NewFileHandler(fileService *service.FileService, maxUploadSizeMB int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService:     fileService,
		maxUploadSizeMB: maxUploadSizeMB,
		logger:          logger,
	}
}

// Upload godoc
// @Summary Upload a file
// @Description Store a file and create a share link for it
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.SharedFileDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/upload [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.maxUploadSizeMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: fmt.Sprintf("Invalid multipart form or file larger than %d MB", h.maxUploadSizeMB),
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Missing file",
		})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")

	dto, err := h.fileService.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		if errors.Is(err, service.ErrUserContextRequired) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authentication required",
			})
			return
		}
		h.logger.Error("failed to upload file", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to upload file",
		})
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// List godoc
// @Summary List shared files
// @Description Get paginated list of the current user's shared files
// @Tags Files
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.SharedFileDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files [get]
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	result, err := h.fileService.ListForCurrentUser(r.Context(), page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrUserContextRequired) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authentication required",
			})
			return
		}
		h.logger.Error("failed to list files", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list files",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get file metadata
// @Description Get a shared file record by its ID
// @Tags Files
// @Accept json
// @Produce json
// @Param id path string true "File ID" format(uuid)
// @Success 200 {object} domain.SharedFileDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id} [get]
func (h *FileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid file ID format",
		})
		return
	}

	dto, err := h.fileService.GetByID(r.Context(), id)
	if err != nil {
		h.respondFileError(w, err, "Failed to get file")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Download godoc
// @Summary Download a file
// @Description Download the content of an owned shared file
// @Tags Files
// @Produce application/octet-stream
// @Param id path string true "File ID" format(uuid)
// @Success 200 {file} binary
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid file ID format",
		})
		return
	}

	reader, file, err := h.fileService.Download(r.Context(), id)
	if err != nil {
		h.respondFileError(w, err, "Failed to download file")
		return
	}
	defer reader.Close()

	h.streamFile(w, reader, file)
}

// Delete godoc
// @Summary Delete a file
// @Description Delete an owned shared file and its stored content
// @Tags Files
// @Accept json
// @Produce json
// @Param id path string true "File ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid file ID format",
		})
		return
	}

	if err := h.fileService.Delete(r.Context(), id); err != nil {
		h.respondFileError(w, err, "Failed to delete file")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DownloadShared godoc
// @Summary Download a shared file
// @Description Download a file via its public share token. No authentication required.
// @Tags Files
// @Produce application/octet-stream
// @Param token path string true "Share token"
// @Success 200 {file} binary
// @Failure 404 {object} domain.ErrorResponse
// @Failure 410 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /shared/{token} [get]
func (h *FileHandler) DownloadShared(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	reader, file, err := h.fileService.OpenShared(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrShareNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Share not found",
			})
			return
		}
		if errors.Is(err, service.ErrShareExpired) {
			respondJSON(w, http.StatusGone, domain.ErrorResponse{
				Error:   "Gone",
				Message: "Share link has expired",
			})
			return
		}
		h.logger.Error("failed to download shared file", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to download shared file",
		})
		return
	}
	defer reader.Close()

	h.streamFile(w, reader, file)
}

func (h *FileHandler) streamFile(w http.ResponseWriter, reader io.Reader, file *domain.SharedFile) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("failed to stream file",
			zap.String("fileID", file.ID.String()),
			zap.Error(err),
		)
	}
}

func (h *FileHandler) respondFileError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUserContextRequired):
		respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Authentication required",
		})
	case errors.Is(err, service.ErrFileNotFound):
		respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
			Error:   "Not Found",
			Message: "File not found",
		})
	case errors.Is(err, service.ErrFileAccessDenied):
		respondJSON(w, http.StatusForbidden, domain.ErrorResponse{
			Error:   "Forbidden",
			Message: "You do not have access to this file",
		})
	default:
		h.logger.Error(fallback, zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: fallback,
		})
	}
}
