package handler

import (
	"errors"
	"net/http"

	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/service"
	"go.uber.org/zap"
)

const maxArchiveUploadBytes = 128 << 20 // 128 MB across all files

// ArchiveHandler handles HTTP requests for the file compressor
type ArchiveHandler struct {
	archiveService *service.ArchiveService
	logger         *zap.Logger
}

// NewArchiveHandler creates a new ArchiveHandler instance
func NewArchiveHandler(archiveService *service.ArchiveService, logger *zap.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		archiveService: archiveService,
		logger:         logger,
	}
}

// Compress godoc
// @Summary Compress files
// @Description Bundle the uploaded files into a zip archive and download it
// @Tags Tools
// @Accept multipart/form-data
// @Produce application/zip
// @Param files formData file true "Files to compress (repeatable)"
// @Success 200 {file} binary
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /tools/compress [post]
func (h *ArchiveHandler) Compress(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxArchiveUploadBytes)
	if err := r.ParseMultipartForm(maxArchiveUploadBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid multipart form or files too large",
		})
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "No files to compress",
		})
		return
	}

	headers := r.MultipartForm.File["files"]
	entries := make([]service.ArchiveEntry, 0, len(headers))
	opened := make([]interface{ Close() error }, 0, len(headers))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Failed to read uploaded file",
			})
			return
		}
		opened = append(opened, file)
		entries = append(entries, service.ArchiveEntry{
			Name: header.Filename,
			Data: file,
		})
	}

	archive, err := h.archiveService.Compress(r.Context(), entries)
	if err != nil {
		if errors.Is(err, service.ErrNoFiles) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "No files to compress",
			})
			return
		}
		h.logger.Error("failed to compress files", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to compress files",
		})
		return
	}

	sendDownload(w, archive.Filename, archive.ContentType, archive.Data)
}
