package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/service"
	"go.uber.org/zap"
)

// SpeechHandler handles HTTP requests for the text-to-speech exporter
type SpeechHandler struct {
	speechService *service.SpeechService
	logger        *zap.Logger
}

// NewSpeechHandler creates a new SpeechHandler instance
func NewSpeechHandler(speechService *service.SpeechService, logger *zap.Logger) *SpeechHandler {
	return &SpeechHandler{
		speechService: speechService,
		logger:        logger,
	}
}

// ExportSSML godoc
// @Summary Export speech settings as SSML
// @Description Render text and synthesis parameters (rate, pitch, volume, voice) as a downloadable SSML document
// @Tags Tools
// @Accept json
// @Produce application/ssml+xml
// @Param request body domain.SpeechRequest true "Speech parameters"
// @Success 200 {file} binary
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.ErrorResponse
// @Router /tools/speech/ssml [post]
func (h *SpeechHandler) ExportSSML(w http.ResponseWriter, r *http.Request) {
	var req domain.SpeechRequest
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

	export, err := h.speechService.ExportSSML(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSpeechParams) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
			})
			return
		}
		h.logger.Error("failed to export ssml", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to export SSML",
		})
		return
	}

	sendDownload(w, export.Filename, export.ContentType, export.Data)
}
