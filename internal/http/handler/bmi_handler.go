package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/service"
	"go.uber.org/zap"
)

// BMIHandler handles HTTP requests for the BMI calculator
type BMIHandler struct {
	calculatorService *service.CalculatorService
	logger            *zap.Logger
}

// NewBMIHandler creates a new BMIHandler instance
func NewBMIHandler(calculatorService *service.CalculatorService, logger *zap.Logger) *BMIHandler {
	return &BMIHandler{
		calculatorService: calculatorService,
		logger:            logger,
	}
}

// Calculate godoc
// @Summary Calculate BMI
// @Description Compute body mass index from weight and height in any supported unit
// @Tags Tools
// @Accept json
// @Produce json
// @Param request body domain.BMIRequest true "Measurements"
// @Success 200 {object} domain.BMIResponse
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.ErrorResponse
// @Router /tools/bmi [post]
func (h *BMIHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req domain.BMIRequest
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

	result, err := h.calculatorService.CalculateBMI(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMeasurement) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
			})
			return
		}
		h.logger.Error("failed to calculate bmi", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to calculate BMI",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}
