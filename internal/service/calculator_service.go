package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/officekit/toolbox-api/internal/domain"
	"github.com/officekit/toolbox-api/internal/mapper"
	"github.com/officekit/toolbox-api/internal/tools/bmi"
	"go.uber.org/zap"
)

// ErrInvalidMeasurement is returned for inputs the calculator rejects
var ErrInvalidMeasurement = errors.New("invalid measurement")

// CalculatorService wraps the BMI calculator for the HTTP surface
type CalculatorService struct {
	logger *zap.Logger
}

// NewCalculatorService creates a new CalculatorService instance
func NewCalculatorService(logger *zap.Logger) *CalculatorService {
	return &CalculatorService{logger: logger}
}

// CalculateBMI normalizes the inputs and computes the result
func (s *CalculatorService) CalculateBMI(ctx context.Context, req *domain.BMIRequest) (*domain.BMIResponse, error) {
	result, err := bmi.Calculate(
		req.Weight, domain.WeightUnit(req.WeightUnit),
		req.Height, domain.HeightUnit(req.HeightUnit),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMeasurement, err)
	}

	s.logger.Debug("bmi calculated",
		zap.Float64("bmi", result.BMI),
		zap.String("category", string(result.Category)),
	)

	resp := mapper.ToBMIResponse(result)
	return &resp, nil
}
