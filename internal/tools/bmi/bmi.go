// Package bmi implements the body-mass-index calculator: unit
// normalization, the BMI formula, category classification, and the
// progress-bar mapping shown next to the result.
package bmi

import (
	"fmt"

	"github.com/officekit/toolbox-api/internal/domain"
)

// Conversion factors to SI units
const (
	PoundsToKilograms    = 0.453592
	FeetToMeters         = 0.3048
	InchesToMeters       = 0.0254
	CentimetersToMeters  = 0.01
)

// Category thresholds (kg/m²)
const (
	ThresholdUnderweight = 18.5
	ThresholdOverweight  = 25.0
	ThresholdObese       = 30.0
)

// Progress-bar band edges. BMI values are mapped piecewise-linearly
// across the four category bands onto [0,100], 25 points per band.
const (
	progressFloor   = 10.0
	progressCeiling = 40.0
)

// Result is a computed BMI with its derived presentation values.
type Result struct {
	BMI          float64
	Category     domain.BMICategory
	Progress     float64
	WeightKg     float64
	HeightMeters float64
}

// NormalizeWeight converts a weight to kilograms.
func NormalizeWeight(value float64, unit domain.WeightUnit) (float64, error) {
	switch unit {
	case domain.WeightKilograms:
		return value, nil
	case domain.WeightPounds:
		return value * PoundsToKilograms, nil
	default:
		return 0, fmt.Errorf("unknown weight unit: %q", unit)
	}
}

// NormalizeHeight converts a height to meters.
func NormalizeHeight(value float64, unit domain.HeightUnit) (float64, error) {
	switch unit {
	case domain.HeightMeters:
		return value, nil
	case domain.HeightCentimeters:
		return value * CentimetersToMeters, nil
	case domain.HeightFeet:
		return value * FeetToMeters, nil
	case domain.HeightInches:
		return value * InchesToMeters, nil
	default:
		return 0, fmt.Errorf("unknown height unit: %q", unit)
	}
}

// Calculate normalizes the inputs and computes bmi = kg / m².
// Non-positive inputs are rejected.
func Calculate(weight float64, weightUnit domain.WeightUnit, height float64, heightUnit domain.HeightUnit) (*Result, error) {
	if weight <= 0 {
		return nil, fmt.Errorf("weight must be positive, got %v", weight)
	}
	if height <= 0 {
		return nil, fmt.Errorf("height must be positive, got %v", height)
	}

	kg, err := NormalizeWeight(weight, weightUnit)
	if err != nil {
		return nil, err
	}
	m, err := NormalizeHeight(height, heightUnit)
	if err != nil {
		return nil, err
	}

	value := kg / (m * m)
	return &Result{
		BMI:          value,
		Category:     Classify(value),
		Progress:     Progress(value),
		WeightKg:     kg,
		HeightMeters: m,
	}, nil
}

// Classify maps a BMI value to its category. Boundaries are inclusive on
// the lower edge: 18.5 is Normal, 25.0 is Overweight, 30.0 is Obese.
func Classify(value float64) domain.BMICategory {
	switch {
	case value < ThresholdUnderweight:
		return domain.BMIUnderweight
	case value < ThresholdOverweight:
		return domain.BMINormal
	case value < ThresholdObese:
		return domain.BMIOverweight
	default:
		return domain.BMIObese
	}
}

// Progress maps a BMI value into [0,100] for the category progress bar.
// Each of the four bands covers 25 points; values below 10 or above 40
// are clamped to the ends of the scale.
func Progress(value float64) float64 {
	edges := []float64{progressFloor, ThresholdUnderweight, ThresholdOverweight, ThresholdObese, progressCeiling}

	if value <= edges[0] {
		return 0
	}
	if value >= edges[len(edges)-1] {
		return 100
	}
	for i := 0; i < len(edges)-1; i++ {
		lo, hi := edges[i], edges[i+1]
		if value < hi {
			return float64(i)*25 + (value-lo)/(hi-lo)*25
		}
	}
	return 100
}
