package services

import (
	"errors"
	"math"
)

var ErrInvalidBodyMeasurement = errors.New("invalid body measurement")

const (
	BMICategoryUnderweight = "Underweight"
	BMICategoryNormal      = "Normal weight"
	BMICategoryOverweight  = "Overweight"
	BMICategoryObese       = "Obese"
)

var healthScoreWeights = map[string]float64{
	"bmi":       0.2,
	"activity":  0.3,
	"sleep":     0.2,
	"nutrition": 0.3,
}

// CalculateBMI takes weight in kilograms and height in centimetres and rounds
// to one decimal.
func CalculateBMI(weightKg float64, heightCm float64) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 || !isFinite(weightKg) || !isFinite(heightCm) {
		return 0, ErrInvalidBodyMeasurement
	}
	heightMeters := heightCm / 100
	bmi := weightKg / (heightMeters * heightMeters)
	if !isFinite(bmi) {
		return 0, ErrInvalidBodyMeasurement
	}
	return roundTo(bmi, 1), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return BMICategoryUnderweight
	case bmi < 25:
		return BMICategoryNormal
	case bmi < 30:
		return BMICategoryOverweight
	default:
		return BMICategoryObese
	}
}

// HealthScore is the weighted mean of the known metrics present in metrics,
// rounded to an integer. Unknown keys are ignored.
func HealthScore(metrics map[string]float64) int {
	score := 0.0
	totalWeight := 0.0
	for key, value := range metrics {
		weight, ok := healthScoreWeights[key]
		if !ok || math.IsNaN(value) {
			continue
		}
		score += value * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return int(math.Round(score / totalWeight))
}

func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := float64(len(values))
	mean := 0.0
	for _, value := range values {
		mean += value / count
	}
	return roundTo(mean, 2)
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	scaled := value * factor
	if !isFinite(scaled) {
		return value
	}
	return math.Round(scaled) / factor
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
