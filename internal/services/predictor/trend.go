package predictor

import (
	"math"

	"github.com/bobmcallan/aurum/internal/models"
)

// Classify compares a predicted price against the previous price.
// Strict comparisons: an exactly equal prediction is unchanged.
func Classify(predicted, previous float64) (models.Trend, float64) {
	magnitude := math.Abs(predicted - previous)
	switch {
	case predicted > previous:
		return models.TrendIncrease, magnitude
	case predicted < previous:
		return models.TrendDecrease, magnitude
	default:
		return models.TrendUnchanged, magnitude
	}
}
