// Package predictor computes the derived feature vector and wraps the opaque
// trained model behind a substitutable interface.
package predictor

import "github.com/bobmcallan/aurum/internal/models"

// Derive computes the model's feature vector from raw inputs. Pure function:
// no I/O, no failure modes. PriceChange is open - previous with IEEE-754
// subtraction semantics; no rounding is applied at this stage.
func Derive(openPrice, previousPrice, sevenDayAverage float64) models.DerivedFeatures {
	return models.DerivedFeatures{
		OpenPrice:       openPrice,
		PreviousPrice:   previousPrice,
		PriceChange:     openPrice - previousPrice,
		SevenDayAverage: sevenDayAverage,
	}
}
