package models

import (
	"math"
	"time"
)

// RawInput carries the three user-supplied market indicators.
type RawInput struct {
	OpenPrice       float64 `json:"open_price"`
	PreviousPrice   float64 `json:"previous_price"`
	SevenDayAverage float64 `json:"seven_day_average"`
}

// Valid reports whether all three inputs are finite numbers.
func (in RawInput) Valid() bool {
	for _, v := range []float64{in.OpenPrice, in.PreviousPrice, in.SevenDayAverage} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// DerivedFeatures is the fixed 4-element feature vector fed to the model.
// The order {Open, Prev_Price, Price_Change, 7_day_avg} is part of the model
// contract and must never change.
type DerivedFeatures struct {
	OpenPrice       float64 `json:"open_price"`
	PreviousPrice   float64 `json:"previous_price"`
	PriceChange     float64 `json:"price_change"`
	SevenDayAverage float64 `json:"seven_day_average"`
}

// Vector returns the features in model input order.
func (f DerivedFeatures) Vector() [4]float64 {
	return [4]float64{f.OpenPrice, f.PreviousPrice, f.PriceChange, f.SevenDayAverage}
}

// FeatureNames is the model artifact's column contract, in input order.
var FeatureNames = [4]string{"Open", "Prev_Price", "Price_Change", "7_day_avg"}

// Trend classifies a prediction against the previous price.
type Trend string

const (
	TrendIncrease  Trend = "increase"
	TrendDecrease  Trend = "decrease"
	TrendUnchanged Trend = "unchanged"
)

// PredictionResult is what one pipeline run returns to the view layer.
type PredictionResult struct {
	RecordID       string          `json:"record_id"`
	Features       DerivedFeatures `json:"features"`
	PredictedPrice float64         `json:"predicted_price"`
	Trend          Trend           `json:"trend"`
	Magnitude      float64         `json:"magnitude"`
	ChartBase64    string          `json:"chart_base64"`
}

// PredictionRecord is the persisted outcome of one prediction request.
// Records are append-only and immutable once written; PriceChange always
// equals OpenPrice - PreviousPrice as computed at write time.
type PredictionRecord struct {
	RecordID        string    `json:"record_id"`
	AccountID       string    `json:"account_id"`
	OpenPrice       float64   `json:"open_price"`
	PreviousPrice   float64   `json:"prev_price"`
	SevenDayAverage float64   `json:"avg_7"`
	PredictedPrice  float64   `json:"predicted_price"`
	PriceChange     float64   `json:"price_change"`
	ChartBase64     string    `json:"chart_base64"`
	CreatedAt       time.Time `json:"created_at"`
}
