package predictor

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/interfaces"
	"github.com/bobmcallan/aurum/internal/models"
)

// Engine wraps the opaque trained model. It owns nothing about the model's
// internals: it passes the fixed 4-element vector through and rejects
// non-finite output rather than defaulting it.
type Engine struct {
	model  interfaces.Model
	logger *common.Logger
}

// NewEngine creates a prediction engine over an injected model backend.
func NewEngine(model interfaces.Model, logger *common.Logger) *Engine {
	return &Engine{
		model:  model,
		logger: logger,
	}
}

// Predict invokes the model with the derived feature vector. All failures
// surface as common.ErrModelInvocation — a prediction is never silently
// substituted.
func (e *Engine) Predict(ctx context.Context, features models.DerivedFeatures) (float64, error) {
	if e.model == nil {
		return 0, fmt.Errorf("%w: no model loaded", common.ErrModelInvocation)
	}

	predicted, err := e.model.Predict(ctx, features)
	if err != nil {
		if errors.Is(err, common.ErrModelInvocation) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %s", common.ErrModelInvocation, err)
	}

	if math.IsNaN(predicted) || math.IsInf(predicted, 0) {
		return 0, fmt.Errorf("%w: model returned non-finite value", common.ErrModelInvocation)
	}

	e.logger.Debug().
		Float64("open", features.OpenPrice).
		Float64("prev", features.PreviousPrice).
		Float64("change", features.PriceChange).
		Float64("avg7", features.SevenDayAverage).
		Float64("predicted", predicted).
		Msg("Model invoked")

	return predicted, nil
}
