// Package prediction runs the session-gated pipeline that turns raw market
// inputs into a persisted, chart-backed prediction record.
package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/interfaces"
	"github.com/bobmcallan/aurum/internal/models"
	"github.com/bobmcallan/aurum/internal/services/chart"
	"github.com/bobmcallan/aurum/internal/services/predictor"
)

// Service is the single pipeline implementation shared by every caller.
// All collaborators are injected; the service holds no global state.
type Service struct {
	sessions interfaces.Sessions
	engine   interfaces.Model
	renderer interfaces.ChartRenderer
	store    interfaces.PredictionStore
	logger   *common.Logger
}

// NewService creates the pipeline service.
func NewService(sessions interfaces.Sessions, engine interfaces.Model, renderer interfaces.ChartRenderer, store interfaces.PredictionStore, logger *common.Logger) *Service {
	return &Service{
		sessions: sessions,
		engine:   engine,
		renderer: renderer,
		store:    store,
		logger:   logger,
	}
}

// Run executes the pipeline strictly in order: session gate, input
// validation, feature derivation, model invocation, chart render, record
// write. A failure at any stage stops the run; nothing is persisted unless
// every prior stage succeeded.
func (s *Service) Run(ctx context.Context, handle string, input models.RawInput) (*models.PredictionResult, error) {
	identity, ok := s.sessions.Current(handle)
	if !ok {
		return nil, common.ErrUnauthorized
	}

	if !input.Valid() {
		return nil, fmt.Errorf("%w: inputs must be finite numbers", common.ErrInvalidInput)
	}

	features := predictor.Derive(input.OpenPrice, input.PreviousPrice, input.SevenDayAverage)

	predicted, err := s.engine.Predict(ctx, features)
	if err != nil {
		return nil, err
	}

	trend, magnitude := predictor.Classify(predicted, input.PreviousPrice)

	png, err := s.renderer.Render(input.PreviousPrice, input.OpenPrice, input.SevenDayAverage, predicted)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	encoded := chart.EncodeBase64(png)

	record := &models.PredictionRecord{
		AccountID:       identity.AccountID,
		OpenPrice:       input.OpenPrice,
		PreviousPrice:   input.PreviousPrice,
		SevenDayAverage: input.SevenDayAverage,
		PredictedPrice:  predicted,
		PriceChange:     input.OpenPrice - input.PreviousPrice,
		ChartBase64:     encoded,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.SavePrediction(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("account_id", identity.AccountID).
		Str("record_id", record.RecordID).
		Float64("predicted_price", predicted).
		Str("trend", string(trend)).
		Msg("Prediction recorded")

	return &models.PredictionResult{
		RecordID:       record.RecordID,
		Features:       features,
		PredictedPrice: predicted,
		Trend:          trend,
		Magnitude:      magnitude,
		ChartBase64:    encoded,
	}, nil
}

// History returns the caller's persisted predictions, newest first, without
// chart payloads.
func (s *Service) History(ctx context.Context, handle string, limit int) ([]*models.PredictionRecord, error) {
	identity, ok := s.sessions.Current(handle)
	if !ok {
		return nil, common.ErrUnauthorized
	}
	return s.store.ListPredictions(ctx, identity.AccountID, limit)
}

// Chart returns the stored PNG for one of the caller's records.
func (s *Service) Chart(ctx context.Context, handle string, recordID string) ([]byte, error) {
	identity, ok := s.sessions.Current(handle)
	if !ok {
		return nil, common.ErrUnauthorized
	}

	record, err := s.store.GetPrediction(ctx, identity.AccountID, recordID)
	if err != nil {
		return nil, err
	}

	png, err := chart.DecodeBase64(record.ChartBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: stored chart payload is corrupt: %s", common.ErrPersistence, err)
	}
	return png, nil
}

// Compile-time check
var _ interfaces.PredictionService = (*Service)(nil)
