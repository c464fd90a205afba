package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/models"
)

// --- Prediction handlers ---

// handlePredict handles POST /api/predict: one full pipeline run for the
// session bound to the bearer token.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	handle := SessionHandle(r.Context())
	if handle == "" {
		WriteDomainError(w, common.ErrUnauthorized)
		return
	}

	// Pointer fields distinguish an absent value from a literal zero.
	var req struct {
		OpenPrice       *float64 `json:"open_price"`
		PreviousPrice   *float64 `json:"previous_price"`
		SevenDayAverage *float64 `json:"seven_day_average"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.OpenPrice == nil || req.PreviousPrice == nil || req.SevenDayAverage == nil {
		WriteError(w, http.StatusBadRequest, "open_price, previous_price and seven_day_average are required")
		return
	}

	input := models.RawInput{
		OpenPrice:       *req.OpenPrice,
		PreviousPrice:   *req.PreviousPrice,
		SevenDayAverage: *req.SevenDayAverage,
	}

	result, err := s.app.Predictions.Run(r.Context(), handle, input)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"record_id":       result.RecordID,
		"predicted_price": result.PredictedPrice,
		"price_change":    result.Features.PriceChange,
		"trend":           result.Trend,
		"magnitude":       result.Magnitude,
		"chart_base64":    result.ChartBase64,
	})
}

// handlePredictionList handles GET /api/predictions?limit=N.
func (s *Server) handlePredictionList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v < 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = v
	}

	records, err := s.app.Predictions.History(r.Context(), SessionHandle(r.Context()), limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if records == nil {
		records = []*models.PredictionRecord{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"predictions": records,
		"count":       len(records),
	})
}

// routePredictions dispatches /api/predictions/{id}/chart.
func (s *Server) routePredictions(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/predictions/")
	if path == "" {
		s.handlePredictionList(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 2 && parts[1] == "chart" {
		s.handlePredictionChart(w, r, parts[0])
		return
	}

	WriteError(w, http.StatusNotFound, "Not found")
}

// handlePredictionChart handles GET /api/predictions/{id}/chart, serving the
// stored comparison chart as PNG. Owner only.
func (s *Server) handlePredictionChart(w http.ResponseWriter, r *http.Request, recordID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	png, err := s.app.Predictions.Chart(r.Context(), SessionHandle(r.Context()), recordID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
