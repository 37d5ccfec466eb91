package handlers

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"moodnest/internal/ai"
	"moodnest/internal/analytics"
	"moodnest/internal/clock"
	mw "moodnest/internal/middleware"
)

// ForecastHandler bridges mood history to the forecasting collaborator. The
// collaborator being down degrades the response, never the status code.
type ForecastHandler struct {
	db         *sqlx.DB
	forecaster *ai.Forecaster
	clk        clock.Clock
	logger     *zap.Logger
}

func NewForecastHandler(db *sqlx.DB, forecaster *ai.Forecaster, clk clock.Clock, logger *zap.Logger) *ForecastHandler {
	return &ForecastHandler{db: db, forecaster: forecaster, clk: clk, logger: logger}
}

type forecastResponse struct {
	Available  bool    `json:"available"`
	Prediction string  `json:"prediction,omitempty"`
	MoodScore  float64 `json:"mood_score,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

func (h *ForecastHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())

	obs, err := loadObservations(r.Context(), h.db, userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}

	points := analytics.DailyAverages(obs, h.clk.Location())
	history := make([]ai.HistoryPoint, 0, len(points))
	for _, p := range points {
		history = append(history, ai.HistoryPoint{Date: p.Date, Score: p.Score})
	}

	forecast, err := h.forecaster.Predict(r.Context(), history)
	if err != nil {
		h.logger.Warn("forecast unavailable", zap.Error(err))
		writeJSON(w, forecastResponse{Available: false})
		return
	}
	writeJSON(w, forecastResponse{
		Available:  true,
		Prediction: forecast.Prediction,
		MoodScore:  forecast.MoodScore,
		Confidence: forecast.Confidence,
		Reason:     forecast.Reason,
	})
}
