package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HistoryPoint is one (day, average mood score) pair, oldest first.
type HistoryPoint struct {
	Date  string  `json:"ds"`
	Score float64 `json:"y"`
}

// Forecast is the collaborator's predicted next mood. The adapter performs no
// computation of its own.
type Forecast struct {
	Prediction string  `json:"prediction"`
	MoodScore  float64 `json:"moodScore"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Forecaster calls the external forecasting collaborator.
type Forecaster struct {
	baseURL string
	http    Doer
}

func NewForecaster(baseURL string) *Forecaster {
	return &Forecaster{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *Forecaster) SetHTTPClient(d Doer) {
	if d == nil {
		f.http = &http.Client{Timeout: 30 * time.Second}
		return
	}
	f.http = d
}

func (f *Forecaster) Predict(ctx context.Context, history []HistoryPoint) (Forecast, error) {
	body, err := json.Marshal(map[string][]HistoryPoint{"history": history})
	if err != nil {
		return Forecast{}, fmt.Errorf("encode forecast request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/forecast", bytes.NewReader(body))
	if err != nil {
		return Forecast{}, fmt.Errorf("build forecast request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return Forecast{}, fmt.Errorf("call forecast endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Forecast{}, fmt.Errorf("forecast endpoint: %s", resp.Status)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Forecast{}, fmt.Errorf("read forecast response: %w", err)
	}

	var out Forecast
	if err := json.Unmarshal(payload, &out); err != nil {
		return Forecast{}, fmt.Errorf("decode forecast response: %w", err)
	}
	if out.Prediction == "" {
		return Forecast{}, fmt.Errorf("forecast response missing prediction")
	}
	return out, nil
}
