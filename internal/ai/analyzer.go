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

// MoodResult is what the analysis collaborator returns for one piece of text.
type MoodResult struct {
	Mood       string  `json:"mood"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// Analyzer calls the mood-analysis collaborator, one POST per chat message.
type Analyzer struct {
	baseURL string
	http    Doer
}

func NewAnalyzer(baseURL string) *Analyzer {
	return &Analyzer{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (a *Analyzer) SetHTTPClient(d Doer) {
	if d == nil {
		a.http = &http.Client{Timeout: 15 * time.Second}
		return
	}
	a.http = d
}

func (a *Analyzer) Analyze(ctx context.Context, text string) (MoodResult, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return MoodResult{}, fmt.Errorf("encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return MoodResult{}, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return MoodResult{}, fmt.Errorf("call analyze endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return MoodResult{}, fmt.Errorf("analyze endpoint: %s", resp.Status)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return MoodResult{}, fmt.Errorf("read analyze response: %w", err)
	}

	var out MoodResult
	if err := json.Unmarshal(payload, &out); err != nil {
		return MoodResult{}, fmt.Errorf("decode analyze response: %w", err)
	}
	if out.Mood == "" {
		return MoodResult{}, fmt.Errorf("analyze response missing mood")
	}
	return out, nil
}
