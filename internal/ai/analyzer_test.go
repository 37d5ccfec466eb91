package ai

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzerAnalyze(t *testing.T) {
	a := NewAnalyzer("http://ml.test/")
	a.SetHTTPClient(fakeDoer{handler: func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "http://ml.test/analyze", r.URL.String())
		return jsonResponse(http.StatusOK, MoodResult{
			Mood:       "calm",
			Sentiment:  "positive",
			Confidence: 0.82,
		}), nil
	}})

	result, err := a.Analyze(context.Background(), "a quiet evening walk helped")
	require.NoError(t, err)
	assert.Equal(t, "calm", result.Mood)
	assert.Equal(t, "positive", result.Sentiment)
	assert.Equal(t, 0.82, result.Confidence)
}

func TestAnalyzerAnalyze_MissingMood(t *testing.T) {
	a := NewAnalyzer("http://ml.test")
	a.SetHTTPClient(fakeDoer{handler: func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, map[string]any{"sentiment": "neutral"}), nil
	}})

	_, err := a.Analyze(context.Background(), "text")
	assert.Error(t, err)
}

func TestAnalyzerAnalyze_Unreachable(t *testing.T) {
	a := NewAnalyzer("http://ml.test")
	a.SetHTTPClient(fakeDoer{handler: func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}})

	_, err := a.Analyze(context.Background(), "text")
	assert.Error(t, err)
}

func TestForecasterPredict(t *testing.T) {
	f := NewForecaster("http://ml.test")
	f.SetHTTPClient(fakeDoer{handler: func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "http://ml.test/forecast", r.URL.String())
		return jsonResponse(http.StatusOK, Forecast{
			Prediction: "calm",
			MoodScore:  7,
			Confidence: 0.7,
			Reason:     "stable recent trend",
		}), nil
	}})

	forecast, err := f.Predict(context.Background(), []HistoryPoint{
		{Date: "2024-01-01", Score: 6.5},
		{Date: "2024-01-02", Score: 7},
	})
	require.NoError(t, err)
	assert.Equal(t, "calm", forecast.Prediction)
	assert.Equal(t, 7.0, forecast.MoodScore)
}

func TestForecasterPredict_MalformedResponse(t *testing.T) {
	f := NewForecaster("http://ml.test")
	f.SetHTTPClient(fakeDoer{handler: func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, map[string]any{"unexpected": true}), nil
	}})

	_, err := f.Predict(context.Background(), nil)
	assert.Error(t, err)
}

func TestForecasterPredict_UpstreamFailure(t *testing.T) {
	f := NewForecaster("http://ml.test")
	f.SetHTTPClient(fakeDoer{handler: func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, map[string]string{}), nil
	}})

	_, err := f.Predict(context.Background(), nil)
	assert.Error(t, err)
}
