package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"moodnest/internal/analytics"
	"moodnest/internal/clock"
	mw "moodnest/internal/middleware"
)

// InsightsHandler serves the mood analytics read endpoints. Everything here
// is computed from mood_entries through the analytics package.
type InsightsHandler struct {
	db  *sqlx.DB
	clk clock.Clock
}

func NewInsightsHandler(db *sqlx.DB, clk clock.Clock) *InsightsHandler {
	return &InsightsHandler{db: db, clk: clk}
}

type observationRow struct {
	Mood       string    `db:"mood"`
	Confidence float64   `db:"confidence"`
	CreatedAt  time.Time `db:"created_at"`
}

func loadObservations(ctx context.Context, db *sqlx.DB, userID int) ([]analytics.Observation, error) {
	var rows []observationRow
	err := db.SelectContext(ctx, &rows, `
		SELECT mood, confidence, created_at FROM mood_entries
		WHERE user_id=$1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	obs := make([]analytics.Observation, 0, len(rows))
	for _, r := range rows {
		obs = append(obs, analytics.Observation{Mood: r.Mood, Confidence: r.Confidence, CreatedAt: r.CreatedAt})
	}
	return obs, nil
}

func (h *InsightsHandler) WeeklyMood(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	obs, err := loadObservations(r.Context(), h.db, userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, analytics.WeeklyAverage(obs, h.clk.Now()))
}

func (h *InsightsHandler) EmotionFrequency(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	obs, err := loadObservations(r.Context(), h.db, userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	rng := analytics.ParseRange(r.URL.Query().Get("range"))
	writeJSON(w, analytics.EmotionFrequency(rng.Filter(obs, h.clk.Now())))
}

func (h *InsightsHandler) TimeOfDay(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	obs, err := loadObservations(r.Context(), h.db, userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	rng := analytics.ParseRange(r.URL.Query().Get("range"))
	writeJSON(w, analytics.TimeOfDay(rng.Filter(obs, h.clk.Now()), h.clk.Location()))
}

func (h *InsightsHandler) Stability(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	obs, err := loadObservations(r.Context(), h.db, userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, analytics.Stability(obs, h.clk.Now()))
}

// RecentEmotions lists the user's last five distinct moods, newest first.
func (h *InsightsHandler) RecentEmotions(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())

	var moods []string
	err := h.db.SelectContext(r.Context(), &moods, `
		SELECT mood FROM mood_entries WHERE user_id=$1
		GROUP BY mood ORDER BY MAX(created_at) DESC LIMIT 5`, userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	if moods == nil {
		moods = []string{}
	}
	writeJSON(w, map[string][]string{"emotions": moods})
}

type activitySuggestion struct {
	Icon     string `json:"icon"`
	Activity string `json:"activity"`
	Reason   string `json:"reason"`
}

var activitySuggestions = map[string][]activitySuggestion{
	"happy":   {{Icon: "🎉", Activity: "Celebrate small wins", Reason: "Boost your morale"}},
	"sad":     {{Icon: "📖", Activity: "Read uplifting quotes", Reason: "Shift perspective"}},
	"calm":    {{Icon: "🧘", Activity: "Try breathing exercises", Reason: "Stay balanced"}},
	"anxious": {{Icon: "🌿", Activity: "Go into nature", Reason: "Find peace outdoors"}},
	"bored":   {{Icon: "🎨", Activity: "Try doodling", Reason: "Engage creatively"}},
	"neutral": {{Icon: "📺", Activity: "Watch a light show", Reason: "Distract gently"}},
}

// Activity returns a canned activity suggestion keyed by the latest mood.
func (h *InsightsHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())

	var mood string
	err := h.db.GetContext(r.Context(), &mood, `
		SELECT mood FROM mood_entries WHERE user_id=$1 ORDER BY created_at DESC LIMIT 1`, userID)
	if err != nil {
		mood = "neutral"
	}
	suggestions, ok := activitySuggestions[mood]
	if !ok {
		suggestions = activitySuggestions["neutral"]
	}
	writeJSON(w, suggestions)
}

func (h *InsightsHandler) EmotionalJourney(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	obs, err := loadObservations(r.Context(), h.db, userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, analytics.EmotionalJourney(obs, h.clk.Now()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
