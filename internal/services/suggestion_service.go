package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"moodnest/internal/ai"
	"moodnest/internal/analytics"
	"moodnest/internal/clock"
	"moodnest/internal/models"
)

// Placeholders served when a user has no source data yet. In that case the
// generation collaborator is never called.
const (
	NoMoodDataMessage    = "No mood data available yet. Start journaling to get insights!"
	NoJournalDataMessage = "No journal entries yet. Start writing to reflect!"
)

const recentSourceLimit = 5

// TextGenerator is the generation collaborator contract. *ai.Client
// satisfies it; tests inject fakes.
type TextGenerator interface {
	Complete(ctx context.Context, systemPrompt string, turns []ai.Message, maxTokens int) (string, error)
}

// SuggestionService memoizes AI-generated artifacts (mood summaries,
// reflective messages, daily suggestion lists) in the database. An artifact
// is served from cache only while it is newer than the latest contributing
// source record; regeneration is last-writer-wins, which is fine for
// non-critical text.
type SuggestionService struct {
	db     *sqlx.DB
	encSvc *EncryptionService
	gen    TextGenerator
	clk    clock.Clock
	logger *zap.Logger
}

func NewSuggestionService(db *sqlx.DB, encSvc *EncryptionService, gen TextGenerator, clk clock.Clock, logger *zap.Logger) *SuggestionService {
	return &SuggestionService{db: db, encSvc: encSvc, gen: gen, clk: clk, logger: logger}
}

// MoodSummary returns the cached AI mood summary, regenerating it when a
// newer mood entry exists.
func (s *SuggestionService) MoodSummary(ctx context.Context, userID int) (string, error) {
	latestMood, err := s.latestTimestamp(ctx, "mood_entries", userID)
	if err != nil {
		return "", err
	}
	if latestMood == nil {
		return NoMoodDataMessage, nil
	}

	var cached models.CachedArtifact
	err = s.db.GetContext(ctx, &cached,
		`SELECT user_id, summary AS payload, updated_at FROM ai_summaries WHERE user_id=$1`, userID)
	if err == nil && artifactFresh(cached.UpdatedAt, *latestMood) {
		return cached.Payload, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("load cached summary: %w", err)
	}

	obs, err := s.loadObservations(ctx, userID)
	if err != nil {
		return "", err
	}

	prompt := summaryPrompt(analytics.EmotionFrequency(obs), analytics.TimeOfDay(obs, s.clk.Location()))
	summary, err := s.gen.Complete(ctx,
		"You generate short, supportive mood summaries for mental health users.",
		[]ai.Message{{Role: "user", Content: prompt}}, 180)
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ai_summaries (user_id, summary, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET summary = EXCLUDED.summary, updated_at = NOW()`,
		userID, summary)
	if err != nil {
		return "", fmt.Errorf("save summary: %w", err)
	}
	return summary, nil
}

// ReflectiveMessage returns the cached supportive memory message, regenerated
// when a newer journal entry exists.
func (s *SuggestionService) ReflectiveMessage(ctx context.Context, userID int) (string, error) {
	latestJournal, err := s.latestTimestamp(ctx, "journal_entries", userID)
	if err != nil {
		return "", err
	}
	if latestJournal == nil {
		return NoJournalDataMessage, nil
	}

	var cached models.CachedArtifact
	err = s.db.GetContext(ctx, &cached,
		`SELECT user_id, message AS payload, updated_at FROM ai_memory_messages WHERE user_id=$1`, userID)
	if err == nil && artifactFresh(cached.UpdatedAt, *latestJournal) {
		return cached.Payload, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("load cached message: %w", err)
	}

	contents, err := s.recentJournalContents(ctx, userID)
	if err != nil {
		return "", err
	}

	message, err := s.gen.Complete(ctx,
		"You generate emotionally supportive memory messages from past journals.",
		[]ai.Message{{Role: "user", Content: reflectivePrompt(contents)}}, 100)
	if err != nil {
		return "", fmt.Errorf("generate reflective message: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ai_memory_messages (user_id, message, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET message = EXCLUDED.message, updated_at = NOW()`,
		userID, message)
	if err != nil {
		return "", fmt.Errorf("save reflective message: %w", err)
	}
	return message, nil
}

// DailySuggestions returns today's personalized suggestion list, generating
// it at most once per calendar day. Users without journals get an empty list
// and no collaborator call. A response the collaborator garbles parses to an
// empty list rather than an error.
func (s *SuggestionService) DailySuggestions(ctx context.Context, userID int) ([]models.Suggestion, error) {
	today := clock.Today(s.clk)

	var raw json.RawMessage
	err := s.db.GetContext(ctx, &raw,
		`SELECT suggestions FROM personalized_suggestions WHERE user_id=$1 AND for_date=$2`,
		userID, today)
	if err == nil {
		var cached []models.Suggestion
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil && len(cached) > 0 {
			return cached, nil
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load cached suggestions: %w", err)
	}

	contents, err := s.recentJournalContents(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return []models.Suggestion{}, nil
	}

	reply, err := s.gen.Complete(ctx,
		"You generate JSON-based personalized suggestions from user journals.",
		[]ai.Message{{Role: "user", Content: suggestionsPrompt(contents)}}, 300)
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}

	suggestions := parseSuggestions(reply)
	if len(suggestions) == 0 {
		s.logger.Warn("suggestion generation returned no parseable items",
			zap.Int("user_id", userID))
		return []models.Suggestion{}, nil
	}

	encoded, err := json.Marshal(suggestions)
	if err != nil {
		return nil, fmt.Errorf("encode suggestions: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO personalized_suggestions (user_id, for_date, suggestions, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, for_date) DO UPDATE SET suggestions = EXCLUDED.suggestions, updated_at = NOW()`,
		userID, today, encoded)
	if err != nil {
		return nil, fmt.Errorf("save suggestions: %w", err)
	}
	return suggestions, nil
}

// artifactFresh reports whether a cached artifact may be served: it must be
// strictly newer than the newest contributing source record.
func artifactFresh(artifactUpdated, latestSource time.Time) bool {
	return latestSource.Before(artifactUpdated)
}

func (s *SuggestionService) latestTimestamp(ctx context.Context, table string, userID int) (*time.Time, error) {
	var ts time.Time
	query := fmt.Sprintf(`SELECT created_at FROM %s WHERE user_id=$1 ORDER BY created_at DESC LIMIT 1`, table)
	err := s.db.GetContext(ctx, &ts, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load latest %s timestamp: %w", table, err)
	}
	return &ts, nil
}

func (s *SuggestionService) loadObservations(ctx context.Context, userID int) ([]analytics.Observation, error) {
	rows := []struct {
		Mood       string    `db:"mood"`
		Confidence float64   `db:"confidence"`
		CreatedAt  time.Time `db:"created_at"`
	}{}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT mood, confidence, created_at FROM mood_entries WHERE user_id=$1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("load mood entries: %w", err)
	}
	obs := make([]analytics.Observation, 0, len(rows))
	for _, r := range rows {
		obs = append(obs, analytics.Observation{Mood: r.Mood, Confidence: r.Confidence, CreatedAt: r.CreatedAt})
	}
	return obs, nil
}

func (s *SuggestionService) recentJournalContents(ctx context.Context, userID int) ([]string, error) {
	var entries []models.JournalEntry
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, conversation_id, title, content, entry_date, entry_time, created_at
		FROM journal_entries WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`,
		userID, recentSourceLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent journals: %w", err)
	}

	contents := make([]string, 0, len(entries))
	for i := range entries {
		if err := s.encSvc.DecryptJournal(&entries[i]); err != nil {
			return nil, fmt.Errorf("decrypt journal %d: %w", entries[i].ID, err)
		}
		contents = append(contents, entries[i].Content)
	}
	return contents, nil
}

func summaryPrompt(freq []analytics.EmotionCount, buckets []analytics.TimeBucket) string {
	moodStats := make([]string, 0, len(freq))
	for _, f := range freq {
		moodStats = append(moodStats, fmt.Sprintf("%s: %d", f.Emotion, f.Count))
	}
	timeStats := make([]string, 0, len(buckets))
	for _, b := range buckets {
		timeStats = append(timeStats, fmt.Sprintf("%s: %d", strings.ToLower(b.Name), b.Count))
	}

	var sb strings.Builder
	sb.WriteString("You're a mental health assistant summarizing user emotion trends.\n\n")
	sb.WriteString("Mood summary:\n")
	sb.WriteString("- Emotions: " + strings.Join(moodStats, ", ") + "\n")
	sb.WriteString("- Time pattern: " + strings.Join(timeStats, ", ") + "\n\n")
	sb.WriteString("Write a short, concise summary (max 2 sentences). Suggest 1 self-care tip.")
	return sb.String()
}

func reflectivePrompt(contents []string) string {
	var sb strings.Builder
	sb.WriteString("You're a kind and emotionally intelligent mental health assistant.\n")
	sb.WriteString("Given the user's recent journal reflections, generate one short, encouraging message.\n")
	sb.WriteString("Reference something meaningful from the entries and speak like a trusted friend, 3 lines at most.\n\n")
	sb.WriteString("Journals:\n")
	for i, c := range contents {
		sb.WriteString(fmt.Sprintf("- Entry %d: %s\n", i+1, c))
	}
	sb.WriteString("\nMessage:")
	return sb.String()
}

func suggestionsPrompt(contents []string) string {
	var sb strings.Builder
	sb.WriteString("You're a supportive mental health assistant.\n")
	sb.WriteString("Based on the following journal reflections, suggest 3 self-care or motivational activities the user can try today.\n\n")
	sb.WriteString("Each suggestion must include these exact keys:\n")
	sb.WriteString("- \"icon\" (emoji)\n- \"title\" (short activity name)\n- \"description\" (encouraging sentence)\n\n")
	sb.WriteString("Respond ONLY with a JSON array. No explanation.\n\n")
	sb.WriteString("Journals:\n")
	for i, c := range contents {
		sb.WriteString(fmt.Sprintf("Entry %d: %s\n", i+1, c))
	}
	return sb.String()
}

// parseSuggestions extracts the first balanced JSON array from the reply and
// normalizes items, tolerating "activity"/"reason" key variants. Anything
// unparseable yields an empty slice.
func parseSuggestions(reply string) []models.Suggestion {
	raw := ai.ExtractJSONArray(reply)
	if raw == "" {
		return nil
	}

	var items []struct {
		Icon        string `json:"icon"`
		Title       string `json:"title"`
		Activity    string `json:"activity"`
		Description string `json:"description"`
		Reason      string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}

	out := make([]models.Suggestion, 0, len(items))
	for _, it := range items {
		s := models.Suggestion{Icon: it.Icon, Title: it.Title, Description: it.Description}
		if s.Icon == "" {
			s.Icon = "💡"
		}
		if s.Title == "" {
			s.Title = it.Activity
		}
		if s.Title == "" {
			s.Title = "Untitled"
		}
		if s.Description == "" {
			s.Description = it.Reason
		}
		if s.Description == "" {
			s.Description = "No details provided."
		}
		out = append(out, s)
	}
	return out
}
