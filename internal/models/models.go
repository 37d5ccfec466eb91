package models

import "time"

type User struct {
	ID              int       `db:"id" json:"id"`
	Email           string    `db:"email" json:"email"`         // Encrypted in DB
	EmailBlindIndex string    `db:"email_blind_index" json:"-"` // HMAC hash for searching
	PasswordHash    string    `db:"password_hash" json:"-"`
	DisplayName     *string   `db:"display_name" json:"display_name,omitempty"`
	AvatarID        *int      `db:"avatar_id" json:"avatar_id,omitempty"`
	IsAdmin         bool      `db:"is_admin" json:"is_admin"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// MoodEntry is a single timestamped emotion observation produced by the
// mood-analysis collaborator. Immutable once created; only read and aggregated.
type MoodEntry struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user_id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	Mood           string    `db:"mood" json:"mood"`
	Sentiment      string    `db:"sentiment" json:"sentiment"`
	Confidence     float64   `db:"confidence" json:"confidence"`
	OriginalText   string    `db:"original_text" json:"original_text"` // Encrypted in DB
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type JournalEntry struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user_id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	Title          string    `db:"title" json:"title"`
	Content        string    `db:"content" json:"content"` // Encrypted in DB
	EntryDate      string    `db:"entry_date" json:"date"`
	EntryTime      string    `db:"entry_time" json:"time"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Streak is the per-user check-in state, one row per user. JournalCount and
// ReflectionCount hold today's counts, not running totals.
type Streak struct {
	UserID             int       `db:"user_id" json:"user_id"`
	CurrentStreak      int       `db:"current_streak" json:"current_streak"`
	LongestStreak      int       `db:"longest_streak" json:"longest_streak"`
	LastCheckInDate    *string   `db:"last_check_in_date" json:"last_check_in_date,omitempty"`
	CalmStreak         int       `db:"calm_streak" json:"calm_streak"`
	LastCalmStreakDate *string   `db:"last_calm_streak_date" json:"last_calm_streak_date,omitempty"`
	JournalCount       int       `db:"journal_count" json:"journal_count"`
	ReflectionCount    int       `db:"reflection_count" json:"reflection_count"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

type ChatMessage struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user_id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	Sender         string    `db:"sender" json:"sender"` // "user" or "assistant"
	Body           string    `db:"body" json:"body"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Suggestion is one personalized recommendation inside the daily artifact.
type Suggestion struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CachedArtifact is a generated text result persisted so the generation
// collaborator is not called again while no newer source data exists.
type CachedArtifact struct {
	UserID    int       `db:"user_id" json:"user_id"`
	Payload   string    `db:"payload" json:"payload"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
