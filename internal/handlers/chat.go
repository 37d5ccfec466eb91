package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"moodnest/internal/ai"
	mw "moodnest/internal/middleware"
	"moodnest/internal/models"
	"moodnest/internal/services"
)

const (
	chatContextTurns  = 15
	chatRetainedTurns = 50
	fallbackReply     = "I'm here to listen whenever you'd like to share."
	chatSystemPrompt  = "You are a compassionate mental-health assistant. Keep replies short (1-2 calm sentences) and use at most one emoji total."
	noPreferenceData  = "No preference data stored yet."
)

// memoryContext renders the stored preferences into the block of text the
// assistant is reminded of on every turn.
func memoryContext(prefs map[string][]string) string {
	if len(prefs["likes"])+len(prefs["dislikes"])+len(prefs["goals"]) == 0 {
		return noPreferenceData
	}
	line := func(values []string) string {
		if len(values) == 0 {
			return "—"
		}
		return strings.Join(values, ", ")
	}
	return "This user has shared:\n" +
		"• Likes: " + line(prefs["likes"]) + "\n" +
		"• Dislikes: " + line(prefs["dislikes"]) + "\n" +
		"• Goals: " + line(prefs["goals"])
}

type ChatHandler struct {
	db            *sqlx.DB
	encSvc        *services.EncryptionService
	client        *ai.Client
	analyzer      *ai.Analyzer
	streaks       *services.StreakService
	minConfidence float64
	logger        *zap.Logger
}

func NewChatHandler(db *sqlx.DB, encSvc *services.EncryptionService, client *ai.Client, analyzer *ai.Analyzer, streaks *services.StreakService, minConfidence float64, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		db:            db,
		encSvc:        encSvc,
		client:        client,
		analyzer:      analyzer,
		streaks:       streaks,
		minConfidence: minConfidence,
		logger:        logger,
	}
}

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	Mood      string `json:"mood,omitempty"`
	Sentiment string `json:"sentiment,omitempty"`
}

// Send handles one chat turn: stores the user message, analyzes its mood,
// asks the generation collaborator for a reply and updates the streak. The
// mood analysis and streak update degrade silently; only persistence of the
// conversation itself can fail the request.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" || req.ConversationID == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	req.Message = strings.TrimSpace(req.Message)

	if _, err := h.db.ExecContext(ctx, `
		INSERT INTO chat_messages (user_id, conversation_id, sender, body) VALUES ($1, $2, 'user', $3)`,
		userID, req.ConversationID, req.Message); err != nil {
		http.Error(w, "could not save message", http.StatusInternalServerError)
		return
	}

	// Mood analysis is best-effort; a down analyzer never blocks the chat.
	var mood *ai.MoodResult
	if result, err := h.analyzer.Analyze(ctx, req.Message); err != nil {
		h.logger.Warn("mood analysis failed", zap.Error(err))
	} else if result.Confidence > h.minConfidence {
		mood = &result
	}

	turns, err := h.recentTurns(ctx, userID, req.ConversationID)
	if err != nil {
		http.Error(w, "could not load conversation", http.StatusInternalServerError)
		return
	}

	// Preference memory is best-effort, like the analyzer.
	memCtx := noPreferenceData
	if prefs, err := loadPreferences(ctx, h.db, userID); err != nil {
		h.logger.Warn("preference load failed", zap.Error(err))
	} else {
		memCtx = memoryContext(prefs)
	}

	reply, err := h.client.Complete(ctx, chatSystemPrompt+"\n"+memCtx, turns, 0)
	if err != nil {
		h.logger.Warn("chat completion failed", zap.Error(err))
		reply = fallbackReply
	}

	if _, err := h.db.ExecContext(ctx, `
		INSERT INTO chat_messages (user_id, conversation_id, sender, body) VALUES ($1, $2, 'assistant', $3)`,
		userID, req.ConversationID, reply); err != nil {
		http.Error(w, "could not save reply", http.StatusInternalServerError)
		return
	}
	h.trimThread(ctx, userID, req.ConversationID)

	resp := chatResponse{Reply: reply}
	if mood != nil {
		entry := models.MoodEntry{
			UserID:         userID,
			ConversationID: req.ConversationID,
			Mood:           strings.ToLower(mood.Mood),
			Sentiment:      mood.Sentiment,
			Confidence:     mood.Confidence,
			OriginalText:   req.Message,
		}
		if err := h.encSvc.EncryptMood(&entry); err != nil {
			http.Error(w, "could not encrypt mood entry", http.StatusInternalServerError)
			return
		}
		if _, err := h.db.ExecContext(ctx, `
			INSERT INTO mood_entries (user_id, conversation_id, mood, sentiment, confidence, original_text)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			entry.UserID, entry.ConversationID, entry.Mood, entry.Sentiment, entry.Confidence, entry.OriginalText); err != nil {
			http.Error(w, "could not save mood entry", http.StatusInternalServerError)
			return
		}
		resp.Mood = entry.Mood
		resp.Sentiment = entry.Sentiment

		if _, err := h.streaks.Refresh(ctx, userID); err != nil {
			h.logger.Warn("streak refresh failed", zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// History returns the stored messages for one conversation, oldest first.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	conversationID := chi.URLParam(r, "conversationID")

	var messages []models.ChatMessage
	err := h.db.SelectContext(r.Context(), &messages, `
		SELECT id, user_id, conversation_id, sender, body, created_at
		FROM chat_messages WHERE user_id=$1 AND conversation_id=$2 ORDER BY created_at ASC`,
		userID, conversationID)
	if err != nil {
		http.Error(w, "could not fetch messages", http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

func (h *ChatHandler) recentTurns(ctx context.Context, userID int, conversationID string) ([]ai.Message, error) {
	var rows []models.ChatMessage
	err := h.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, conversation_id, sender, body, created_at FROM (
			SELECT * FROM chat_messages
			WHERE user_id=$1 AND conversation_id=$2
			ORDER BY created_at DESC LIMIT $3
		) recent ORDER BY created_at ASC`,
		userID, conversationID, chatContextTurns)
	if err != nil {
		return nil, err
	}

	turns := make([]ai.Message, 0, len(rows))
	for _, m := range rows {
		role := "assistant"
		if m.Sender == "user" {
			role = "user"
		}
		turns = append(turns, ai.Message{Role: role, Content: m.Body})
	}
	return turns, nil
}

// trimThread caps a conversation at the most recent turns. Best-effort; a
// failed trim only grows the thread.
func (h *ChatHandler) trimThread(ctx context.Context, userID int, conversationID string) {
	_, err := h.db.ExecContext(ctx, `
		DELETE FROM chat_messages
		WHERE user_id=$1 AND conversation_id=$2 AND id NOT IN (
			SELECT id FROM chat_messages
			WHERE user_id=$1 AND conversation_id=$2
			ORDER BY created_at DESC LIMIT $3
		)`, userID, conversationID, chatRetainedTurns)
	if err != nil {
		h.logger.Warn("thread trim failed", zap.Error(err))
	}
}
