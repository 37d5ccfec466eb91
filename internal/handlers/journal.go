package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"moodnest/internal/clock"
	mw "moodnest/internal/middleware"
	"moodnest/internal/models"
	"moodnest/internal/services"
)

type JournalHandler struct {
	db     *sqlx.DB
	encSvc *services.EncryptionService
	clk    clock.Clock
}

func NewJournalHandler(db *sqlx.DB, encSvc *services.EncryptionService, clk clock.Clock) *JournalHandler {
	return &JournalHandler{db: db, encSvc: encSvc, clk: clk}
}

type journalRequest struct {
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
}

// Create stores a new journal entry stamped with the current date and time in
// the application timezone.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())

	var req journalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" || req.ConversationID == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	now := h.clk.Now()
	entry := models.JournalEntry{
		UserID:         userID,
		ConversationID: req.ConversationID,
		Title:          strings.TrimSpace(req.Title),
		Content:        req.Content,
		EntryDate:      now.Format(clock.DateLayout),
		EntryTime:      now.Format("15:04"),
	}
	if err := h.encSvc.EncryptJournal(&entry); err != nil {
		http.Error(w, "could not encrypt content", http.StatusInternalServerError)
		return
	}

	err := h.db.QueryRowxContext(r.Context(), `
		INSERT INTO journal_entries (user_id, conversation_id, title, content, entry_date, entry_time)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		entry.UserID, entry.ConversationID, entry.Title, entry.Content, entry.EntryDate, entry.EntryTime).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		http.Error(w, "could not save", http.StatusInternalServerError)
		return
	}

	entry.Content = req.Content // respond with plaintext
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

// List returns the user's journal entries for a conversation, newest first.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	conversationID := chi.URLParam(r, "conversationID")

	var entries []models.JournalEntry
	err := h.db.SelectContext(r.Context(), &entries, `
		SELECT id, user_id, conversation_id, title, content, entry_date, entry_time, created_at
		FROM journal_entries WHERE user_id=$1 AND conversation_id=$2 ORDER BY created_at DESC`,
		userID, conversationID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}

	out := make([]models.JournalEntry, 0, len(entries))
	for i := range entries {
		if err := h.encSvc.DecryptJournal(&entries[i]); err == nil {
			out = append(out, entries[i])
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Delete removes a journal entry by id. Streak counters are untouched: the
// streak engine recomputes today's counts on its next refresh.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	res, err := h.db.ExecContext(r.Context(), `DELETE FROM journal_entries WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		http.Error(w, "could not delete", http.StatusInternalServerError)
		return
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
