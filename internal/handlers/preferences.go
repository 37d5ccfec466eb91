package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	mw "moodnest/internal/middleware"
)

// PreferencesHandler stores the likes, dislikes and goals a user shares so
// the chat assistant can remember them across conversations.
type PreferencesHandler struct {
	db *sqlx.DB
}

func NewPreferencesHandler(db *sqlx.DB) *PreferencesHandler {
	return &PreferencesHandler{db: db}
}

type preferenceRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func validPreferenceKind(kind string) bool {
	switch kind {
	case "likes", "dislikes", "goals":
		return true
	}
	return false
}

// Save records one preference, ignoring exact duplicates.
func (h *PreferencesHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())

	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	req.Value = strings.TrimSpace(req.Value)
	if !validPreferenceKind(req.Type) {
		http.Error(w, "invalid preference type", http.StatusBadRequest)
		return
	}
	if req.Value == "" {
		http.Error(w, "value required", http.StatusBadRequest)
		return
	}

	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO user_preferences (user_id, kind, value) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, kind, value) DO NOTHING`,
		userID, req.Type, req.Value)
	if err != nil {
		http.Error(w, "could not save preference", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": req.Type + " updated successfully"})
}

func loadPreferences(ctx context.Context, db *sqlx.DB, userID int) (map[string][]string, error) {
	var rows []struct {
		Kind  string `db:"kind"`
		Value string `db:"value"`
	}
	if err := db.SelectContext(ctx, &rows, `
		SELECT kind, value FROM user_preferences
		WHERE user_id=$1 ORDER BY created_at ASC`, userID); err != nil {
		return nil, err
	}
	prefs := map[string][]string{"likes": {}, "dislikes": {}, "goals": {}}
	for _, r := range rows {
		prefs[r.Kind] = append(prefs[r.Kind], r.Value)
	}
	return prefs, nil
}

// List returns the user's stored preferences grouped by kind.
func (h *PreferencesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())

	prefs, err := loadPreferences(r.Context(), h.db, userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string][]string{
		"likes":    prefs["likes"],
		"dislikes": prefs["dislikes"],
		"goals":    prefs["goals"],
	})
}
