package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jmoiron/sqlx"

	mw "moodnest/internal/middleware"
	"moodnest/internal/models"
	"moodnest/internal/services"
)

type UserHandler struct {
	db     *sqlx.DB
	encSvc *services.EncryptionService
}

func NewUserHandler(db *sqlx.DB, encSvc *services.EncryptionService) *UserHandler {
	return &UserHandler{db: db, encSvc: encSvc}
}

// GetMe returns the current user's profile
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	var u models.User
	if err := h.db.Get(&u, `
		SELECT id, email, email_blind_index, password_hash, display_name, avatar_id, is_admin, created_at
		FROM users WHERE id=$1`, userID); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err := h.encSvc.DecryptUser(&u); err != nil {
		http.Error(w, "could not decrypt user data", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToUserDTO(u))
}

// UpdateMe updates provided fields on the current user's profile
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	var body struct {
		DisplayName *string `json:"display_name"`
		AvatarID    *int    `json:"avatar_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if body.DisplayName == nil && body.AvatarID == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if body.DisplayName != nil {
		if _, err := h.db.Exec(`UPDATE users SET display_name=$1 WHERE id=$2`, *body.DisplayName, userID); err != nil {
			http.Error(w, "could not update", http.StatusInternalServerError)
			return
		}
	}
	if body.AvatarID != nil {
		if _, err := h.db.Exec(`UPDATE users SET avatar_id=$1 WHERE id=$2`, *body.AvatarID, userID); err != nil {
			http.Error(w, "could not update", http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
