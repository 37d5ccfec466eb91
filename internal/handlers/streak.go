package handlers

import (
	"encoding/json"
	"net/http"

	mw "moodnest/internal/middleware"
	"moodnest/internal/services"
)

type StreakHandler struct {
	streaks *services.StreakService
}

func NewStreakHandler(streaks *services.StreakService) *StreakHandler {
	return &StreakHandler{streaks: streaks}
}

// Get refreshes and returns the caller's streak state. Refreshing on read
// keeps the counters honest even when the client skipped a day.
func (h *StreakHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())

	streak, err := h.streaks.Refresh(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not load streak", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(streak)
}
