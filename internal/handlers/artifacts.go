package handlers

import (
	"net/http"

	mw "moodnest/internal/middleware"
	"moodnest/internal/services"
)

// ArtifactsHandler serves the cached AI artifacts: the mood summary, the
// reflective message and the daily suggestion list.
type ArtifactsHandler struct {
	suggestions *services.SuggestionService
}

func NewArtifactsHandler(suggestions *services.SuggestionService) *ArtifactsHandler {
	return &ArtifactsHandler{suggestions: suggestions}
}

func (h *ArtifactsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	summary, err := h.suggestions.MoodSummary(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not build summary", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"summary": summary})
}

func (h *ArtifactsHandler) ReflectiveMessage(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	message, err := h.suggestions.ReflectiveMessage(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not build message", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": message})
}

func (h *ArtifactsHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	list, err := h.suggestions.DailySuggestions(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not build suggestions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"suggestions": list})
}
