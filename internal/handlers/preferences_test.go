package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryContext_Empty(t *testing.T) {
	prefs := map[string][]string{"likes": {}, "dislikes": {}, "goals": {}}
	assert.Equal(t, "No preference data stored yet.", memoryContext(prefs))
}

func TestMemoryContext_RendersStoredPreferences(t *testing.T) {
	prefs := map[string][]string{
		"likes":    {"painting", "long walks"},
		"dislikes": {},
		"goals":    {"sleep earlier"},
	}
	got := memoryContext(prefs)
	assert.Contains(t, got, "This user has shared:")
	assert.Contains(t, got, "• Likes: painting, long walks")
	assert.Contains(t, got, "• Dislikes: —")
	assert.Contains(t, got, "• Goals: sleep earlier")
}

func TestValidPreferenceKind(t *testing.T) {
	assert.True(t, validPreferenceKind("likes"))
	assert.True(t, validPreferenceKind("dislikes"))
	assert.True(t, validPreferenceKind("goals"))
	assert.False(t, validPreferenceKind("moods"))
	assert.False(t, validPreferenceKind(""))
	assert.False(t, validPreferenceKind("Likes"))
}
