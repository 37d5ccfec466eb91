package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodnest/internal/analytics"
)

func TestArtifactFresh(t *testing.T) {
	generated := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	assert.True(t, artifactFresh(generated, generated.Add(-time.Hour)),
		"artifact newer than latest source is served from cache")
	assert.False(t, artifactFresh(generated, generated.Add(time.Hour)),
		"newer source invalidates the artifact")
	assert.False(t, artifactFresh(generated, generated),
		"equal timestamps regenerate rather than risk staleness")
}

func TestParseSuggestions_WellFormed(t *testing.T) {
	reply := `[{"icon":"🧘","title":"Breathe","description":"Five slow breaths."}]`
	out := parseSuggestions(reply)
	require.Len(t, out, 1)
	assert.Equal(t, "🧘", out[0].Icon)
	assert.Equal(t, "Breathe", out[0].Title)
	assert.Equal(t, "Five slow breaths.", out[0].Description)
}

func TestParseSuggestions_ArrayWrappedInProse(t *testing.T) {
	reply := "Here you go!\n[{\"icon\":\"🌿\",\"title\":\"Walk\",\"description\":\"Step outside.\"}]\nEnjoy!"
	out := parseSuggestions(reply)
	require.Len(t, out, 1)
	assert.Equal(t, "Walk", out[0].Title)
}

func TestParseSuggestions_NormalizesKeyVariants(t *testing.T) {
	reply := `[{"activity":"Doodle","reason":"Engage creatively"}]`
	out := parseSuggestions(reply)
	require.Len(t, out, 1)
	assert.Equal(t, "💡", out[0].Icon)
	assert.Equal(t, "Doodle", out[0].Title)
	assert.Equal(t, "Engage creatively", out[0].Description)
}

func TestParseSuggestions_FillsMissingFields(t *testing.T) {
	out := parseSuggestions(`[{}]`)
	require.Len(t, out, 1)
	assert.Equal(t, "💡", out[0].Icon)
	assert.Equal(t, "Untitled", out[0].Title)
	assert.Equal(t, "No details provided.", out[0].Description)
}

func TestParseSuggestions_GarbageYieldsEmpty(t *testing.T) {
	assert.Empty(t, parseSuggestions("I cannot produce JSON today."))
	assert.Empty(t, parseSuggestions(`[{"title": unquoted}]`))
	assert.Empty(t, parseSuggestions(""))
}

func TestSummaryPrompt_IncludesStats(t *testing.T) {
	prompt := summaryPrompt(
		[]analytics.EmotionCount{{Emotion: "calm", Count: 3}, {Emotion: "sad", Count: 1}},
		[]analytics.TimeBucket{{Name: "Morning", Count: 2}, {Name: "Night", Count: 2}},
	)
	assert.Contains(t, prompt, "calm: 3, sad: 1")
	assert.Contains(t, prompt, "morning: 2")
	assert.Contains(t, prompt, "max 2 sentences")
}

func TestReflectivePrompt_NumbersEntries(t *testing.T) {
	prompt := reflectivePrompt([]string{"slept well", "felt anxious at work"})
	assert.Contains(t, prompt, "Entry 1: slept well")
	assert.Contains(t, prompt, "Entry 2: felt anxious at work")
}

func TestSuggestionsPrompt_DemandsJSONArray(t *testing.T) {
	prompt := suggestionsPrompt([]string{"a good day"})
	assert.Contains(t, prompt, "Respond ONLY with a JSON array")
	assert.Contains(t, prompt, "Entry 1: a good day")
}
