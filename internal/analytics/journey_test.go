package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmotionalJourney_EmptyInput(t *testing.T) {
	j := EmotionalJourney(nil, wednesday)
	assert.Zero(t, j.MoodBoost)
	assert.Equal(t, "Not enough data", j.PeakMoment)
	assert.Equal(t, "Not enough data", j.LowMoment)
}

func TestEmotionalJourney_WeekOverWeekBoost(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, ist)
	obs := []Observation{
		// Previous week: average score 2 (sad).
		{Mood: "sad", CreatedAt: now.AddDate(0, 0, -10)},
		{Mood: "sad", CreatedAt: now.AddDate(0, 0, -9)},
		// This week: average score 8 (grateful).
		{Mood: "grateful", CreatedAt: now.AddDate(0, 0, -2)},
		{Mood: "grateful", CreatedAt: now.AddDate(0, 0, -1)},
	}
	j := EmotionalJourney(obs, now)
	// (8 - 2) / 2 * 100 = 300%
	assert.Equal(t, 300, j.MoodBoost)
}

func TestEmotionalJourney_NoPriorWeekMeansZeroBoost(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, ist)
	obs := []Observation{
		{Mood: "happy", CreatedAt: now.AddDate(0, 0, -1)},
	}
	j := EmotionalJourney(obs, now)
	assert.Zero(t, j.MoodBoost)
}

func TestEmotionalJourney_PeakAndLowMoments(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, ist)
	peakAt := time.Date(2024, 1, 14, 17, 0, 0, 0, ist) // Sunday 5 PM
	lowAt := time.Date(2024, 1, 12, 9, 0, 0, 0, ist)   // Friday 9 AM
	obs := []Observation{
		{Mood: "neutral", CreatedAt: now.AddDate(0, 0, -3)},
		{Mood: "happy", CreatedAt: peakAt},
		{Mood: "frustrated", CreatedAt: lowAt},
	}
	j := EmotionalJourney(obs, now)
	assert.Equal(t, "Sunday 5 PM", j.PeakMoment)
	assert.Equal(t, "Friday 9 AM", j.LowMoment)
}

func TestEmotionalJourney_IgnoresEntriesOlderThanTwoWeeks(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, ist)
	obs := []Observation{
		// A months-old low must not fabricate a prior-week baseline or
		// claim the low moment.
		{Mood: "sad", CreatedAt: now.AddDate(0, 0, -100)},
		{Mood: "happy", CreatedAt: now.AddDate(0, 0, -1)},
	}
	j := EmotionalJourney(obs, now)
	assert.Zero(t, j.MoodBoost)
	assert.Equal(t, momentLabel(now.AddDate(0, 0, -1), ist), j.PeakMoment)
	assert.Equal(t, momentLabel(now.AddDate(0, 0, -1), ist), j.LowMoment)
}

func TestDailyAverages_GroupsAndSortsOldestFirst(t *testing.T) {
	obs := []Observation{
		{Mood: "sad", CreatedAt: at(3, 9)},
		{Mood: "calm", CreatedAt: at(1, 9)},
		{Mood: "happy", CreatedAt: at(1, 20)},
	}
	out := DailyAverages(obs, ist)
	require.Len(t, out, 2)
	assert.Equal(t, ScorePoint{Date: "2024-01-01", Score: 8}, out[0]) // (7+9)/2
	assert.Equal(t, ScorePoint{Date: "2024-01-03", Score: 2}, out[1])
}

func TestDailyAverages_EmptyInput(t *testing.T) {
	assert.Empty(t, DailyAverages(nil, ist))
}
