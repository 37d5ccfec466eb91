package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodnest/internal/models"
)

func strPtr(s string) *string { return &s }

func TestApplyStreak_FirstEverCheckIn(t *testing.T) {
	next := ApplyStreak(models.Streak{UserID: 1}, DaySnapshot{
		Today:        "2024-01-02",
		MoodCount:    2,
		JournalCount: 1,
	})

	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 1, next.LongestStreak)
	require.NotNil(t, next.LastCheckInDate)
	assert.Equal(t, "2024-01-02", *next.LastCheckInDate)
	assert.Equal(t, 1, next.JournalCount)
	assert.Equal(t, 2, next.ReflectionCount)
}

func TestApplyStreak_NoActivityLeavesStreakUntouched(t *testing.T) {
	next := ApplyStreak(models.Streak{UserID: 1}, DaySnapshot{Today: "2024-01-02"})

	assert.Zero(t, next.CurrentStreak)
	assert.Zero(t, next.LongestStreak)
	assert.Nil(t, next.LastCheckInDate)
}

func TestApplyStreak_ConsecutiveDayIncrements(t *testing.T) {
	prior := models.Streak{
		UserID:          1,
		CurrentStreak:   3,
		LongestStreak:   5,
		LastCheckInDate: strPtr("2024-01-01"),
	}
	next := ApplyStreak(prior, DaySnapshot{Today: "2024-01-02", MoodCount: 1})

	assert.Equal(t, 4, next.CurrentStreak)
	assert.Equal(t, 5, next.LongestStreak)
	assert.Equal(t, "2024-01-02", *next.LastCheckInDate)
}

func TestApplyStreak_IncrementUpdatesLongest(t *testing.T) {
	prior := models.Streak{
		UserID:          1,
		CurrentStreak:   5,
		LongestStreak:   5,
		LastCheckInDate: strPtr("2024-01-01"),
	}
	next := ApplyStreak(prior, DaySnapshot{Today: "2024-01-02", JournalCount: 1})

	assert.Equal(t, 6, next.CurrentStreak)
	assert.Equal(t, 6, next.LongestStreak)
}

func TestApplyStreak_GapResetsToOne(t *testing.T) {
	prior := models.Streak{
		UserID:          1,
		CurrentStreak:   9,
		LongestStreak:   9,
		LastCheckInDate: strPtr("2023-12-28"),
	}
	next := ApplyStreak(prior, DaySnapshot{Today: "2024-01-02", MoodCount: 1})

	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 9, next.LongestStreak, "longest survives a reset")
}

func TestApplyStreak_SameDayIsIdempotent(t *testing.T) {
	prior := models.Streak{
		UserID:          1,
		CurrentStreak:   4,
		LongestStreak:   6,
		LastCheckInDate: strPtr("2024-01-02"),
	}
	snap := DaySnapshot{Today: "2024-01-02", MoodCount: 3, JournalCount: 1}

	once := ApplyStreak(prior, snap)
	twice := ApplyStreak(once, snap)

	assert.Equal(t, 4, once.CurrentStreak)
	assert.Equal(t, once, twice)
}

func TestApplyStreak_CalmStreakIncrementsOncePerDay(t *testing.T) {
	prior := models.Streak{UserID: 1, CalmStreak: 2, LastCalmStreakDate: strPtr("2024-01-01")}
	snap := DaySnapshot{Today: "2024-01-02", MoodCount: 2, CalmCount: 1}

	once := ApplyStreak(prior, snap)
	assert.Equal(t, 3, once.CalmStreak)
	assert.Equal(t, "2024-01-02", *once.LastCalmStreakDate)

	twice := ApplyStreak(once, snap)
	assert.Equal(t, 3, twice.CalmStreak, "second refresh on same day must not double count")
}

func TestApplyStreak_CalmStreakResetsWhenMoodsButNoCalm(t *testing.T) {
	prior := models.Streak{UserID: 1, CalmStreak: 4, LastCalmStreakDate: strPtr("2024-01-01")}
	next := ApplyStreak(prior, DaySnapshot{Today: "2024-01-02", MoodCount: 2})

	assert.Zero(t, next.CalmStreak)
	assert.Nil(t, next.LastCalmStreakDate)
}

func TestApplyStreak_CalmStreakKeptWhenNoMoodsAtAll(t *testing.T) {
	prior := models.Streak{UserID: 1, CalmStreak: 4, LastCalmStreakDate: strPtr("2024-01-01")}
	next := ApplyStreak(prior, DaySnapshot{Today: "2024-01-02", JournalCount: 1})

	assert.Equal(t, 4, next.CalmStreak, "a mood-free day does not break the calm streak")
}

func TestApplyStreak_CountsAreTodaySnapshot(t *testing.T) {
	prior := models.Streak{UserID: 1, JournalCount: 10, ReflectionCount: 20}
	next := ApplyStreak(prior, DaySnapshot{Today: "2024-01-02", MoodCount: 1, JournalCount: 2})

	assert.Equal(t, 2, next.JournalCount)
	assert.Equal(t, 1, next.ReflectionCount)
}
