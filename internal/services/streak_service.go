package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"moodnest/internal/clock"
	"moodnest/internal/models"
)

// DaySnapshot captures the user's qualifying activity for a single calendar
// day, resolved once per request in the application timezone.
type DaySnapshot struct {
	Today        string // YYYY-MM-DD
	MoodCount    int
	CalmCount    int
	JournalCount int
}

func (d DaySnapshot) hasCheckIn() bool { return d.MoodCount > 0 || d.JournalCount > 0 }

// ApplyStreak advances streak state for one day's activity. It is the
// IO-free core of the streak engine: calling it twice with the same snapshot
// yields the same state, which is what makes the daily update idempotent.
func ApplyStreak(s models.Streak, snap DaySnapshot) models.Streak {
	if snap.hasCheckIn() {
		switch {
		case s.LastCheckInDate == nil:
			s.CurrentStreak = 1
			s.LongestStreak = 1
			s.LastCheckInDate = &snap.Today
		case *s.LastCheckInDate != snap.Today:
			if clock.IsYesterday(*s.LastCheckInDate, snap.Today) {
				s.CurrentStreak++
			} else {
				s.CurrentStreak = 1
			}
			if s.CurrentStreak > s.LongestStreak {
				s.LongestStreak = s.CurrentStreak
			}
			s.LastCheckInDate = &snap.Today
		}
	}

	// Calm streak moves at most once per day and resets as soon as a day has
	// mood entries but no calm ones.
	hasCalm := snap.CalmCount > 0
	if hasCalm && (s.LastCalmStreakDate == nil || *s.LastCalmStreakDate != snap.Today) {
		s.CalmStreak++
		s.LastCalmStreakDate = &snap.Today
	} else if !hasCalm && snap.MoodCount > 0 {
		s.CalmStreak = 0
		s.LastCalmStreakDate = nil
	}

	// Materialized snapshot of today, not running totals.
	s.JournalCount = snap.JournalCount
	s.ReflectionCount = snap.MoodCount
	return s
}

// StreakService loads a user's activity for today, advances the streak state
// and persists it. One upsert per invocation, no retries; a failed write
// surfaces to the caller with state unchanged.
type StreakService struct {
	db  *sqlx.DB
	clk clock.Clock
}

func NewStreakService(db *sqlx.DB, clk clock.Clock) *StreakService {
	return &StreakService{db: db, clk: clk}
}

func (s *StreakService) Refresh(ctx context.Context, userID int) (*models.Streak, error) {
	snap, err := s.todaySnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	var state models.Streak
	err = s.db.GetContext(ctx, &state, `
		SELECT user_id, current_streak, longest_streak, last_check_in_date,
		       calm_streak, last_calm_streak_date, journal_count, reflection_count, updated_at
		FROM streaks WHERE user_id=$1`, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	state.UserID = userID

	next := ApplyStreak(state, snap)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO streaks (user_id, current_streak, longest_streak, last_check_in_date,
		                     calm_streak, last_calm_streak_date, journal_count, reflection_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_check_in_date = EXCLUDED.last_check_in_date,
			calm_streak = EXCLUDED.calm_streak,
			last_calm_streak_date = EXCLUDED.last_calm_streak_date,
			journal_count = EXCLUDED.journal_count,
			reflection_count = EXCLUDED.reflection_count,
			updated_at = NOW()`,
		next.UserID, next.CurrentStreak, next.LongestStreak, next.LastCheckInDate,
		next.CalmStreak, next.LastCalmStreakDate, next.JournalCount, next.ReflectionCount)
	if err != nil {
		return nil, fmt.Errorf("save streak: %w", err)
	}
	return &next, nil
}

func (s *StreakService) todaySnapshot(ctx context.Context, userID int) (DaySnapshot, error) {
	today := clock.Today(s.clk)
	start, end, err := clock.DayBounds(s.clk, today)
	if err != nil {
		return DaySnapshot{}, fmt.Errorf("resolve today: %w", err)
	}

	snap := DaySnapshot{Today: today}
	err = s.db.QueryRowxContext(ctx, `
		SELECT
			COUNT(*) AS moods,
			COUNT(*) FILTER (WHERE mood = 'calm') AS calm
		FROM mood_entries
		WHERE user_id=$1 AND created_at BETWEEN $2 AND $3`,
		userID, start, end).Scan(&snap.MoodCount, &snap.CalmCount)
	if err != nil {
		return DaySnapshot{}, fmt.Errorf("count today's moods: %w", err)
	}

	err = s.db.QueryRowxContext(ctx, `
		SELECT COUNT(*) FROM journal_entries
		WHERE user_id=$1 AND created_at BETWEEN $2 AND $3`,
		userID, start, end).Scan(&snap.JournalCount)
	if err != nil {
		return DaySnapshot{}, fmt.Errorf("count today's journals: %w", err)
	}
	return snap, nil
}
