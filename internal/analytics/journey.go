package analytics

import (
	"math"
	"sort"
	"time"
)

type Journey struct {
	MoodBoost  int    `json:"moodBoost"` // week-over-week average change, percent
	PeakMoment string `json:"peakDayTime"`
	LowMoment  string `json:"lowDayTime"`
}

const notEnoughData = "Not enough data"

// EmotionalJourney compares the last 7 days of observations against the 7
// days before that and locates the highest and lowest scoring moments.
// Observations older than 14 days are ignored.
func EmotionalJourney(obs []Observation, now time.Time) Journey {
	loc := now.Location()
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	bounded := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if !o.CreatedAt.Before(twoWeeksAgo) {
			bounded = append(bounded, o)
		}
	}
	obs = bounded

	var thisWeek, lastWeek []float64
	for _, o := range obs {
		score := float64(Score(o.Mood))
		if o.CreatedAt.Before(weekAgo) {
			lastWeek = append(lastWeek, score)
		} else {
			thisWeek = append(thisWeek, score)
		}
	}

	boost := 0.0
	if lastAvg := mean(lastWeek); lastAvg != 0 {
		boost = (mean(thisWeek) - lastAvg) / lastAvg * 100
	}

	j := Journey{
		MoodBoost:  int(math.Round(boost)),
		PeakMoment: notEnoughData,
		LowMoment:  notEnoughData,
	}
	if len(obs) == 0 {
		return j
	}

	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.Slice(sorted, func(a, b int) bool {
		return Score(sorted[a].Mood) > Score(sorted[b].Mood)
	})
	j.PeakMoment = momentLabel(sorted[0].CreatedAt, loc)
	j.LowMoment = momentLabel(sorted[len(sorted)-1].CreatedAt, loc)
	return j
}

func momentLabel(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Monday 3 PM")
}

type ScorePoint struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

// DailyAverages groups observations by calendar day and averages the mood
// score per day, oldest day first. This is the history fed to the forecast
// collaborator.
func DailyAverages(obs []Observation, loc *time.Location) []ScorePoint {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, o := range obs {
		d := o.CreatedAt.In(loc).Format("2006-01-02")
		sums[d] += float64(Score(o.Mood))
		counts[d]++
	}

	days := make([]string, 0, len(sums))
	for d := range sums {
		days = append(days, d)
	}
	sort.Strings(days)

	out := make([]ScorePoint, 0, len(days))
	for _, d := range days {
		out = append(out, ScorePoint{Date: d, Score: round2(sums[d] / float64(counts[d]))})
	}
	return out
}
