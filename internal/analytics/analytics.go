// Package analytics derives the dashboard views from raw mood observations.
// Every function here is pure: it takes a bounded slice of observations plus
// a reference time and returns a view model, so the whole package is testable
// without a database.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Observation is the slice of a mood entry the aggregations need.
type Observation struct {
	Mood       string
	Confidence float64
	CreatedAt  time.Time
}

// moodScores maps mood labels onto a 1-10 intensity scale. Unknown labels
// score as neutral.
var moodScores = map[string]int{
	"happy":      9,
	"grateful":   8,
	"calm":       7,
	"neutral":    5,
	"bored":      4,
	"anxious":    3,
	"tired":      3,
	"sad":        2,
	"frustrated": 1,
}

const neutralScore = 5

// Score returns the numeric mood score for a label.
func Score(mood string) int {
	if s, ok := moodScores[strings.ToLower(mood)]; ok {
		return s
	}
	return neutralScore
}

// KnownMood reports whether the label is part of the fixed mood vocabulary.
func KnownMood(mood string) bool {
	_, ok := moodScores[strings.ToLower(mood)]
	return ok
}

// OthersLabel buckets unrecognized mood labels in frequency output.
const OthersLabel = "others"

type DayAverage struct {
	Day   string  `json:"day"`  // "Sun".."Sat"
	Date  string  `json:"date"` // YYYY-MM-DD
	Score float64 `json:"mood"`
}

// WeeklyAverage buckets observations by calendar day over the week containing
// now (Sunday through Saturday, in now's location), averages the mood score
// per day and zero-fills days without data. The result always has 7 entries.
func WeeklyAverage(obs []Observation, now time.Time) []DayAverage {
	loc := now.Location()
	weekStart := dateOnly(now, loc).AddDate(0, 0, -int(now.Weekday()))

	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, o := range obs {
		d := o.CreatedAt.In(loc).Format("2006-01-02")
		sums[d] += Score(o.Mood)
		counts[d]++
	}

	out := make([]DayAverage, 0, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		avg := 0.0
		if counts[key] > 0 {
			avg = math.Round(float64(sums[key])/float64(counts[key])*100) / 100
		}
		out = append(out, DayAverage{
			Day:   day.Format("Mon"),
			Date:  key,
			Score: avg,
		})
	}
	return out
}

type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

// EmotionFrequency counts observations per mood label, folding unknown labels
// into the catch-all bucket, sorted descending by count. Ties break
// alphabetically so output is deterministic.
func EmotionFrequency(obs []Observation) []EmotionCount {
	counts := make(map[string]int)
	for _, o := range obs {
		mood := strings.ToLower(o.Mood)
		if !KnownMood(mood) {
			mood = OthersLabel
		}
		counts[mood]++
	}

	out := make([]EmotionCount, 0, len(counts))
	for mood, n := range counts {
		out = append(out, EmotionCount{Emotion: mood, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Emotion < out[j].Emotion
	})
	return out
}

type TimeBucket struct {
	Name  string `json:"name"`
	Count int    `json:"value"`
}

// TimeOfDay buckets each observation's local hour into Morning [5,12),
// Afternoon [12,17), Evening [17,21) and Night otherwise. All four buckets
// are always present, in that order.
func TimeOfDay(obs []Observation, loc *time.Location) []TimeBucket {
	names := []string{"Morning", "Afternoon", "Evening", "Night"}
	counts := map[string]int{}
	for _, o := range obs {
		counts[dayPeriod(o.CreatedAt.In(loc).Hour())]++
	}
	out := make([]TimeBucket, 0, 4)
	for _, n := range names {
		out = append(out, TimeBucket{Name: n, Count: counts[n]})
	}
	return out
}

func dayPeriod(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Morning"
	case hour >= 12 && hour < 17:
		return "Afternoon"
	case hour >= 17 && hour < 21:
		return "Evening"
	default:
		return "Night"
	}
}

type RadarPoint struct {
	Mood       string  `json:"mood"`
	Average    float64 `json:"average"`
	Volatility float64 `json:"volatility"`
}

type StabilityReport struct {
	Radar            []RadarPoint `json:"radarData"`
	EmotionalBalance int          `json:"emotionalBalance"`
}

// Stability groups the trailing 7 days of observations by mood label and
// computes the mean and sample standard deviation of the confidence scores
// per label, plus the 0-100 emotional-balance score derived from
// count-weighted volatility. Older observations are ignored. Empty input
// yields an empty radar and a zero balance, never an error.
func Stability(obs []Observation, now time.Time) StabilityReport {
	cutoff := now.AddDate(0, 0, -7)
	groups := make(map[string][]float64)
	for _, o := range obs {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		mood := strings.ToLower(o.Mood)
		groups[mood] = append(groups[mood], o.Confidence)
	}
	if len(groups) == 0 {
		return StabilityReport{Radar: []RadarPoint{}}
	}

	moods := make([]string, 0, len(groups))
	for m := range groups {
		moods = append(moods, m)
	}
	sort.Strings(moods)

	total := 0
	weightedVol := 0.0
	radar := make([]RadarPoint, 0, len(moods))
	for _, m := range moods {
		scores := groups[m]
		radar = append(radar, RadarPoint{
			Mood:       m,
			Average:    round2(mean(scores)),
			Volatility: round2(sampleStdDev(scores)),
		})
		total += len(scores)
	}
	for i, m := range moods {
		weightedVol += radar[i].Volatility * float64(len(groups[m])) / float64(total)
	}

	balance := int(math.Round(100 - weightedVol*10))
	if balance < 0 {
		balance = 0
	}
	if balance > 100 {
		balance = 100
	}
	return StabilityReport{Radar: radar, EmotionalBalance: balance}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev uses the n-1 denominator and is defined as 0 for fewer than
// two samples.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	variance := 0.0
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	variance /= float64(len(values) - 1)
	return math.Sqrt(variance)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Range selects the window an insight query covers.
type Range string

const (
	RangeDay   Range = "day"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeAll   Range = "all"
)

// ParseRange normalizes a query value, defaulting to week.
func ParseRange(s string) Range {
	switch Range(strings.ToLower(strings.TrimSpace(s))) {
	case RangeDay:
		return RangeDay
	case RangeMonth:
		return RangeMonth
	case RangeAll:
		return RangeAll
	default:
		return RangeWeek
	}
}

// Start returns the inclusive lower bound of the range ending at now.
// RangeAll returns the zero time.
func (r Range) Start(now time.Time) time.Time {
	loc := now.Location()
	today := dateOnly(now, loc)
	switch r {
	case RangeDay:
		return today
	case RangeWeek:
		return today.AddDate(0, 0, -int(now.Weekday()))
	case RangeMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return time.Time{}
	}
}

// Filter keeps observations with CreatedAt >= r.Start(now).
func (r Range) Filter(obs []Observation, now time.Time) []Observation {
	start := r.Start(now)
	if start.IsZero() {
		return obs
	}
	out := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if !o.CreatedAt.Before(start) {
			out = append(out, o)
		}
	}
	return out
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
