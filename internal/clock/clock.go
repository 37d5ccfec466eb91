package clock

import "time"

// Clock resolves "now" in the application's home timezone. Streaks and daily
// caches key on calendar days in this zone, so every handler resolves the day
// through a Clock instead of calling time.Now directly.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

const DateLayout = "2006-01-02"

type realClock struct {
	loc *time.Location
}

// New returns a Clock fixed to the named IANA timezone. Falls back to
// Asia/Kolkata when the name is empty or unknown.
func New(tzName string) Clock {
	loc, err := time.LoadLocation(tzName)
	if tzName == "" || err != nil {
		loc = time.FixedZone("IST", int(5.5*60*60))
	}
	return &realClock{loc: loc}
}

func (c *realClock) Now() time.Time           { return time.Now().In(c.loc) }
func (c *realClock) Location() *time.Location { return c.loc }

// Fixed returns a Clock pinned to a single instant, for tests.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time           { return c.t }
func (c fixedClock) Location() *time.Location { return c.t.Location() }

// Today formats the clock's current day as YYYY-MM-DD.
func Today(c Clock) string { return c.Now().Format(DateLayout) }

// DayBounds returns the inclusive start and end of the given calendar day in
// the clock's timezone (00:00:00 to 23:59:59.999999999).
func DayBounds(c Clock, day string) (time.Time, time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, day, c.Location())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := d
	end := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end, nil
}

// IsYesterday reports whether prev is exactly one calendar day before day.
// Both arguments are YYYY-MM-DD strings.
func IsYesterday(prev, day string) bool {
	p, err1 := time.Parse(DateLayout, prev)
	d, err2 := time.Parse(DateLayout, day)
	if err1 != nil || err2 != nil {
		return false
	}
	return int(d.Sub(p).Hours()/24) == 1
}
