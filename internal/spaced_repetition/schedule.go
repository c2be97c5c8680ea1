package spaced_repetition

import (
	"math"
	"strings"
	"time"
)

// Engine applies the level ladder rules. It holds no per-term state.
type Engine struct {
	Ladder *Ladder
	// Now returns the current time; "today" is its calendar date in Location
	Now func() time.Time
	// Location used for calendar day arithmetic
	Location *time.Location
}

// NewEngine creates an engine over the given ladder using the wall clock
func NewEngine(ladder *Ladder) *Engine {
	if ladder == nil {
		ladder = DefaultLadder()
	}
	return &Engine{
		Ladder:   ladder,
		Now:      time.Now,
		Location: time.Local,
	}
}

func (e *Engine) location() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

// Today returns the current calendar date at midnight
func (e *Engine) Today() time.Time {
	y, m, d := e.Now().In(e.location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.location())
}

// DaysSince returns the number of calendar days between lastDate and today.
// lastDate is read as a calendar date in its own location.
func (e *Engine) DaysSince(lastDate time.Time) int {
	today := e.Today()
	y, m, d := lastDate.Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, e.location())
	// Round to absorb DST shifts
	return int(math.Round(today.Sub(last).Hours() / 24))
}

// IsEligibleForPromotion reports whether a correct answer may promote the term
func (e *Engine) IsEligibleForPromotion(level string, lastDate time.Time) bool {
	if lastDate.IsZero() || e.Ladder.IsLowest(level) {
		return true
	}
	return e.DaysSince(lastDate) >= e.Ladder.ByName(level).MinDays
}

// IsExpired reports whether the term has gone untested for longer than its rung allows
func (e *Engine) IsExpired(level string, lastDate time.Time) bool {
	if lastDate.IsZero() || e.Ladder.IsLowest(level) {
		return false
	}
	rung := e.Ladder.ByName(level)
	if !rung.HasMax {
		return false
	}
	return e.DaysSince(lastDate) > rung.MaxDays
}

// UrgencyOf computes how urgently the term should be retested
func (e *Engine) UrgencyOf(level string, lastDate time.Time) Urgency {
	if e.Ladder.IsLowest(level) {
		return LowestRung
	}
	// Only the lowest rung can be untested
	if lastDate.IsZero() {
		return NotYetEligible
	}

	rung := e.Ladder.ByName(level)
	days := e.DaysSince(lastDate)
	if days < rung.MinDays {
		return NotYetEligible
	}

	daysToExpiry := NoExpiryDays
	if rung.HasMax {
		daysToExpiry = rung.MaxDays - days
		// Past expiry is maximally urgent
		if daysToExpiry < 0 {
			daysToExpiry = 0
		}
	}
	return Urgency{Rank: e.Ladder.Rank(rung.Name), DaysToExpiry: daysToExpiry}
}

// ApplyAnswer returns the new level and test date after an answer
func (e *Engine) ApplyAnswer(level string, correct bool, lastDate time.Time) (string, time.Time) {
	today := e.Today()
	lowest := e.Ladder.Lowest().Name

	if e.IsExpired(level, lastDate) {
		return lowest, today
	}
	if !correct {
		return lowest, today
	}
	if e.IsEligibleForPromotion(level, lastDate) {
		if next, ok := e.Ladder.Next(level); ok {
			return next, today
		}
		return e.Ladder.Normalize(level), today
	}
	return e.Ladder.Normalize(level), today
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02.01.2006",
}

// ParseDate parses a stored test date. Empty or malformed values yield the zero time.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
