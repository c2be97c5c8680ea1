package models

import "time"

// DateLayout is the storage format of test dates
const DateLayout = "2006-01-02"

// Score tracks a term's position on the level ladder
type Score struct {
	Level        string    `json:"level" db:"level"`
	LastTestedOn time.Time `json:"last_tested_on" db:"last_tested_on"` // Zero if never tested
}

// Tested reports whether the term has a last test date
func (s Score) Tested() bool {
	return !s.LastTestedOn.IsZero()
}

// ScoreUpdate is the persisted shape of a score
type ScoreUpdate struct {
	Key          TermKey
	Level        string
	LastTestedOn time.Time // Zero if never tested
}

// DateString formats the test date for storage, empty if never tested
func (u ScoreUpdate) DateString() string {
	if u.LastTestedOn.IsZero() {
		return ""
	}
	return u.LastTestedOn.Format(DateLayout)
}

// StoredScore is a raw score as read back from a score store
type StoredScore struct {
	Level        string
	LastTestedOn string
}
