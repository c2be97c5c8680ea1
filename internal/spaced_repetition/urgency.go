package spaced_repetition

import "fmt"

const (
	// farFromExpiry is the days-to-expiry of the sentinels
	farFromExpiry = 999999
	// NoExpiryDays is used for rungs without a max days limit
	NoExpiryDays = 500
)

// Urgency ranks how soon a term should be retested. Lower sorts first.
type Urgency struct {
	Rank         int // Position on the ladder, higher is more advanced
	DaysToExpiry int // Fewer days is more urgent
}

var (
	// NotYetEligible is the lowest priority. Such terms are left out of due sets.
	NotYetEligible = Urgency{Rank: -1, DaysToExpiry: farFromExpiry}
	// LowestRung is due but less urgent than any expiring higher rung
	LowestRung = Urgency{Rank: 0, DaysToExpiry: farFromExpiry}
)

// Less orders by days to expiry, then by higher rank first.
// Protecting progress on advanced rungs wins ties.
func (u Urgency) Less(other Urgency) bool {
	if u.DaysToExpiry != other.DaysToExpiry {
		return u.DaysToExpiry < other.DaysToExpiry
	}
	return u.Rank > other.Rank
}

// Compare returns -1, 0 or 1
func (u Urgency) Compare(other Urgency) int {
	switch {
	case u == other:
		return 0
	case u.Less(other):
		return -1
	default:
		return 1
	}
}

// IsNotYetEligible reports whether u is the not-yet-eligible sentinel
func (u Urgency) IsNotYetEligible() bool {
	return u == NotYetEligible
}

func (u Urgency) String() string {
	return fmt.Sprintf("Urgency(level=%d, expiry_in=%d)", u.Rank, u.DaysToExpiry)
}
