package spaced_repetition

import "fmt"

// Rung is one named level on the ladder
type Rung struct {
	Name string
	// Days that must pass since the last test before a correct answer promotes
	MinDays int
	// Days after which the rung lapses back to the lowest rung. Zero for the lowest rung.
	MaxDays int
	// HasMax is false only for rungs that never expire
	HasMax bool
}

func (r Rung) String() string {
	if !r.HasMax {
		return fmt.Sprintf("%s(min=%d)", r.Name, r.MinDays)
	}
	return fmt.Sprintf("%s(min=%d, max=%d)", r.Name, r.MinDays, r.MaxDays)
}

// Ladder is the ordered sequence of mastery levels. The first rung is the lowest.
type Ladder struct {
	rungs  []Rung
	byName map[string]int
}

// DefaultRungs is the reference ladder configuration
var DefaultRungs = []Rung{
	{Name: "Red-1", MinDays: 0},
	{Name: "Red-2", MinDays: 1, MaxDays: 7, HasMax: true},
	{Name: "Red-3", MinDays: 1, MaxDays: 7, HasMax: true},
	{Name: "Red-4", MinDays: 1, MaxDays: 7, HasMax: true},
	{Name: "Yellow-1", MinDays: 4, MaxDays: 7, HasMax: true},
	{Name: "Yellow-2", MinDays: 4, MaxDays: 7, HasMax: true},
	{Name: "Green", MinDays: 25, MaxDays: 33, HasMax: true},
}

// NewLadder builds a ladder from rungs ordered lowest first
func NewLadder(rungs []Rung) (*Ladder, error) {
	if len(rungs) == 0 {
		return nil, fmt.Errorf("ladder needs at least one rung")
	}
	l := &Ladder{
		rungs:  make([]Rung, len(rungs)),
		byName: make(map[string]int, len(rungs)),
	}
	copy(l.rungs, rungs)
	for i, r := range l.rungs {
		if _, dup := l.byName[r.Name]; dup {
			return nil, fmt.Errorf("duplicate rung %q", r.Name)
		}
		if i > 0 && !r.HasMax {
			return nil, fmt.Errorf("rung %q must have max days", r.Name)
		}
		l.byName[r.Name] = i
	}
	return l, nil
}

// DefaultLadder returns the reference seven-rung ladder
func DefaultLadder() *Ladder {
	l, err := NewLadder(DefaultRungs)
	if err != nil {
		panic(err)
	}
	return l
}

// Rungs returns the rungs lowest first
func (l *Ladder) Rungs() []Rung {
	out := make([]Rung, len(l.rungs))
	copy(out, l.rungs)
	return out
}

// Names returns the rung names lowest first
func (l *Ladder) Names() []string {
	names := make([]string, len(l.rungs))
	for i, r := range l.rungs {
		names[i] = r.Name
	}
	return names
}

// Lowest returns the lowest rung
func (l *Ladder) Lowest() Rung {
	return l.rungs[0]
}

// IsValid reports whether name is a rung of this ladder
func (l *Ladder) IsValid(name string) bool {
	_, ok := l.byName[name]
	return ok
}

// ByName returns the named rung, or the lowest rung if the name is unknown
func (l *Ladder) ByName(name string) Rung {
	i, ok := l.byName[name]
	if !ok {
		return l.rungs[0]
	}
	return l.rungs[i]
}

// Normalize maps unknown level names to the lowest rung
func (l *Ladder) Normalize(name string) string {
	return l.ByName(name).Name
}

// Rank returns the position of the rung, 0 for the lowest or unknown names
func (l *Ladder) Rank(name string) int {
	return l.byName[name]
}

// Next returns the rung above name. At the top rung it returns false.
func (l *Ladder) Next(name string) (string, bool) {
	i := l.Rank(name)
	if i+1 >= len(l.rungs) {
		return "", false
	}
	return l.rungs[i+1].Name, true
}

// IsLowest reports whether name refers to the lowest rung
func (l *Ladder) IsLowest(name string) bool {
	return l.Rank(name) == 0
}
