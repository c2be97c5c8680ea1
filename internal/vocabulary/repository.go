// Package vocabulary holds the terms of one session together with their scores
// and selects the terms that are due for testing.
package vocabulary

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/example/vocabtrainer/pkg/models"
)

// ErrTermNotFound is returned when an answer is recorded for an unknown term
var ErrTermNotFound = errors.New("term not found")

// Entry is a term with its current score and derived urgency
type Entry struct {
	Term    models.Term
	Score   models.Score
	Urgency spaced_repetition.Urgency
}

// DueQuery selects the terms of a test run
type DueQuery struct {
	Language string
	// Categories restricts the selection; empty selects every category of the language
	Categories []string
	// IncludeNotYetEligible ignores the timing gate (guest/practice mode)
	IncludeNotYetEligible bool
	// Limit truncates the sorted due set when positive
	Limit int
}

// Repository holds terms keyed by (text, language) in ingestion order.
// It is owned by a single session and is not safe for concurrent use.
type Repository struct {
	engine  *spaced_repetition.Engine
	entries []*Entry
	index   map[models.TermKey]int
}

// NewRepository creates an empty repository
func NewRepository(engine *spaced_repetition.Engine) *Repository {
	return &Repository{
		engine: engine,
		index:  make(map[models.TermKey]int),
	}
}

// Load adds the records in order. A record whose term is already known replaces
// the stored term and score but keeps its original position.
func (r *Repository) Load(records []models.TermRecord) {
	for _, rec := range records {
		r.Add(rec.Term, rec.Level, rec.LastTestedOn)
	}
}

// Add registers a term with its raw stored level and date.
// Unknown levels normalize to the lowest rung and malformed dates count as never tested.
func (r *Repository) Add(term models.Term, level, lastTestedOn string) *Entry {
	last, _ := spaced_repetition.ParseDate(lastTestedOn)
	score := r.normalize(level, last)

	entry := &Entry{Term: term, Score: score}
	entry.Urgency = r.engine.UrgencyOf(score.Level, score.LastTestedOn)

	if i, ok := r.index[term.Key()]; ok {
		r.entries[i] = entry
		return entry
	}
	r.index[term.Key()] = len(r.entries)
	r.entries = append(r.entries, entry)
	return entry
}

func (r *Repository) normalize(level string, last time.Time) models.Score {
	ladder := r.engine.Ladder
	if !ladder.IsValid(level) {
		return models.Score{Level: ladder.Lowest().Name, LastTestedOn: last}
	}
	// A higher rung without a usable date cannot be scheduled; start it over
	if last.IsZero() && !ladder.IsLowest(level) {
		return models.Score{Level: ladder.Lowest().Name}
	}
	return models.Score{Level: level, LastTestedOn: last}
}

// Len returns the number of terms
func (r *Repository) Len() int {
	return len(r.entries)
}

// Get returns the entry for a term
func (r *Repository) Get(key models.TermKey) (Entry, bool) {
	i, ok := r.index[key]
	if !ok {
		return Entry{}, false
	}
	return *r.entries[i], true
}

// All returns every entry in ingestion order
func (r *Repository) All() []Entry {
	return r.filter(func(*Entry) bool { return true })
}

// ByLanguage returns the entries of a language in ingestion order
func (r *Repository) ByLanguage(language string) []Entry {
	return r.filter(func(e *Entry) bool { return e.Term.Language == language })
}

// ByCategory returns the entries of one category in ingestion order
func (r *Repository) ByCategory(language, category string) []Entry {
	return r.filter(func(e *Entry) bool {
		return e.Term.Language == language && e.Term.Category == category
	})
}

// ByCategories returns the entries of a language grouped by category.
// An empty category list selects all categories.
func (r *Repository) ByCategories(language string, categories []string) map[string][]Entry {
	grouped := make(map[string][]Entry)
	for _, e := range r.filter(categoryFilter(language, categories)) {
		grouped[e.Term.Category] = append(grouped[e.Term.Category], e)
	}
	return grouped
}

// Languages returns the distinct languages in ingestion order
func (r *Repository) Languages() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range r.entries {
		if !seen[e.Term.Language] {
			seen[e.Term.Language] = true
			out = append(out, e.Term.Language)
		}
	}
	return out
}

// Categories returns the distinct non-empty categories of a language,
// most recently ingested first
func (r *Repository) Categories(language string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := len(r.entries) - 1; i >= 0; i-- {
		t := r.entries[i].Term
		if t.Language != language || t.Category == "" || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		out = append(out, t.Category)
	}
	return out
}

// DueTerms returns the terms due for testing, most urgent first.
// Equal urgencies keep ingestion order. An empty result means nothing to schedule.
func (r *Repository) DueTerms(q DueQuery) []Entry {
	candidates := r.filter(categoryFilter(q.Language, q.Categories))

	due := candidates[:0]
	for _, e := range candidates {
		// Recompute against today; stored urgencies may be from an earlier day
		e.Urgency = r.engine.UrgencyOf(e.Score.Level, e.Score.LastTestedOn)
		if e.Urgency.IsNotYetEligible() && !q.IncludeNotYetEligible {
			continue
		}
		due = append(due, e)
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Urgency.Compare(due[j].Urgency) < 0
	})

	if q.Limit > 0 && len(due) > q.Limit {
		due = due[:q.Limit]
	}
	return due
}

// RecordAnswer applies an answer to the term's score. Expiry is checked
// against the current score and today's date, not the urgency the caller saw.
func (r *Repository) RecordAnswer(term models.Term, correct bool) (models.Score, error) {
	i, ok := r.index[term.Key()]
	if !ok {
		return models.Score{}, errors.Wrapf(ErrTermNotFound, "record answer for %q (%s)", term.Text, term.Language)
	}

	e := r.entries[i]
	level, date := r.engine.ApplyAnswer(e.Score.Level, correct, e.Score.LastTestedOn)
	e.Score = models.Score{Level: level, LastTestedOn: date}
	e.Urgency = r.engine.UrgencyOf(level, date)
	return e.Score, nil
}

// Updates returns the persisted shape of the given terms' scores, skipping unknown keys
func (r *Repository) Updates(keys []models.TermKey) []models.ScoreUpdate {
	out := make([]models.ScoreUpdate, 0, len(keys))
	for _, k := range keys {
		i, ok := r.index[k]
		if !ok {
			continue
		}
		s := r.entries[i].Score
		out = append(out, models.ScoreUpdate{Key: k, Level: s.Level, LastTestedOn: s.LastTestedOn})
	}
	return out
}

func (r *Repository) filter(keep func(*Entry) bool) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if keep(e) {
			out = append(out, *e)
		}
	}
	return out
}

func categoryFilter(language string, categories []string) func(*Entry) bool {
	set := make(map[string]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return func(e *Entry) bool {
		if e.Term.Language != language {
			return false
		}
		return len(set) == 0 || set[e.Term.Category]
	}
}
