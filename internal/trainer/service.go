// Package trainer wires the scheduling core to its collaborators: it loads the
// vocabulary and stored scores, opens per-user sessions and writes scores back
// when a run is finished.
package trainer

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/example/vocabtrainer/internal/vocabulary"
	"github.com/example/vocabtrainer/pkg/models"
)

// TermSource yields terms in stable order grouped by language then category
type TermSource interface {
	LoadTerms(ctx context.Context) ([]models.TermRecord, error)
}

// ScoreStore loads and persists term scores, one language at a time
type ScoreStore interface {
	LoadScores(ctx context.Context, language string) (map[string]models.StoredScore, error)
	WriteScores(ctx context.Context, language string, updates []models.ScoreUpdate) error
}

// ResultStore records finished runs
type ResultStore interface {
	Create(ctx context.Context, result *models.TestResult) error
}

// Options configures the service
type Options struct {
	Engine   *spaced_repetition.Engine
	DueLimit int
	// Results is optional
	Results ResultStore
	// NewRand overrides the shuffle source, mainly for tests
	NewRand func() *rand.Rand
}

// Service holds the loaded vocabulary catalog and opens sessions over it
type Service struct {
	source  TermSource
	scores  ScoreStore
	results ResultStore
	engine  *spaced_repetition.Engine
	limit   int
	newRand func() *rand.Rand

	mu       sync.RWMutex
	catalog  []models.TermRecord
	loadedAt time.Time
}

// NewService creates a service. Call Reload before opening sessions.
func NewService(source TermSource, scores ScoreStore, opts Options) *Service {
	engine := opts.Engine
	if engine == nil {
		engine = spaced_repetition.NewEngine(nil)
	}
	newRand := opts.NewRand
	if newRand == nil {
		newRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return &Service{
		source:  source,
		scores:  scores,
		results: opts.Results,
		engine:  engine,
		limit:   opts.DueLimit,
		newRand: newRand,
	}
}

// Reload reads the terms and their stored scores and replaces the catalog
func (s *Service) Reload(ctx context.Context) error {
	records, err := s.source.LoadTerms(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	stored := make(map[string]map[string]models.StoredScore)
	for i := range records {
		lang := records[i].Term.Language
		scores, ok := stored[lang]
		if !ok {
			scores, err = s.scores.LoadScores(ctx, lang)
			if err != nil {
				return fmt.Errorf("failed to load scores for %s: %w", lang, err)
			}
			stored[lang] = scores
		}
		if score, ok := scores[records[i].Term.Text]; ok {
			records[i].Level = score.Level
			records[i].LastTestedOn = score.LastTestedOn
		}
	}

	s.mu.Lock()
	s.catalog = records
	s.loadedAt = time.Now()
	s.mu.Unlock()

	log.Printf("Loaded %d terms in %d languages", len(records), len(stored))
	return nil
}

// LoadedAt returns the time of the last successful reload
func (s *Service) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Repository builds a private term repository over the current catalog
func (s *Service) Repository() *vocabulary.Repository {
	s.mu.RLock()
	records := s.catalog
	s.mu.RUnlock()

	repo := vocabulary.NewRepository(s.engine)
	repo.Load(records)
	return repo
}

// DueCount returns the number of terms of a language a regular session would test now
func (s *Service) DueCount(language string) int {
	return len(s.Repository().DueTerms(vocabulary.DueQuery{
		Language: language,
		Limit:    s.limit,
	}))
}

// NewSession opens a session for one user. Guest sessions never change scores.
func (s *Service) NewSession(chatID int64, guest bool) *Session {
	return &Session{
		service:  s,
		chatID:   chatID,
		guest:    guest,
		repo:     s.Repository(),
		showTerm: true,
	}
}

// writeScores persists the given scores batched by language
func (s *Service) writeScores(ctx context.Context, updates []models.ScoreUpdate) error {
	byLanguage := make(map[string][]models.ScoreUpdate)
	var languages []string
	for _, u := range updates {
		if _, ok := byLanguage[u.Key.Language]; !ok {
			languages = append(languages, u.Key.Language)
		}
		byLanguage[u.Key.Language] = append(byLanguage[u.Key.Language], u)
	}

	for _, lang := range languages {
		if err := s.scores.WriteScores(ctx, lang, byLanguage[lang]); err != nil {
			return fmt.Errorf("failed to write scores for %s: %w", lang, err)
		}
		log.Printf("Wrote %d scores for %s", len(byLanguage[lang]), lang)
	}

	s.merge(updates)
	return nil
}

// merge applies written scores to the catalog so new sessions see them before the next reload
func (s *Service) merge(updates []models.ScoreUpdate) {
	byKey := make(map[models.TermKey]models.ScoreUpdate, len(updates))
	for _, u := range updates {
		byKey[u.Key] = u
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	catalog := make([]models.TermRecord, len(s.catalog))
	copy(catalog, s.catalog)
	for i, rec := range catalog {
		if u, ok := byKey[rec.Term.Key()]; ok {
			catalog[i].Level = u.Level
			catalog[i].LastTestedOn = u.DateString()
		}
	}
	s.catalog = catalog
}
