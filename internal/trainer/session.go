package trainer

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/example/vocabtrainer/internal/testrun"
	"github.com/example/vocabtrainer/internal/vocabulary"
	"github.com/example/vocabtrainer/pkg/models"
)

var (
	// ErrNoRun is returned when a run action is used before a run was started
	ErrNoRun = errors.New("no test run in progress")
	// ErrRunInProgress is returned by Start until the active run is finished
	ErrRunInProgress = errors.New("test run already in progress")
)

// Session is one user's view: a private term repository and at most one run
type Session struct {
	service *Service
	chatID  int64
	guest   bool
	repo    *vocabulary.Repository

	run        *testrun.Run
	language   string
	categories []string
	startedAt  time.Time
	// showTerm is true when the foreign term is the prompt
	showTerm bool
}

// Current is the item to show next
type Current struct {
	Index    int
	Term     models.Term
	Score    models.Score
	Labels   Labels
	Progress testrun.Progress
}

// IsGuest reports whether the session leaves scores untouched
func (s *Session) IsGuest() bool {
	return s.guest
}

// Repository returns the session's term repository
func (s *Session) Repository() *vocabulary.Repository {
	return s.repo
}

// Languages lists the languages of the loaded vocabulary
func (s *Session) Languages() []string {
	return s.repo.Languages()
}

// Categories lists the categories of a language, newest first
func (s *Session) Categories(language string) []string {
	return s.repo.Categories(language)
}

// Start builds a run over the due terms. It returns false when nothing is due;
// no run is created in that case. An active run must be finished first so its
// recorded answers are not lost.
func (s *Session) Start(language string, categories []string) (bool, error) {
	if s.run != nil {
		return false, ErrRunInProgress
	}
	due := s.repo.DueTerms(vocabulary.DueQuery{
		Language:              language,
		Categories:            categories,
		IncludeNotYetEligible: s.guest,
		Limit:                 s.service.limit,
	})
	if len(due) == 0 {
		return false, nil
	}

	var recorder testrun.Recorder
	if !s.guest {
		recorder = s.repo
	}
	s.run = testrun.New(due, recorder, s.service.newRand())
	s.language = language
	s.categories = append([]string(nil), categories...)
	s.startedAt = time.Now()
	return true, nil
}

// Run returns the active run, nil if none
func (s *Session) Run() *testrun.Run {
	return s.run
}

// Current returns the next due item. ok is false when the run is complete.
func (s *Session) Current() (Current, bool, error) {
	if s.run == nil {
		return Current{}, false, ErrNoRun
	}
	idx, ok := s.run.Next()
	if !ok {
		return Current{}, false, nil
	}
	item := s.run.Item(idx)
	return Current{
		Index:    idx,
		Term:     item.Entry.Term,
		Score:    item.Entry.Score,
		Labels:   LabelsFor(item.Entry.Term.Language, s.showTerm),
		Progress: s.run.Progress(),
	}, true, nil
}

// Answer resolves the current item as correct or wrong
func (s *Session) Answer(correct bool) error {
	idx, err := s.currentIndex()
	if err != nil {
		return err
	}
	return s.run.Answer(idx, correct)
}

// Skip moves past the current item without answering it
func (s *Session) Skip() error {
	idx, err := s.currentIndex()
	if err != nil {
		return err
	}
	return s.run.Skip(idx)
}

// Retry starts a pass over the wrong and skipped items. It returns false if there are none.
func (s *Session) Retry() (bool, error) {
	if s.run == nil {
		return false, ErrNoRun
	}
	if !s.run.HasRetry() {
		return false, nil
	}
	s.run.Retry()
	return true, nil
}

// ToggleDirection swaps prompt and answer
func (s *Session) ToggleDirection() bool {
	s.showTerm = !s.showTerm
	return s.showTerm
}

// ShowTerm reports whether the foreign term is the prompt
func (s *Session) ShowTerm() bool {
	return s.showTerm
}

// Summary returns the run summary in any state
func (s *Session) Summary() (testrun.Summary, error) {
	if s.run == nil {
		return testrun.Summary{}, ErrNoRun
	}
	return s.run.Summary(), nil
}

// Finish writes the scores of answered items, records the run and closes it.
// Guest runs are closed without writing anything.
func (s *Session) Finish(ctx context.Context) (testrun.Summary, error) {
	if s.run == nil {
		return testrun.Summary{}, ErrNoRun
	}
	summary := s.run.Summary()

	if !s.guest {
		updates := s.repo.Updates(s.run.AnsweredKeys())
		if err := s.service.writeScores(ctx, updates); err != nil {
			return summary, err
		}

		if s.service.results != nil {
			result := &models.TestResult{
				ChatID:       s.chatID,
				Language:     s.language,
				Categories:   strings.Join(s.categories, ","),
				TotalWords:   summary.Total,
				CorrectWords: summary.Correct,
				WrongWords:   summary.Wrong,
				SkippedWords: summary.Skipped,
				Passes:       summary.Passes,
				TestDate:     time.Now(),
				Duration:     int(time.Since(s.startedAt).Seconds()),
			}
			if err := s.service.results.Create(ctx, result); err != nil {
				return summary, errors.Wrap(err, "record test result")
			}
		}
	}

	s.run = nil
	return summary, nil
}

func (s *Session) currentIndex() (int, error) {
	if s.run == nil {
		return -1, ErrNoRun
	}
	idx, ok := s.run.Next()
	if !ok {
		return -1, testrun.ErrComplete
	}
	return idx, nil
}
