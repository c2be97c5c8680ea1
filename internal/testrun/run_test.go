package testrun

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/example/vocabtrainer/internal/vocabulary"
	"github.com/example/vocabtrainer/pkg/models"
)

type fakeRecorder struct {
	calls []string
	err   error
}

func (f *fakeRecorder) RecordAnswer(term models.Term, correct bool) (models.Score, error) {
	if f.err != nil {
		return models.Score{}, f.err
	}
	f.calls = append(f.calls, term.Text)
	if correct {
		return models.Score{Level: "Red-2"}, nil
	}
	return models.Score{Level: "Red-1"}, nil
}

func entries(texts ...string) []vocabulary.Entry {
	out := make([]vocabulary.Entry, len(texts))
	for i, text := range texts {
		out[i] = vocabulary.Entry{
			Term:    models.Term{Text: text, Language: "Latein", Category: "Salve"},
			Score:   models.Score{Level: "Red-1"},
			Urgency: spaced_repetition.LowestRung,
		}
	}
	return out
}

func seeded() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func sorted(idx []int) []int {
	out := append([]int(nil), idx...)
	sort.Ints(out)
	return out
}

func TestNew_OrderIsPermutation(t *testing.T) {
	r := New(entries("a", "b", "c", "d", "e"), nil, seeded())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, sorted(r.Order()))
	assert.Equal(t, 0, r.Cursor())
	assert.False(t, r.IsComplete())
	assert.True(t, r.IsGuest())

	for i := 0; i < r.Len(); i++ {
		assert.Equal(t, Skipped, r.Item(i).Result)
	}
}

func TestNew_EmptyIsComplete(t *testing.T) {
	r := New(nil, nil, seeded())
	assert.True(t, r.IsComplete())
	_, ok := r.Next()
	assert.False(t, ok)
}

func TestNext_DoesNotMoveCursor(t *testing.T) {
	r := New(entries("a", "b"), nil, seeded())
	first, ok := r.Next()
	require.True(t, ok)
	again, _ := r.Next()
	assert.Equal(t, first, again)
	assert.Equal(t, 0, r.Cursor())
	assert.Equal(t, r.Order()[0], first)
}

func TestRun_NActionsComplete(t *testing.T) {
	rec := &fakeRecorder{}
	r := New(entries("a", "b", "c", "d", "e", "f"), rec, seeded())

	actions := 0
	for !r.IsComplete() {
		idx, ok := r.Next()
		require.True(t, ok)
		switch actions % 3 {
		case 0:
			require.NoError(t, r.Answer(idx, true))
		case 1:
			require.NoError(t, r.Answer(idx, false))
		default:
			require.NoError(t, r.Skip(idx))
		}
		actions++
		assert.Equal(t, actions, r.Cursor())
	}

	assert.Equal(t, 6, actions)
	assert.Len(t, rec.calls, 4)

	s := r.Summary()
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 2, s.Correct)
	assert.Equal(t, 2, s.Wrong)
	assert.Equal(t, 2, s.Skipped)
	assert.Equal(t, 1, s.Passes)
}

func TestAnswer_TagsAndRecords(t *testing.T) {
	rec := &fakeRecorder{}
	r := New(entries("a"), rec, seeded())

	require.NoError(t, r.Answer(0, true))
	item := r.Item(0)
	assert.Equal(t, Correct, item.Result)
	assert.True(t, item.Answered)
	assert.Equal(t, "Red-2", item.Entry.Score.Level)
	assert.Equal(t, []string{"a"}, rec.calls)
	assert.True(t, r.IsComplete())
}

func TestAnswer_RecorderErrorLeavesStateUnchanged(t *testing.T) {
	rec := &fakeRecorder{err: vocabulary.ErrTermNotFound}
	r := New(entries("a", "b"), rec, seeded())
	idx, _ := r.Next()

	err := r.Answer(idx, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, vocabulary.ErrTermNotFound))
	assert.Equal(t, Skipped, r.Item(idx).Result)
	assert.Equal(t, 0, r.Cursor())
}

func TestAnswer_RejectsOutOfOrderIndex(t *testing.T) {
	r := New(entries("a", "b", "c"), nil, seeded())
	idx, _ := r.Next()
	other := (idx + 1) % 3

	err := r.Answer(other, true)
	assert.True(t, errors.Is(err, ErrNotCurrent))
	assert.True(t, errors.Is(r.Skip(other), ErrNotCurrent))
	assert.Equal(t, 0, r.Cursor())
}

func TestActions_OnCompleteRun(t *testing.T) {
	r := New(entries("a"), nil, seeded())
	require.NoError(t, r.Skip(0))
	assert.True(t, r.IsComplete())
	assert.True(t, errors.Is(r.Answer(0, true), ErrComplete))
	assert.True(t, errors.Is(r.Skip(0), ErrComplete))
}

func TestSkip_DoesNotRecord(t *testing.T) {
	rec := &fakeRecorder{}
	r := New(entries("a"), rec, seeded())
	require.NoError(t, r.Skip(0))
	assert.Empty(t, rec.calls)
	assert.Equal(t, Skipped, r.Item(0).Result)
	assert.False(t, r.Item(0).Answered)
}

func TestRetry_WrongAndSkipped(t *testing.T) {
	r := New(entries("a", "b"), nil, seeded())

	first, _ := r.Next()
	require.NoError(t, r.Answer(first, false))
	second, _ := r.Next()
	require.NoError(t, r.Skip(second))
	require.True(t, r.IsComplete())

	r.Retry()
	assert.Equal(t, []int{first, second}, r.Order())
	assert.Equal(t, 0, r.Cursor())
	assert.False(t, r.IsComplete())
	assert.Equal(t, 2, r.Passes())
}

func TestRetry_WrongBeforeSkippedAndCorrectExcluded(t *testing.T) {
	r := New(entries("a", "b", "c", "d", "e", "f", "g", "h"), nil, seeded())

	results := map[int]Result{}
	n := 0
	for !r.IsComplete() {
		idx, _ := r.Next()
		switch n % 3 {
		case 0:
			require.NoError(t, r.Answer(idx, false))
			results[idx] = Wrong
		case 1:
			require.NoError(t, r.Skip(idx))
			results[idx] = Skipped
		default:
			require.NoError(t, r.Answer(idx, true))
			results[idx] = Correct
		}
		n++
	}

	r.Retry()
	order := r.Order()
	var seenSkipped bool
	for _, idx := range order {
		assert.NotEqual(t, Correct, results[idx])
		if results[idx] == Skipped {
			seenSkipped = true
		} else {
			assert.False(t, seenSkipped, "wrong item after a skipped one")
		}
	}
	assert.Len(t, order, 6)
	assert.Equal(t, 8, r.Summary().Total)
}

func TestRetry_NothingLeftStaysComplete(t *testing.T) {
	r := New(entries("a", "b"), nil, seeded())
	for !r.IsComplete() {
		idx, _ := r.Next()
		require.NoError(t, r.Answer(idx, true))
	}
	assert.False(t, r.HasRetry())

	r.Retry()
	assert.Empty(t, r.Order())
	assert.True(t, r.IsComplete())
}

func TestRetry_CorrectInRetryPass(t *testing.T) {
	r := New(entries("a", "b", "c"), nil, seeded())
	for !r.IsComplete() {
		idx, _ := r.Next()
		require.NoError(t, r.Answer(idx, false))
	}
	require.True(t, r.HasRetry())
	r.Retry()

	idx, _ := r.Next()
	require.NoError(t, r.Answer(idx, true))
	p := r.Progress()
	assert.Equal(t, 1, p.Correct)
	assert.Equal(t, 2, p.Wrong)
	assert.Equal(t, 2, p.Remaining)

	r.Retry()
	assert.Len(t, r.Order(), 2)
	assert.NotContains(t, r.Order(), idx)
}

func TestSummary_IsAvailableMidRun(t *testing.T) {
	r := New(entries("a", "b", "c"), nil, seeded())
	idx, _ := r.Next()
	require.NoError(t, r.Answer(idx, true))

	s := r.Summary()
	assert.Equal(t, 1, s.Correct)
	assert.Equal(t, 2, s.Skipped)
	require.Len(t, s.Outcomes, 3)
	assert.Equal(t, Correct, s.Outcomes[idx].Result)
	assert.Equal(t, []models.TermKey{{Text: r.Item(idx).Entry.Term.Text, Language: "Latein"}}, r.AnsweredKeys())
}

func TestRun_WithRepository(t *testing.T) {
	eng := spaced_repetition.NewEngine(nil)
	eng.Now = func() time.Time { return time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC) }
	eng.Location = time.UTC

	repo := vocabulary.NewRepository(eng)
	repo.Load([]models.TermRecord{
		{Term: models.Term{Text: "pater", Language: "Latein"}, Level: "Red-1"},
		{Term: models.Term{Text: "mater", Language: "Latein"}, Level: "Red-2", LastTestedOn: "2025-03-09"},
	})

	r := New(repo.DueTerms(vocabulary.DueQuery{Language: "Latein"}), repo, seeded())
	for !r.IsComplete() {
		idx, _ := r.Next()
		require.NoError(t, r.Answer(idx, r.Item(idx).Entry.Term.Text == "mater"))
	}

	mater, _ := repo.Get(models.TermKey{Text: "mater", Language: "Latein"})
	assert.Equal(t, "Red-3", mater.Score.Level)
	pater, _ := repo.Get(models.TermKey{Text: "pater", Language: "Latein"})
	assert.Equal(t, "Red-1", pater.Score.Level)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), pater.Score.LastTestedOn)
}
