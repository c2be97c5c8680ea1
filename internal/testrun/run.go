// Package testrun implements one traversal over a due set: a shuffled queue of
// terms, per-term outcomes and retry passes over the wrong and skipped ones.
package testrun

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/example/vocabtrainer/internal/vocabulary"
	"github.com/example/vocabtrainer/pkg/models"
)

var (
	// ErrComplete is returned when acting on a run with no due items left
	ErrComplete = errors.New("test run is complete")
	// ErrNotCurrent is returned when resolving an item other than the current due item
	ErrNotCurrent = errors.New("item is not the current due item")
)

// Result is the outcome of an item within a run
type Result string

const (
	Skipped Result = "skipped"
	Correct Result = "correct"
	Wrong   Result = "wrong"
)

// Recorder receives answers. The term repository implements it.
type Recorder interface {
	RecordAnswer(term models.Term, correct bool) (models.Score, error)
}

// Item is a snapshot of a due term
type Item struct {
	Entry  vocabulary.Entry
	Result Result
	// Answered is true once the item has been answered at least once in this run
	Answered bool
}

// Run is a single test run. It is owned by one session and is not safe for concurrent use.
type Run struct {
	items    []Item
	order    []int
	cursor   int
	passes   int
	recorder Recorder
	rnd      *rand.Rand
}

// New creates a run over the due set in random order. A nil recorder makes
// a guest run: answers are tagged but never recorded.
func New(due []vocabulary.Entry, recorder Recorder, rnd *rand.Rand) *Run {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	items := make([]Item, len(due))
	for i, e := range due {
		items[i] = Item{Entry: e, Result: Skipped}
	}
	return &Run{
		items:    items,
		order:    rnd.Perm(len(items)),
		passes:   1,
		recorder: recorder,
		rnd:      rnd,
	}
}

// Len returns the number of items in the run
func (r *Run) Len() int {
	return len(r.items)
}

// Item returns the item at index
func (r *Run) Item(index int) Item {
	return r.items[index]
}

// Order returns a copy of the current traversal order
func (r *Run) Order() []int {
	return append([]int(nil), r.order...)
}

// Cursor returns the number of positions resolved in the current pass
func (r *Run) Cursor() int {
	return r.cursor
}

// Passes returns 1 for the initial pass plus the number of retries
func (r *Run) Passes() int {
	return r.passes
}

// IsGuest reports whether answers are left unrecorded
func (r *Run) IsGuest() bool {
	return r.recorder == nil
}

// Next returns the index of the next item that is not yet correct.
// It does not move the cursor.
func (r *Run) Next() (int, bool) {
	pos, ok := r.scan()
	if !ok {
		return -1, false
	}
	return r.order[pos], true
}

// IsComplete reports whether no item is left to answer in the current pass
func (r *Run) IsComplete() bool {
	_, ok := r.scan()
	return !ok
}

// Answer tags the current due item and forwards it to the recorder
func (r *Run) Answer(index int, correct bool) error {
	pos, err := r.current(index)
	if err != nil {
		return err
	}

	item := &r.items[index]
	if r.recorder != nil {
		score, err := r.recorder.RecordAnswer(item.Entry.Term, correct)
		if err != nil {
			return errors.Wrap(err, "answer")
		}
		item.Entry.Score = score
	}

	item.Answered = true
	if correct {
		item.Result = Correct
	} else {
		item.Result = Wrong
	}
	r.resolve(pos)
	return nil
}

// Skip leaves the current due item untouched and moves on
func (r *Run) Skip(index int) error {
	pos, err := r.current(index)
	if err != nil {
		return err
	}
	r.resolve(pos)
	return nil
}

// Retry starts a new pass over the wrong items, then the skipped ones,
// each group shuffled on its own. Correct items are not revisited.
func (r *Run) Retry() {
	var wrong, skipped []int
	for i := range r.items {
		switch r.items[i].Result {
		case Wrong:
			wrong = append(wrong, i)
		case Skipped:
			skipped = append(skipped, i)
		}
	}
	r.shuffle(wrong)
	r.shuffle(skipped)

	r.order = append(wrong, skipped...)
	r.cursor = 0
	r.passes++
}

// HasRetry reports whether a retry pass would contain any item
func (r *Run) HasRetry() bool {
	for _, item := range r.items {
		if item.Result != Correct {
			return true
		}
	}
	return false
}

func (r *Run) shuffle(idx []int) {
	r.rnd.Shuffle(len(idx), func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
}

// scan finds the first position at or after the cursor whose item is not correct
func (r *Run) scan() (int, bool) {
	for pos := r.cursor; pos < len(r.order); pos++ {
		if r.items[r.order[pos]].Result != Correct {
			return pos, true
		}
	}
	return -1, false
}

func (r *Run) current(index int) (int, error) {
	pos, ok := r.scan()
	if !ok {
		return -1, ErrComplete
	}
	if r.order[pos] != index {
		return -1, errors.Wrapf(ErrNotCurrent, "index %d, current %d", index, r.order[pos])
	}
	return pos, nil
}

// resolve is the only place the cursor moves: past the resolved position,
// which also steps over any correct items in front of it.
func (r *Run) resolve(pos int) {
	r.cursor = pos + 1
}
