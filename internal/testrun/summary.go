package testrun

import "github.com/example/vocabtrainer/pkg/models"

// Outcome is the final result of one term
type Outcome struct {
	Term     models.Term
	Result   Result
	Score    models.Score
	Answered bool
}

// Summary reports the state of a run
type Summary struct {
	Total    int
	Correct  int
	Wrong    int
	Skipped  int
	Passes   int
	Outcomes []Outcome
}

// Progress is the position within the current pass
type Progress struct {
	Correct   int
	Wrong     int
	Skipped   int
	Remaining int
}

// Summary counts the items by result. Valid in any state.
func (r *Run) Summary() Summary {
	s := Summary{
		Total:    len(r.items),
		Passes:   r.passes,
		Outcomes: make([]Outcome, len(r.items)),
	}
	for i, item := range r.items {
		switch item.Result {
		case Correct:
			s.Correct++
		case Wrong:
			s.Wrong++
		default:
			s.Skipped++
		}
		s.Outcomes[i] = Outcome{
			Term:     item.Entry.Term,
			Result:   item.Result,
			Score:    item.Entry.Score,
			Answered: item.Answered,
		}
	}
	return s
}

// Progress counts results and the items still due in the current pass
func (r *Run) Progress() Progress {
	var p Progress
	for _, item := range r.items {
		switch item.Result {
		case Correct:
			p.Correct++
		case Wrong:
			p.Wrong++
		default:
			p.Skipped++
		}
	}
	for pos := r.cursor; pos < len(r.order); pos++ {
		if r.items[r.order[pos]].Result != Correct {
			p.Remaining++
		}
	}
	return p
}

// AnsweredKeys returns the identities of items answered at least once, in item order
func (r *Run) AnsweredKeys() []models.TermKey {
	var keys []models.TermKey
	for _, item := range r.items {
		if item.Answered {
			keys = append(keys, item.Entry.Term.Key())
		}
	}
	return keys
}
