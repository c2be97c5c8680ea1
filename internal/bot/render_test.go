package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/vocabtrainer/internal/testrun"
	"github.com/example/vocabtrainer/internal/trainer"
	"github.com/example/vocabtrainer/pkg/models"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data   string
		action string
		index  int
		ok     bool
	}{
		{"lang:0", callbackLanguage, 0, true},
		{"cat:12", callbackCategory, 12, true},
		{"show", callbackShow, -1, true},
		{"cat:x", "", -1, false},
		{"cat:-1", "", -1, false},
		{"", "", -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			action, index, ok := parseCallback(tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.index, index)
		})
	}
}

func TestCategoryButtons(t *testing.T) {
	rows := categoryButtons([]string{"Kapitol", "Salve", "Forum"}, map[int]bool{1: true}, 2)

	assert.Len(t, rows, 3)
	assert.Equal(t, MenuButton{Text: "Kapitol", CallbackData: "cat:0"}, rows[0][0])
	assert.Equal(t, MenuButton{Text: "✅ Salve", CallbackData: "cat:1"}, rows[0][1])
	assert.Equal(t, []MenuButton{{Text: "Forum", CallbackData: "cat:2"}}, rows[1])
	assert.Equal(t, "▶️ Start (1)", rows[2][0].Text)
	assert.Equal(t, callbackBegin, rows[2][0].CallbackData)

	rows = categoryButtons([]string{"Salve"}, nil, 0)
	assert.Equal(t, "▶️ Start (all)", rows[1][0].Text)
}

func TestItemText(t *testing.T) {
	cur := trainer.Current{
		Term:     models.Term{Text: "pater", Translation: "der Vater", Language: "Latein", Category: "Salve", Comment: "patris m."},
		Score:    models.Score{Level: "Red-2"},
		Labels:   trainer.LabelsFor("Latein", true),
		Progress: testrun.Progress{Remaining: 3, Correct: 1},
	}

	hidden := itemText(cur, true, false, false)
	assert.Contains(t, hidden, "Latein · Salve · Red-2")
	assert.Contains(t, hidden, "Latein: pater")
	assert.NotContains(t, hidden, "der Vater")

	shown := itemText(cur, true, true, true)
	assert.Contains(t, shown, "Guest run")
	assert.Contains(t, shown, "Deutsch: der Vater")
	assert.Contains(t, shown, "(patris m.)")

	cur.Labels = trainer.LabelsFor("Latein", false)
	assert.Contains(t, itemText(cur, false, false, false), "Deutsch: der Vater")
}

func TestItemText_EnglishHidesComment(t *testing.T) {
	cur := trainer.Current{
		Term:   models.Term{Text: "dog", Translation: "der Hund", Language: "Englisch", Comment: "noun"},
		Labels: trainer.LabelsFor("Englisch", true),
	}
	assert.NotContains(t, itemText(cur, true, true, false), "noun")
}

func TestSummary(t *testing.T) {
	s := testrun.Summary{
		Total: 3, Correct: 1, Wrong: 1, Skipped: 1, Passes: 1,
		Outcomes: []testrun.Outcome{
			{Term: models.Term{Text: "pater", Translation: "der Vater"}, Result: testrun.Correct},
			{Term: models.Term{Text: "mater", Translation: "die Mutter"}, Result: testrun.Wrong},
			{Term: models.Term{Text: "filia", Translation: "die Tochter"}, Result: testrun.Skipped},
		},
	}

	text := summaryText(s, false, false)
	assert.Contains(t, text, "Correct: 1  Wrong: 1  Skipped: 1")
	assert.Contains(t, text, "❌ mater - die Mutter")
	assert.Contains(t, text, "⏭ filia - die Tochter")
	assert.NotContains(t, text, "pater")

	buttons := summaryButtons(s)
	assert.Equal(t, callbackRetry, buttons[0][0].CallbackData)
	assert.Equal(t, callbackFinish, buttons[0][1].CallbackData)

	done := testrun.Summary{Total: 1, Correct: 1, Passes: 2}
	assert.Equal(t, [][]MenuButton{{{Text: "🏁 Finish", CallbackData: callbackFinish}}}, summaryButtons(done))
	assert.Contains(t, summaryText(done, true, true), "nothing was saved")
}

func TestStatsText(t *testing.T) {
	assert.Contains(t, statsText(nil, nil), "No finished runs")

	results := []models.TestResult{{
		Language: "Latein", TotalWords: 10, CorrectWords: 8, SkippedWords: 1,
		TestDate: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
	}}
	text := statsText(results, map[string]int{"total_tests": 2, "total_words": 15, "correct_words": 12})
	assert.Contains(t, text, "Last 7 days: 2 runs, 12 of 15 correct")
	assert.Contains(t, text, "2025-03-10 Latein (all): 8/10 correct, 1 skipped")
}

func TestReminderText(t *testing.T) {
	assert.Equal(t, "1 term is due for review. Send /start to begin a test.", reminderText(1))
	assert.Contains(t, reminderText(4), "4 terms are due")
}
