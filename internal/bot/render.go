package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabtrainer/internal/testrun"
	"github.com/example/vocabtrainer/internal/trainer"
	"github.com/example/vocabtrainer/pkg/models"
)

// Constants for callback data
const (
	callbackLanguage = "lang"
	callbackCategory = "cat"
	callbackBegin    = "go"
	callbackShow     = "show"
	callbackRight    = "right"
	callbackWrong    = "wrong"
	callbackSkip     = "skip"
	callbackFlip     = "flip"
	callbackRetry    = "retry"
	callbackFinish   = "finish"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// indexed builds callback data that refers to a list entry by position.
// Telegram limits callback data to 64 bytes, so names are never embedded.
func indexed(action string, index int) string {
	return action + ":" + strconv.Itoa(index)
}

// parseCallback splits callback data into its action and optional index (-1 if absent)
func parseCallback(data string) (string, int, bool) {
	action, arg, found := strings.Cut(data, ":")
	if action == "" {
		return "", -1, false
	}
	if !found {
		return action, -1, true
	}
	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 {
		return "", -1, false
	}
	return action, index, true
}

func languageButtons(languages []string) [][]MenuButton {
	rows := make([][]MenuButton, 0, len(languages))
	for i, lang := range languages {
		rows = append(rows, []MenuButton{{Text: lang, CallbackData: indexed(callbackLanguage, i)}})
	}
	return rows
}

func categoryButtons(categories []string, selected map[int]bool, columns int) [][]MenuButton {
	if columns < 1 {
		columns = 1
	}
	var rows [][]MenuButton
	var row []MenuButton
	for i, name := range categories {
		text := name
		if selected[i] {
			text = "✅ " + name
		}
		row = append(row, MenuButton{Text: text, CallbackData: indexed(callbackCategory, i)})
		if len(row) == columns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	start := "▶️ Start (all)"
	if len(selected) > 0 {
		start = fmt.Sprintf("▶️ Start (%d)", len(selected))
	}
	return append(rows, []MenuButton{{Text: start, CallbackData: callbackBegin}})
}

func categoryPrompt(language string) string {
	return fmt.Sprintf("%s: choose one or more categories, then press Start.", language)
}

func itemButtons(revealed bool) [][]MenuButton {
	if !revealed {
		return [][]MenuButton{
			{{Text: "👀 Show", CallbackData: callbackShow}},
			{{Text: "⏭ Skip", CallbackData: callbackSkip}, {Text: "🔄 Flip", CallbackData: callbackFlip}},
		}
	}
	return [][]MenuButton{
		{{Text: "✅ Right", CallbackData: callbackRight}, {Text: "❌ Wrong", CallbackData: callbackWrong}},
		{{Text: "⏭ Skip", CallbackData: callbackSkip}, {Text: "🔄 Flip", CallbackData: callbackFlip}},
	}
}

// itemText renders one card. The answer side is hidden until revealed.
func itemText(cur trainer.Current, showTerm, revealed, guest bool) string {
	prompt, answer := trainer.Prompt(cur, showTerm)

	var sb strings.Builder
	if guest {
		sb.WriteString("👤 Guest run\n")
	}
	fmt.Fprintf(&sb, "%s · %s · %s\n", cur.Term.Language, cur.Term.Category, cur.Score.Level)
	fmt.Fprintf(&sb, "Left: %d  ✅ %d  ❌ %d\n\n", cur.Progress.Remaining, cur.Progress.Correct, cur.Progress.Wrong)
	fmt.Fprintf(&sb, "%s: %s", cur.Labels.Term, prompt)
	if revealed {
		fmt.Fprintf(&sb, "\n%s: %s", cur.Labels.Translation, answer)
		if cur.Labels.ShowComment && cur.Term.Comment != "" {
			fmt.Fprintf(&sb, "\n(%s)", cur.Term.Comment)
		}
	}
	return sb.String()
}

func summaryButtons(s testrun.Summary) [][]MenuButton {
	var row []MenuButton
	if s.Wrong+s.Skipped > 0 {
		row = append(row, MenuButton{Text: "🔁 Retry", CallbackData: callbackRetry})
	}
	row = append(row, MenuButton{Text: "🏁 Finish", CallbackData: callbackFinish})
	return [][]MenuButton{row}
}

// summaryText lists the counts and the terms that were not answered correctly
func summaryText(s testrun.Summary, guest, finished bool) string {
	var sb strings.Builder
	switch {
	case finished && guest:
		sb.WriteString("Run finished. Guest run, nothing was saved.\n")
	case finished:
		sb.WriteString("Run finished. Scores saved.\n")
	default:
		sb.WriteString("Pass complete.\n")
	}
	fmt.Fprintf(&sb, "Correct: %d  Wrong: %d  Skipped: %d  Passes: %d", s.Correct, s.Wrong, s.Skipped, s.Passes)

	for _, o := range s.Outcomes {
		switch o.Result {
		case testrun.Wrong:
			fmt.Fprintf(&sb, "\n❌ %s - %s", o.Term.Text, o.Term.Translation)
		case testrun.Skipped:
			fmt.Fprintf(&sb, "\n⏭ %s - %s", o.Term.Text, o.Term.Translation)
		}
	}
	return sb.String()
}

func statsText(results []models.TestResult, week map[string]int) string {
	if len(results) == 0 {
		return "No finished runs yet. Send /start to begin."
	}

	var sb strings.Builder
	if week != nil {
		fmt.Fprintf(&sb, "Last 7 days: %d runs, %d of %d correct\n\n",
			week["total_tests"], week["correct_words"], week["total_words"])
	}
	sb.WriteString("Recent runs:")
	for _, r := range results {
		categories := r.Categories
		if categories == "" {
			categories = "all"
		}
		fmt.Fprintf(&sb, "\n%s %s (%s): %d/%d correct, %d skipped",
			r.TestDate.Format(models.DateLayout), r.Language, categories, r.CorrectWords, r.TotalWords, r.SkippedWords)
	}
	return sb.String()
}

func reminderText(count int) string {
	noun := "terms are"
	if count == 1 {
		noun = "term is"
	}
	return fmt.Sprintf("%d %s due for review. Send /start to begin a test.", count, noun)
}
