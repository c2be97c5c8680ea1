package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/example/vocabtrainer/internal/testrun"
	"github.com/example/vocabtrainer/internal/trainer"
)

const helpText = `Commands:
/start - choose a language and categories and start a test
/guest - toggle guest mode (scores are not saved)
/stats - show your recent runs
/reload - reload the vocabulary
/help - show this message

During a test press Show to see the answer, then Right or Wrong.
Skip moves on without scoring, Flip swaps question and answer.`

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	var err error
	switch message.Command() {
	case "start":
		err = b.handleStart(ctx, message.Chat.ID)
	case "help":
		b.reply(message.Chat.ID, helpText)
	case "guest":
		b.handleGuest(message.Chat.ID)
	case "stats":
		err = b.handleStats(ctx, message.Chat.ID)
	case "reload":
		err = b.handleReload(ctx, message.Chat.ID)
	default:
		b.reply(message.Chat.ID, "Unknown command. Use /help to list the commands.")
	}
	return err
}

// handleStart opens a fresh session and asks for the language.
// An unfinished run is finished first so its answers are saved.
func (b *Bot) handleStart(ctx context.Context, chatID int64) error {
	state := b.chat(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.session != nil && state.session.Run() != nil {
		if _, err := state.session.Finish(ctx); err != nil {
			b.reply(chatID, "Saving the scores of the current test failed. Try /start again.")
			return err
		}
	}

	state.session = b.service.NewSession(chatID, b.isGuest(chatID, state))
	state.languages = state.session.Languages()
	state.categories = nil
	state.selected = nil
	state.revealed = false

	if len(state.languages) == 0 {
		b.reply(chatID, "No vocabulary is loaded. Try /reload later.")
		return nil
	}
	b.replyWithKeyboard(chatID, "Choose a language:", languageButtons(state.languages))
	return nil
}

func (b *Bot) handleGuest(chatID int64) {
	if b.config.GuestUserIDs[chatID] {
		b.reply(chatID, "This chat always runs in guest mode.")
		return
	}

	state := b.chat(chatID)
	state.mu.Lock()
	state.guest = !state.guest
	guest := state.guest
	state.mu.Unlock()

	if guest {
		b.reply(chatID, "Guest mode on. All terms are tested and nothing is saved. Send /start to begin.")
	} else {
		b.reply(chatID, "Guest mode off. Send /start to begin.")
	}
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) error {
	if b.history == nil {
		b.reply(chatID, "Statistics are not available.")
		return nil
	}

	results, err := b.history.GetByChatID(ctx, chatID, b.config.HistoryLimit)
	if err != nil {
		b.reply(chatID, "Could not load your statistics.")
		return err
	}

	now := time.Now()
	week, err := b.history.GetUserStatsByPeriod(ctx, chatID, now.AddDate(0, 0, -7), now)
	if err != nil {
		log.Printf("Error getting weekly statistics for chat %d: %v", chatID, err)
		week = nil
	}

	b.reply(chatID, statsText(results, week))
	return nil
}

func (b *Bot) handleReload(ctx context.Context, chatID int64) error {
	if err := b.service.Reload(ctx); err != nil {
		b.reply(chatID, "Reloading the vocabulary failed.")
		return err
	}
	b.reply(chatID, fmt.Sprintf("Vocabulary reloaded at %s. Send /start to use it.",
		b.service.LoadedAt().Format("15:04")))
	return nil
}

// HandleCallback handles button presses
func (b *Bot) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
	if callback.Message == nil || callback.Message.Chat == nil {
		return fmt.Errorf("callback %s without message", callback.ID)
	}

	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	action, index, ok := parseCallback(callback.Data)
	if !ok {
		return fmt.Errorf("invalid callback data %q", callback.Data)
	}

	state := b.chat(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.session == nil {
		b.edit(chatID, messageID, "This test has ended. Send /start to begin a new one.", nil)
		return nil
	}

	var err error
	switch action {
	case callbackLanguage:
		if index < 0 || index >= len(state.languages) {
			return fmt.Errorf("language index %d out of range", index)
		}
		state.language = state.languages[index]
		state.categories = state.session.Categories(state.language)
		state.selected = make(map[int]bool)
		b.edit(chatID, messageID, categoryPrompt(state.language),
			categoryButtons(state.categories, state.selected, b.config.CategoryColumns))
		return nil

	case callbackCategory:
		if index < 0 || index >= len(state.categories) {
			return fmt.Errorf("category index %d out of range", index)
		}
		if state.selected[index] {
			delete(state.selected, index)
		} else {
			state.selected[index] = true
		}
		b.edit(chatID, messageID, categoryPrompt(state.language),
			categoryButtons(state.categories, state.selected, b.config.CategoryColumns))
		return nil

	case callbackBegin:
		if state.language == "" {
			return fmt.Errorf("no language chosen")
		}
		var chosen []string
		for i, name := range state.categories {
			if state.selected[i] {
				chosen = append(chosen, name)
			}
		}
		started, err := state.session.Start(state.language, chosen)
		if errors.Is(err, trainer.ErrRunInProgress) {
			b.showRun(state, chatID, messageID)
			return nil
		}
		if err != nil {
			return err
		}
		if !started {
			b.edit(chatID, messageID, "Nothing is due right now. Send /start to choose other categories.", nil)
			return nil
		}
		state.revealed = false

	case callbackShow:
		state.revealed = true

	case callbackRight, callbackWrong:
		err = state.session.Answer(action == callbackRight)
		state.revealed = false

	case callbackSkip:
		err = state.session.Skip()
		state.revealed = false

	case callbackFlip:
		state.session.ToggleDirection()

	case callbackRetry:
		_, err = state.session.Retry()
		state.revealed = false

	case callbackFinish:
		summary, err := state.session.Finish(ctx)
		if err != nil {
			if errors.Is(err, trainer.ErrNoRun) {
				b.edit(chatID, messageID, "This test has ended. Send /start to begin a new one.", nil)
				return nil
			}
			b.reply(chatID, "Saving the scores failed. Press Finish to try again.")
			return err
		}
		b.edit(chatID, messageID, summaryText(summary, state.session.IsGuest(), true), nil)
		return nil

	default:
		return fmt.Errorf("unknown callback action %q", action)
	}

	if err != nil {
		if errors.Is(err, trainer.ErrNoRun) {
			b.edit(chatID, messageID, "This test has ended. Send /start to begin a new one.", nil)
			return nil
		}
		// A stale button of an item that was already resolved
		if !errors.Is(err, testrun.ErrComplete) && !errors.Is(err, testrun.ErrNotCurrent) {
			return err
		}
	}

	b.showRun(state, chatID, messageID)
	return nil
}

// showRun renders the current item or, when the pass is over, the summary
func (b *Bot) showRun(state *chatState, chatID int64, messageID int) {
	cur, ok, err := state.session.Current()
	if err != nil {
		b.edit(chatID, messageID, "This test has ended. Send /start to begin a new one.", nil)
		return
	}
	if ok {
		text := itemText(cur, state.session.ShowTerm(), state.revealed, state.session.IsGuest())
		b.edit(chatID, messageID, text, itemButtons(state.revealed))
		return
	}

	summary, err := state.session.Summary()
	if err != nil {
		return
	}
	b.edit(chatID, messageID, summaryText(summary, state.session.IsGuest(), false), summaryButtons(summary))
}
