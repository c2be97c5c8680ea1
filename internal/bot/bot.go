package bot

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabtrainer/internal/trainer"
	"github.com/example/vocabtrainer/pkg/models"
)

// sender is the part of the Telegram API the bot uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// ResultHistory gives access to finished runs
type ResultHistory interface {
	GetByChatID(ctx context.Context, chatID int64, limit int) ([]models.TestResult, error)
	GetUserStatsByPeriod(ctx context.Context, chatID int64, startDate, endDate time.Time) (map[string]int, error)
}

// chatState is the conversation state of one chat
type chatState struct {
	mu sync.Mutex

	// guest is toggled with /guest
	guest   bool
	session *trainer.Session

	languages  []string
	language   string
	categories []string
	selected   map[int]bool
	revealed   bool
}

// Bot represents the Telegram bot application
type Bot struct {
	api     sender
	botAPI  *tgbotapi.BotAPI
	token   string
	service *trainer.Service
	history ResultHistory
	config  *BotConfig

	mu    sync.Mutex
	chats map[int64]*chatState
}

// New creates a new bot instance. history may be nil.
func New(token string, service *trainer.Service, history ResultHistory, config *BotConfig) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	if config == nil {
		config = DefaultConfig()
	}
	return &Bot{
		token:   token,
		service: service,
		history: history,
		config:  config,
		chats:   make(map[int64]*chatState),
	}, nil
}

// Start connects to Telegram and handles updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	// Initialize the bot with the given token
	botAPI, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %w", err)
	}

	b.botAPI = botAPI
	b.api = botAPI
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	// Set up the update configuration
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout

	updates := botAPI.GetUpdatesChan(updateConfig)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop(ctx context.Context) error {
	if b.botAPI != nil {
		b.botAPI.StopReceivingUpdates()
	}
	log.Println("Bot stopped")
	return ctx.Err()
}

// SendReminders implements the scheduler.Notifier interface
func (b *Bot) SendReminders(chatID int64, count int) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, reminderText(count)))
	if err != nil {
		log.Printf("Error sending reminder to chat %d: %v", chatID, err)
	} else {
		log.Printf("Successfully sent reminder to chat %d for %d terms", chatID, count)
	}
	return err
}

// DueCounts implements the scheduler.DueCounter interface. Only idle, non-guest
// chats that picked a language before are counted.
func (b *Bot) DueCounts() map[int64]int {
	b.mu.Lock()
	chats := make(map[int64]*chatState, len(b.chats))
	for id, state := range b.chats {
		chats[id] = state
	}
	b.mu.Unlock()

	counts := make(map[int64]int)
	for id, state := range chats {
		state.mu.Lock()
		language := state.language
		idle := state.session == nil || state.session.Run() == nil
		guest := b.isGuest(id, state)
		state.mu.Unlock()

		if language == "" || !idle || guest {
			continue
		}
		counts[id] = b.service.DueCount(language)
	}
	return counts
}

// chat returns the state of a chat, creating it on first use
func (b *Bot) chat(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, ok := b.chats[chatID]
	if !ok {
		state = &chatState{}
		b.chats[chatID] = state
	}
	return state
}

func (b *Bot) isGuest(chatID int64, state *chatState) bool {
	return b.config.GuestUserIDs[chatID] || state.guest
}

// handleUpdate dispatches messages and button presses
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		if update.Message.IsCommand() {
			err = b.HandleCommand(ctx, update.Message)
		} else {
			b.reply(update.Message.Chat.ID, "I don't understand. Send /start to begin a test or /help for the commands.")
		}
	case update.CallbackQuery != nil:
		err = b.HandleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		log.Printf("Error handling update %d: %v", update.UpdateID, err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}

func (b *Bot) replyWithKeyboard(chatID int64, text string, buttons [][]MenuButton) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(buttons)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}

// edit replaces the text and buttons of a message; no buttons removes the keyboard
func (b *Bot) edit(chatID int64, messageID int, text string, buttons [][]MenuButton) {
	var c tgbotapi.Chattable
	if len(buttons) == 0 {
		c = tgbotapi.NewEditMessageText(chatID, messageID, text)
	} else {
		c = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, createKeyboard(buttons))
	}
	if _, err := b.api.Send(c); err != nil {
		log.Printf("Error editing message %d in chat %d: %v", messageID, chatID, err)
	}
}
