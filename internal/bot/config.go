package bot

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Long polling timeout in seconds
	UpdateTimeout int
	// Chats that always run in guest mode
	GuestUserIDs map[int64]bool
	// Number of past runs shown by /stats
	HistoryLimit int
	// Buttons per row on the category keyboard
	CategoryColumns int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		UpdateTimeout:   60,
		GuestUserIDs:    make(map[int64]bool),
		HistoryLimit:    5,
		CategoryColumns: 2,
	}
}
