package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Константы для настроек уведомлений по умолчанию
const (
	DefaultNotificationStartHour = 4
	DefaultNotificationEndHour   = 18
)

// Reloader refreshes the vocabulary catalog
type Reloader interface {
	Reload(ctx context.Context) error
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminders(chatID int64, count int) error
}

// DueCounter reports how many terms are due per known chat
type DueCounter interface {
	DueCounts() map[int64]int
}

// Options configures the scheduled jobs
type Options struct {
	ReloadInterval time.Duration
	// Reminders are skipped when Notifier or Counter is nil
	Notifier  Notifier
	Counter   DueCounter
	StartHour int
	EndHour   int
	Location  *time.Location
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	reloader  Reloader
	opts      Options
	now       func() time.Time
}

// New creates a new scheduler instance
func New(reloader Reloader, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ReloadInterval <= 0 {
		opts.ReloadInterval = time.Hour
	}
	if opts.StartHour == 0 && opts.EndHour == 0 {
		opts.StartHour = DefaultNotificationStartHour
		opts.EndHour = DefaultNotificationEndHour
	}

	s := gocron.NewScheduler(opts.Location)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		reloader:  reloader,
		opts:      opts,
		now:       time.Now,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	// The first reload runs at start, the catalog is already fresh by then
	if _, err := s.scheduler.Every(s.opts.ReloadInterval).WaitForSchedule().Do(s.reload); err != nil {
		return err
	}

	if s.opts.Notifier != nil && s.opts.Counter != nil {
		if _, err := s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders); err != nil {
			return err
		}
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Jobs returns the number of scheduled jobs
func (s *Scheduler) Jobs() int {
	return len(s.scheduler.Jobs())
}

func (s *Scheduler) reload() {
	if err := s.reloader.Reload(context.Background()); err != nil {
		log.Printf("Error reloading vocabulary: %v", err)
	}
}

// checkAndSendReminders reminds chats with due terms inside the notification hours
func (s *Scheduler) checkAndSendReminders() {
	currentHour := s.now().In(s.opts.Location).Hour()

	// Проверяем, находится ли текущий час в диапазоне времени для отправки уведомлений
	if currentHour < s.opts.StartHour || currentHour > s.opts.EndHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, s.opts.StartHour, s.opts.EndHour)
		return
	}

	for chatID, count := range s.opts.Counter.DueCounts() {
		if count == 0 {
			continue
		}
		if err := s.opts.Notifier.SendReminders(chatID, count); err != nil {
			log.Printf("Error sending reminder to chat %d: %v", chatID, err)
		}
	}
}
