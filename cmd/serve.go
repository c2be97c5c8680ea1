package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vocabtrainer/internal/bot"
	"github.com/example/vocabtrainer/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Создаем канал для сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Создаем контекст с отменой
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	botConfig := bot.DefaultConfig()
	botConfig.GuestUserIDs = cfg.GuestUserIDs
	b, err := bot.New(cfg.TelegramToken, a.service, a.results, botConfig)
	if err != nil {
		return err
	}

	opts := scheduler.Options{
		ReloadInterval: cfg.ReloadInterval,
		StartHour:      cfg.ReminderStartHour,
		EndHour:        cfg.ReminderEndHour,
	}
	if cfg.RemindersEnabled {
		opts.Notifier = b
		opts.Counter = b
	}
	s := scheduler.New(a.service, opts)
	if err := s.Start(); err != nil {
		return err
	}
	defer s.Stop()

	// Канал для ожидания завершения бота
	done := make(chan struct{})

	// Горутина для обработки сигналов
	go func() {
		select {
		case sig := <-sigChan:
			log.Printf("Received signal: %v", sig)
		case <-ctx.Done():
		}
		cancel()

		// Даем время на graceful shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := b.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
		close(done)
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Bot error: %v", err)
		cancel()
		<-done
		return err
	}

	<-done
	log.Println("Bot stopped successfully")
	return nil
}
