package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReloader struct {
	calls int
	err   error
}

func (r *countingReloader) Reload(ctx context.Context) error {
	r.calls++
	return r.err
}

type recordingNotifier struct {
	sent map[int64]int
}

func (n *recordingNotifier) SendReminders(chatID int64, count int) error {
	if chatID < 0 {
		return fmt.Errorf("chat %d blocked the bot", chatID)
	}
	n.sent[chatID] = count
	return nil
}

type staticCounter map[int64]int

func (c staticCounter) DueCounts() map[int64]int {
	return c
}

func newTestScheduler(hour int) (*Scheduler, *recordingNotifier) {
	notifier := &recordingNotifier{sent: make(map[int64]int)}
	s := New(&countingReloader{}, Options{
		Notifier:  notifier,
		Counter:   staticCounter{1: 3, 2: 0, -3: 5},
		StartHour: 8,
		EndHour:   20,
		Location:  time.UTC,
	})
	s.now = func() time.Time { return time.Date(2025, 3, 10, hour, 15, 0, 0, time.UTC) }
	return s, notifier
}

func TestCheckAndSendReminders(t *testing.T) {
	s, notifier := newTestScheduler(9)
	s.checkAndSendReminders()
	assert.Equal(t, map[int64]int{1: 3}, notifier.sent)
}

func TestCheckAndSendReminders_OutsideHours(t *testing.T) {
	for _, hour := range []int{7, 21} {
		s, notifier := newTestScheduler(hour)
		s.checkAndSendReminders()
		assert.Empty(t, notifier.sent, "hour %d", hour)
	}
}

func TestCheckAndSendReminders_BoundaryHoursIncluded(t *testing.T) {
	for _, hour := range []int{8, 20} {
		s, notifier := newTestScheduler(hour)
		s.checkAndSendReminders()
		assert.Len(t, notifier.sent, 1, "hour %d", hour)
	}
}

func TestReload_LogsErrors(t *testing.T) {
	reloader := &countingReloader{err: fmt.Errorf("file missing")}
	s := New(reloader, Options{})
	s.reload()
	assert.Equal(t, 1, reloader.calls)
}

func TestStart_RegistersJobs(t *testing.T) {
	s, _ := newTestScheduler(9)
	require.NoError(t, s.Start())
	defer s.Stop()
	assert.Equal(t, 2, s.Jobs())

	plain := New(&countingReloader{}, Options{ReloadInterval: time.Minute})
	require.NoError(t, plain.Start())
	defer plain.Stop()
	assert.Equal(t, 1, plain.Jobs())
}

func TestNew_Defaults(t *testing.T) {
	s := New(&countingReloader{}, Options{})
	assert.Equal(t, time.Hour, s.opts.ReloadInterval)
	assert.Equal(t, DefaultNotificationStartHour, s.opts.StartHour)
	assert.Equal(t, DefaultNotificationEndHour, s.opts.EndHour)
}
