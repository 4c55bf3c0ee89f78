package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingReminders struct {
	calls atomic.Int32
	err   error
}

func (c *countingReminders) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestReminderWorker_RunsUntilCancelled(t *testing.T) {
	reminders := &countingReminders{}
	w := NewReminderWorker(reminders, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return reminders.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}

func TestReminderWorker_SurvivesErrors(t *testing.T) {
	reminders := &countingReminders{err: errors.New("db down")}
	w := NewReminderWorker(reminders, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	assert.Eventually(t, func() bool { return reminders.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestNewReminderWorker_DefaultInterval(t *testing.T) {
	w := NewReminderWorker(&countingReminders{}, 0, zap.NewNop())
	assert.Equal(t, time.Minute, w.interval)
}
