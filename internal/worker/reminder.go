package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"devtracker/internal/service"
)

// ReminderWorker polls for due appointment reminders on a fixed interval.
type ReminderWorker struct {
	reminders service.ReminderService
	interval  time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewReminderWorker(reminders service.ReminderService, interval time.Duration, logger *zap.Logger) *ReminderWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReminderWorker{
		reminders: reminders,
		interval:  interval,
		now:       time.Now,
		logger:    logger,
	}
}

// Run processes once immediately and then on every tick until ctx is done.
func (w *ReminderWorker) Run(ctx context.Context) {
	w.logger.Info("reminder worker started", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ReminderWorker) tick(ctx context.Context) {
	started := time.Now()

	sent, err := w.reminders.ProcessDue(ctx, w.now())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("reminder processing failed", zap.Int("sent", sent), zap.Error(err))
		return
	}

	if sent > 0 {
		w.logger.Info("reminders processed", zap.Int("sent", sent), zap.Duration("duration", time.Since(started)))
	}
}
