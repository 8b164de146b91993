package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher reloads every forecast on the dashboard.
type Refresher interface {
	RefreshAll(ctx context.Context)
}

// Scheduler periodically refreshes the dashboard forecasts.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Refresher
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler. A non-positive interval disables it.
func New(target Refresher, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		target:    target,
		interval:  interval,
		timeout:   timeout,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start schedules the refresh job and starts the underlying scheduler. The
// first run happens one interval from now; Init has already loaded
// everything.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("auto-refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("auto-refresh scheduled", "interval", s.interval)
	return nil
}

func (s *Scheduler) run() {
	s.logger.Info("running forecast refresh")
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.target.RefreshAll(ctx)
	s.logger.Info("forecast refresh completed", "duration", time.Since(start))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
