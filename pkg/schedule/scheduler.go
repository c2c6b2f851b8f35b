package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Off disables a job when used as its schedule.
const Off = "off"

// Job is work run on a schedule. The returned count is logged.
type Job func(ctx context.Context) (int, error)

// Scheduler runs named jobs on cron schedules, such as refreshing the
// nickname rules and pruning expired cache entries.
type Scheduler struct {
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	jobs    map[string]cron.EntryID
	running bool
}

// New creates an empty scheduler.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(),
		logger: logger.With("component", "scheduler"),
		jobs:   make(map[string]cron.EntryID),
	}
}

// Add registers job under name with a standard cron expression or a
// descriptor such as "@every 1h". A schedule of "off" or "" registers
// nothing.
//
// Common expressions:
//   - "@every 30m" - every 30 minutes
//   - "0 3 * * *"  - daily at 3 AM
//   - "@hourly"    - at the top of every hour
func (s *Scheduler) Add(ctx context.Context, name, spec string, job Job) error {
	if spec == "" || spec == Off {
		s.logger.Info("job disabled", "job", name)
		return nil
	}

	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q for %s: %w", spec, name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already scheduled", name)
	}

	id, err := s.cron.AddFunc(spec, func() {
		s.run(ctx, name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	s.jobs[name] = id

	s.logger.Info("job scheduled", "job", name, "schedule", spec)
	return nil
}

// Start begins running jobs. The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started", "jobs", len(s.jobs))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// RunNow runs the named job immediately, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	id, ok := s.jobs[name]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("job %q not scheduled", name)
	}
	s.cron.Entry(id).Job.Run()
	return nil
}

func (s *Scheduler) run(ctx context.Context, name string, job Job) {
	start := time.Now()
	s.logger.Debug("job starting", "job", name)

	n, err := job(ctx)
	if err != nil {
		s.logger.Error("scheduled job failed", "job", name, "error", err)
		return
	}

	s.logger.Info("scheduled job completed",
		"job", name,
		"affected", n,
		"duration", time.Since(start),
	)
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		done := s.cron.Stop()
		<-done.Done()
		s.running = false
		s.logger.Info("scheduler stopped")
	}
}

// IsRunning reports whether the scheduler has been started and not
// stopped.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// Jobs returns the number of scheduled jobs.
func (s *Scheduler) Jobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.jobs)
}

// NextRun returns the next run time of the named job.
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.jobs[name]
	s.mu.Unlock()

	if !ok {
		return time.Time{}, false
	}
	next := s.cron.Entry(id).Next
	return next, !next.IsZero()
}
