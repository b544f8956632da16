package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/jsamuelsen/anime-digest/internal/domain"
)

// ErrRunInProgress is returned by RunNow when another run has not finished.
var ErrRunInProgress = errors.New("digest run already in progress")

// Job is one pipeline invocation.
type Job func(ctx context.Context) error

// Scheduler owns timing only: an immediate run and a cron cadence. At most one
// job runs at a time; a trigger that fires while a job is running is skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	metrics *Metrics

	running sync.Mutex

	mu      sync.Mutex
	baseCtx context.Context //nolint:containedctx // scheduled jobs inherit the Start context
}

// SchedulerConfig contains the scheduler's dependencies.
type SchedulerConfig struct {
	Logger  *slog.Logger
	Metrics *Metrics
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cl := cronLogger{logger: logger.With(slog.String("component", "scheduler"))}

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		logger:  logger,
		metrics: cfg.Metrics,
		baseCtx: context.Background(),
	}
}

// RunNow runs job synchronously. It returns ErrRunInProgress without running
// job when another run holds the slot.
func (s *Scheduler) RunNow(ctx context.Context, job Job) error {
	if !s.running.TryLock() {
		s.metrics.runFinished(RunResultSkipped)
		s.logger.WarnContext(ctx, "digest run skipped: previous run still in progress")

		return ErrRunInProgress
	}
	defer s.running.Unlock()

	return job(ctx)
}

// RunOnSchedule registers job on a standard five-field cron expression or a
// descriptor such as "@daily". Jobs fire only after Start.
func (s *Scheduler) RunOnSchedule(cronExpr string, job Job) error {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return domain.NewValidationErrorWithValue("schedule.cron", err.Error(), cronExpr)
	}

	s.cron.Schedule(schedule, cron.FuncJob(func() {
		ctx := s.context()

		if err := s.RunNow(ctx, job); err != nil && !errors.Is(err, ErrRunInProgress) {
			s.logger.ErrorContext(ctx, "scheduled digest run failed", slog.Any("error", err))
		}
	}))

	s.logger.Info("digest schedule registered", slog.String("cron", cronExpr))

	return nil
}

// Start begins firing scheduled jobs with ctx as their parent context.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	s.cron.Start()
}

// Stop stops the cron loop and returns a context that is done once any
// running scheduled job has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Entries reports how many schedules are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.baseCtx
}

// cronLogger adapts slog to cron.Logger. Cron's chatty info messages are
// emitted at debug.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}
