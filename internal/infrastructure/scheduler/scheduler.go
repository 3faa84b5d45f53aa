package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of background work run by the scheduler.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type jobFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (j jobFunc) Name() string                  { return j.name }
func (j jobFunc) Run(ctx context.Context) error { return j.fn(ctx) }

// NewJobFunc wraps a plain function as a Job.
func NewJobFunc(name string, fn func(ctx context.Context) error) Job {
	return jobFunc{name: name, fn: fn}
}

// Config holds scheduler configuration
type Config struct {
	Enabled           bool
	MaxConcurrentJobs int
	JobTimeout        time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		MaxConcurrentJobs: 3,
		JobTimeout:        5 * time.Minute,
	}
}

type intervalEntry struct {
	interval time.Duration
	job      Job
}

// Scheduler runs registered jobs on fixed intervals or cron schedules.
// Concurrency across all jobs is capped by MaxConcurrentJobs; a tick that
// fires while the job's previous run is still executing is skipped.
type Scheduler struct {
	config Config
	logger *zap.Logger

	intervals []intervalEntry
	cron      *cron.Cron

	sem       chan struct{}
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// New creates a new scheduler instance
func New(config Config, logger *zap.Logger) *Scheduler {
	if config.MaxConcurrentJobs <= 0 {
		config.MaxConcurrentJobs = 1
	}
	return &Scheduler{
		config: config,
		logger: logger,
		cron:   cron.New(),
		sem:    make(chan struct{}, config.MaxConcurrentJobs),
	}
}

// Every registers a job to run on a fixed interval. Must be called before Start.
func (s *Scheduler) Every(interval time.Duration, job Job) {
	s.intervals = append(s.intervals, intervalEntry{interval: interval, job: job})
}

// Cron registers a job on a cron schedule (standard 5-field spec).
// Must be called before Start.
func (s *Scheduler) Cron(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.mu.Lock()
		running := s.isRunning
		s.mu.Unlock()
		if !running {
			return
		}
		s.runJob(context.Background(), job)
	})
	if err != nil {
		return ErrInvalidCronSpec
	}
	return nil
}

// Start starts the scheduler loops. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, entry := range s.intervals {
		s.wg.Add(1)
		go s.tickLoop(ctx, entry)
	}
	s.cron.Start()

	s.logger.Info("Scheduler started",
		zap.Int("interval_jobs", len(s.intervals)),
		zap.Int("max_concurrent", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler, waiting for in-flight jobs
// until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	cronCtx := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		<-cronCtx.Done()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// RunNow executes a registered-style job immediately, subject to the
// concurrency cap and job timeout.
func (s *Scheduler) RunNow(ctx context.Context, job Job) {
	s.runJob(ctx, job)
}

func (s *Scheduler) tickLoop(ctx context.Context, entry intervalEntry) {
	defer s.wg.Done()

	ticker := time.NewTicker(entry.interval)
	defer ticker.Stop()

	s.logger.Debug("Job loop started",
		zap.String("job", entry.job.Name()),
		zap.Duration("interval", entry.interval),
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runJob(ctx, entry.job)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	select {
	case s.sem <- struct{}{}:
	default:
		s.logger.Warn("Job skipped, concurrency limit reached",
			zap.String("job", job.Name()),
		)
		return
	}
	defer func() { <-s.sem }()

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	start := time.Now()
	err := job.Run(jobCtx)
	elapsed := time.Since(start)

	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", job.Name()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Job completed",
		zap.String("job", job.Name()),
		zap.Duration("elapsed", elapsed),
	)
}
