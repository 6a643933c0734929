// Package scheduler implements background job scheduling for the kudos
// engine worker. Jobs run on fixed intervals; the only consumer today is the
// leaderboard cache warm job.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/kudos-hub/kudos-engine/pkg/logger"
)

// Job defines the interface that all scheduled jobs must implement.
type Job interface {
	// Name returns the unique name of the job.
	Name() string

	// Run executes the job. The context is cancelled when the scheduler
	// stops.
	Run(ctx context.Context) error
}

type scheduledJob struct {
	job      Job
	interval time.Duration
}

// Scheduler runs registered jobs on their intervals.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []scheduledJob
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	log     *logger.Logger
}

// New creates a Scheduler.
func New(log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Default()
	}
	return &Scheduler{log: log.With(logger.Component("scheduler"))}
}

// Add registers a job to run every interval. The first run happens
// immediately on Start, so a fresh worker warms caches without waiting.
func (s *Scheduler) Add(job Job, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, scheduledJob{job: job, interval: interval})
}

// Start launches all registered jobs. Idempotent.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	ctx, s.cancel = context.WithCancel(ctx)

	for _, sj := range s.jobs {
		sj := sj
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runLoop(ctx, sj)
		}()
	}

	s.log.Info("scheduler started", logger.Int("jobs", len(s.jobs)))
}

func (s *Scheduler) runLoop(ctx context.Context, sj scheduledJob) {
	ticker := time.NewTicker(sj.interval)
	defer ticker.Stop()

	s.runOnce(ctx, sj.job)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, sj.job)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	started := time.Now()
	err := job.Run(ctx)
	elapsed := time.Since(started)

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Error("job failed",
			logger.String("job", job.Name()),
			logger.Latency(elapsed),
			logger.Err(err),
		)
		return
	}

	s.log.Info("job completed", logger.String("job", job.Name()), logger.Latency(elapsed))
}

// Stop cancels all jobs and waits for them to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.log.Info("scheduler stopped")
}
