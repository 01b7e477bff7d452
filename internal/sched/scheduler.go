// Package sched provides cron-based scheduling for recurring maintenance
// jobs. It uses the robfig/cron/v3 library. Jobs are registered as typed
// descriptors into a job table; the scheduler owns their lifecycle and logs
// outcomes without branching on them.
package sched

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nesta38/NBCM/internal/logger"
)

// Handler is the unit of scheduled work. The context is cancelled when the
// scheduler stops.
type Handler func(ctx context.Context)

// JobDescriptor declares one recurring job.
type JobDescriptor struct {
	Name           string
	CronExpression string // standard 5-field expression (e.g. "0 3 * * *")
	Handler        Handler
}

// Scheduler manages the cron job table.
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
	parser cron.Parser

	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.RWMutex

	entries map[string]cron.EntryID
}

// NewScheduler creates a scheduler with an empty job table.
func NewScheduler(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		logger:  log,
		parser:  cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		entries: make(map[string]cron.EntryID),
	}
}

// Register adds a job to the table. The cron expression is validated here,
// so a malformed schedule is caught at startup rather than at first fire.
func (s *Scheduler) Register(desc JobDescriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if desc.Name == "" {
		return fmt.Errorf("job name is required")
	}
	if desc.Handler == nil {
		return fmt.Errorf("job %s: handler is required", desc.Name)
	}
	if _, exists := s.entries[desc.Name]; exists {
		return fmt.Errorf("job %s: already registered", desc.Name)
	}
	if _, err := s.parser.Parse(desc.CronExpression); err != nil {
		return fmt.Errorf("job %s: invalid cron expression: %w", desc.Name, err)
	}

	entryID, err := s.cron.AddFunc(desc.CronExpression, func() {
		s.execute(desc)
	})
	if err != nil {
		return fmt.Errorf("job %s: invalid cron expression: %w", desc.Name, err)
	}
	s.entries[desc.Name] = entryID

	s.logger.Info("job registered",
		logger.Field{Key: "job", Value: desc.Name},
		logger.Field{Key: "schedule", Value: desc.CronExpression})
	return nil
}

// Start begins firing registered jobs. It returns immediately; the cron
// machinery runs on its own goroutine until the context is cancelled or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	s.cron.Start()
	s.logger.Info("scheduler started",
		logger.Field{Key: "jobs", Value: len(s.entries)})

	go func() {
		<-s.ctx.Done()
		s.cron.Stop()
		s.logger.Info("scheduler stopped")
	}()

	return nil
}

// Stop stops the scheduler gracefully.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return fmt.Errorf("scheduler not started")
	}

	s.cancel()
	s.started = false
	return nil
}

// IsStarted returns true if the scheduler is running.
func (s *Scheduler) IsStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Jobs returns the names of all registered jobs.
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

// execute runs one job with panic recovery and outcome logging.
func (s *Scheduler) execute(desc JobDescriptor) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panic recovered", fmt.Errorf("panic: %v", r),
				logger.Field{Key: "job", Value: desc.Name})
		}
	}()

	start := time.Now()
	s.logger.Info("job fired", logger.Field{Key: "job", Value: desc.Name})

	desc.Handler(s.ctx)

	s.logger.Info("job finished",
		logger.Field{Key: "job", Value: desc.Name},
		logger.Field{Key: "duration_ms", Value: time.Since(start).Milliseconds()})
}
