package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Publisher is the reporting job run on schedule.
type Publisher interface {
	Publish(ctx context.Context) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	publisher Publisher
	spec      string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewScheduler creates a scheduler that publishes the monthly summary on the
// standard five-field cron spec, evaluated in loc.
func NewScheduler(spec string, loc *time.Location, publisher Publisher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		publisher: publisher,
		spec:      spec,
		timeout:   2 * time.Minute,
		logger:    logger,
	}
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.publishSummary); err != nil {
		return fmt.Errorf("schedule monthly summary %q: %w", s.spec, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.spec))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) publishSummary() {
	s.logger.Info("publishing monthly summary")
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.publisher.Publish(ctx); err != nil {
		s.logger.Error("failed to publish monthly summary", zap.Error(err))
		return
	}
	s.logger.Info("monthly summary published")
}
