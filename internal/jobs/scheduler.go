package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/anup-shanbhag/TrelloQuora/internal/events"
)

type publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Scheduler enqueues periodic maintenance tasks for the worker.
type Scheduler struct {
	cron     *cron.Cron
	queue    publisher
	schedule string
	log      zerolog.Logger
}

// NewScheduler takes a standard five-field cron spec or a descriptor such as
// "@daily". An empty schedule defaults to daily.
func NewScheduler(queue publisher, schedule string, log zerolog.Logger) *Scheduler {
	if schedule == "" {
		schedule = "@daily"
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		queue:    queue,
		schedule: schedule,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.EnqueueArchiveRetention); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("maintenance scheduler started")
	return nil
}

// Stop waits up to five seconds for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) EnqueueArchiveRetention() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.queue.Publish(ctx, events.Event{Type: events.TypeArchiveRetention}); err != nil {
		s.log.Error().Err(err).Msg("enqueue archive retention failed")
	}
}
