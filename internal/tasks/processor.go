package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/anup-shanbhag/TrelloQuora/internal/events"
)

const statsTTL = 90 * 24 * time.Hour

type archivePruner interface {
	RemoveOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// Processor handles entries of the events stream: activity events bump daily
// counters, maintenance events run housekeeping.
type Processor struct {
	stats     *redis.Client
	archive   archivePruner
	retention time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

// NewProcessor accepts a nil archive, in which case retention tasks are
// acknowledged and skipped.
func NewProcessor(stats *redis.Client, archive archivePruner, retention time.Duration, logger zerolog.Logger) *Processor {
	return &Processor{
		stats:     stats,
		archive:   archive,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	event, err := events.Decode(msg.Values)
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch event.Type {
	case events.TypeUserRegistered,
		events.TypeSignedIn,
		events.TypeSignedOut,
		events.TypeUserDeleted,
		events.TypeQuestionDeleted,
		events.TypeAnswerDeleted:
		return p.count(ctx, event)
	case events.TypeArchiveRetention:
		return p.pruneArchive(ctx)
	default:
		p.logger.Warn().Str("type", string(event.Type)).Str("message_id", msg.ID).Msg("unknown task type")
		return nil
	}
}

// StatsKey names the per-day counter hash.
func StatsKey(day time.Time) string {
	return "quora:stats:" + day.UTC().Format("2006-01-02")
}

func (p *Processor) count(ctx context.Context, event events.Event) error {
	at := event.OccurredAt
	if at.IsZero() {
		at = p.now()
	}
	key := StatsKey(at)

	pipe := p.stats.TxPipeline()
	pipe.HIncrBy(ctx, key, string(event.Type), 1)
	pipe.Expire(ctx, key, statsTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("increment %s: %w", key, err)
	}

	p.logger.Debug().
		Str("type", string(event.Type)).
		Str("user_id", event.UserID).
		Str("subject_id", event.SubjectID).
		Msg("event counted")
	return nil
}

func (p *Processor) pruneArchive(ctx context.Context) error {
	if p.archive == nil || p.retention <= 0 {
		p.logger.Info().Msg("archive retention disabled, skipping")
		return nil
	}

	cutoff := p.now().Add(-p.retention)
	removed, err := p.archive.RemoveOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune archive: %w", err)
	}

	p.logger.Info().
		Int("removed", removed).
		Time("cutoff", cutoff).
		Msg("archive retention complete")
	return nil
}
