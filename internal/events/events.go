// Package events publishes domain events to a redis stream consumed by the
// worker. Publishing is best effort: callers log failures and carry on.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultStream = "quora:events"

type Type string

const (
	TypeUserRegistered   Type = "user_registered"
	TypeSignedIn         Type = "signed_in"
	TypeSignedOut        Type = "signed_out"
	TypeUserDeleted      Type = "user_deleted"
	TypeQuestionDeleted  Type = "question_deleted"
	TypeAnswerDeleted    Type = "answer_deleted"
	TypeArchiveRetention Type = "archive_retention"
)

type Event struct {
	Type Type
	// UserID is the acting user's external id, if any.
	UserID string
	// SubjectID identifies the affected resource (question, answer, user).
	SubjectID  string
	OccurredAt time.Time
}

func (e Event) values() map[string]any {
	values := map[string]any{
		"type": string(e.Type),
		"at":   e.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
	if e.UserID != "" {
		values["user_id"] = e.UserID
	}
	if e.SubjectID != "" {
		values["subject_id"] = e.SubjectID
	}
	return values
}

// Decode rebuilds an event from stream entry values.
func Decode(values map[string]any) (Event, error) {
	typ, _ := values["type"].(string)
	if typ == "" {
		return Event{}, errors.New("event type missing")
	}

	event := Event{Type: Type(typ)}
	event.UserID, _ = values["user_id"].(string)
	event.SubjectID, _ = values["subject_id"].(string)

	if at, _ := values["at"].(string); at != "" {
		parsed, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return Event{}, fmt.Errorf("parse event time: %w", err)
		}
		event.OccurredAt = parsed
	}
	return event, nil
}

type Publisher struct {
	client *redis.Client
	stream string
	now    func() time.Time
}

func NewPublisher(client *redis.Client, stream string) *Publisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &Publisher{client: client, stream: stream, now: time.Now}
}

// Publish appends the event to the stream. A nil publisher or client is a no-op.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if p == nil || p.client == nil {
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now()
	}

	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: event.values(),
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}
