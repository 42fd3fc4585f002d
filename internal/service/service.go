package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/anup-shanbhag/TrelloQuora/internal/apperr"
	"github.com/anup-shanbhag/TrelloQuora/internal/events"
	"github.com/anup-shanbhag/TrelloQuora/internal/models"
)

// SessionAuthority is the slice of session.Authority the services rely on.
type SessionAuthority interface {
	Issue(ctx context.Context, user models.User) (models.Session, error)
	Resolve(ctx context.Context, token string) (models.User, error)
	Invalidate(ctx context.Context, token string) (models.User, error)
	ListActive(ctx context.Context, user models.User) ([]models.Session, error)
	Forget(ctx context.Context, user models.User)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUUID(ctx context.Context, uuid string) (models.User, error)
	FindByUserNameOrEmail(ctx context.Context, identifier string) (models.User, error)
	Delete(ctx context.Context, uuid string) error
}

type QuestionStore interface {
	Create(ctx context.Context, question *models.Question) error
	GetByUUID(ctx context.Context, uuid string) (models.Question, error)
	List(ctx context.Context) ([]models.Question, error)
	ListByUser(ctx context.Context, userUUID string) ([]models.Question, error)
	UpdateContent(ctx context.Context, uuid string, content string) error
	Delete(ctx context.Context, uuid string) error
}

type AnswerStore interface {
	Create(ctx context.Context, answer *models.Answer) error
	GetByUUID(ctx context.Context, uuid string) (models.Answer, error)
	ListByQuestion(ctx context.Context, questionUUID string) ([]models.Answer, error)
	ListByUser(ctx context.Context, userUUID string) ([]models.Answer, error)
	UpdateContent(ctx context.Context, uuid string, content string) error
	Delete(ctx context.Context, uuid string) error
}

// resolve runs the session gate and re-codes an expired session with the
// operation's own message.
func resolve(ctx context.Context, sessions SessionAuthority, token string, signedOut apperr.Condition) (models.User, error) {
	user, err := sessions.Resolve(ctx, token)
	if err != nil {
		return models.User{}, apperr.Recode(err, signedOut)
	}
	return user, nil
}

type notifier struct {
	events EventPublisher
	log    zerolog.Logger
}

func (n notifier) publish(ctx context.Context, typ events.Type, actor models.User, subjectID string) {
	if n.events == nil {
		return
	}
	event := events.Event{
		Type:       typ,
		UserID:     actor.UUID,
		SubjectID:  subjectID,
		OccurredAt: time.Now().UTC(),
	}
	if err := n.events.Publish(ctx, event); err != nil {
		n.log.Warn().Err(err).Str("event", string(typ)).Msg("publish event failed")
	}
}
