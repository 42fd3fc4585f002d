package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/anup-shanbhag/TrelloQuora/internal/apperr"
	"github.com/anup-shanbhag/TrelloQuora/internal/events"
	"github.com/anup-shanbhag/TrelloQuora/internal/ids"
	"github.com/anup-shanbhag/TrelloQuora/internal/models"
	"github.com/anup-shanbhag/TrelloQuora/internal/policy"
	"github.com/anup-shanbhag/TrelloQuora/internal/repository"
)

type QuestionService struct {
	questions QuestionStore
	users     UserStore
	sessions  SessionAuthority
	notify    notifier
	now       func() time.Time
	log       zerolog.Logger
}

func NewQuestionService(questions QuestionStore, users UserStore, sessions SessionAuthority, publisher EventPublisher, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questions: questions,
		users:     users,
		sessions:  sessions,
		notify:    notifier{events: publisher, log: log},
		now:       time.Now,
		log:       log,
	}
}

func (s *QuestionService) Create(ctx context.Context, token string, content string) (models.Question, error) {
	user, err := resolve(ctx, s.sessions, token, apperr.QuestionCreateSignedOut)
	if err != nil {
		return models.Question{}, err
	}

	question := models.Question{
		UUID:    ids.NewExternal(),
		Content: content,
		Date:    s.now().UTC(),
		User:    user,
	}
	if err := s.questions.Create(ctx, &question); err != nil {
		return models.Question{}, apperr.Unexpected(fmt.Errorf("create question: %w", err))
	}
	return question, nil
}

func (s *QuestionService) All(ctx context.Context, token string) ([]models.Question, error) {
	if _, err := resolve(ctx, s.sessions, token, apperr.QuestionGetAllSignedOut); err != nil {
		return nil, err
	}

	questions, err := s.questions.List(ctx)
	if err != nil {
		return nil, apperr.Unexpected(fmt.Errorf("list questions: %w", err))
	}
	return questions, nil
}

// Edit replaces the content of a question. Only its owner may do so.
func (s *QuestionService) Edit(ctx context.Context, token string, questionUUID string, content string) (models.Question, error) {
	user, err := resolve(ctx, s.sessions, token, apperr.QuestionEditSignedOut)
	if err != nil {
		return models.Question{}, err
	}

	question, err := s.load(ctx, questionUUID)
	if err != nil {
		return models.Question{}, err
	}

	if decision := policy.CanEdit(user, question.User); !decision.Allowed {
		return models.Question{}, apperr.New(apperr.QuestionEditUnauthorized)
	}

	if err := s.questions.UpdateContent(ctx, question.UUID, content); err != nil {
		return models.Question{}, s.storeErr(err)
	}
	question.Content = content
	return question, nil
}

// Delete removes a question and its answers. The owner or an admin may do so.
func (s *QuestionService) Delete(ctx context.Context, token string, questionUUID string) (models.Question, error) {
	user, err := resolve(ctx, s.sessions, token, apperr.QuestionDeleteSignedOut)
	if err != nil {
		return models.Question{}, err
	}

	question, err := s.load(ctx, questionUUID)
	if err != nil {
		return models.Question{}, err
	}

	decision := policy.CanDelete(user, question.User)
	if !decision.Allowed {
		return models.Question{}, apperr.New(apperr.QuestionDeleteUnauthorized)
	}

	if err := s.questions.Delete(ctx, question.UUID); err != nil {
		return models.Question{}, s.storeErr(err)
	}

	s.log.Info().
		Str("question_id", question.UUID).
		Str("user_id", user.UUID).
		Str("reason", decision.Reason).
		Msg("question deleted")
	s.notify.publish(ctx, events.TypeQuestionDeleted, user, question.UUID)
	return question, nil
}

// ByUser lists the questions posted by userUUID.
func (s *QuestionService) ByUser(ctx context.Context, token string, userUUID string) ([]models.Question, error) {
	if _, err := resolve(ctx, s.sessions, token, apperr.QuestionByUserSignedOut); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByUUID(ctx, userUUID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.New(apperr.QuestionByUserNotFound)
		}
		return nil, apperr.Unexpected(fmt.Errorf("get user: %w", err))
	}

	questions, err := s.questions.ListByUser(ctx, userUUID)
	if err != nil {
		return nil, apperr.Unexpected(fmt.Errorf("list questions: %w", err))
	}
	return questions, nil
}

func (s *QuestionService) load(ctx context.Context, questionUUID string) (models.Question, error) {
	question, err := s.questions.GetByUUID(ctx, questionUUID)
	if err != nil {
		return models.Question{}, s.storeErr(err)
	}
	return question, nil
}

func (s *QuestionService) storeErr(err error) error {
	if errors.Is(err, repository.ErrQuestionNotFound) {
		return apperr.New(apperr.QuestionNotFound)
	}
	return apperr.Unexpected(err)
}
