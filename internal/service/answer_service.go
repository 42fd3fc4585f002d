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

type AnswerService struct {
	answers   AnswerStore
	questions QuestionStore
	sessions  SessionAuthority
	notify    notifier
	now       func() time.Time
	log       zerolog.Logger
}

func NewAnswerService(answers AnswerStore, questions QuestionStore, sessions SessionAuthority, publisher EventPublisher, log zerolog.Logger) *AnswerService {
	return &AnswerService{
		answers:   answers,
		questions: questions,
		sessions:  sessions,
		notify:    notifier{events: publisher, log: log},
		now:       time.Now,
		log:       log,
	}
}

// Create posts an answer on questionUUID.
func (s *AnswerService) Create(ctx context.Context, token string, questionUUID string, content string) (models.Answer, error) {
	user, err := resolve(ctx, s.sessions, token, apperr.AnswerCreateSignedOut)
	if err != nil {
		return models.Answer{}, err
	}

	question, err := s.question(ctx, questionUUID, apperr.AnswerCreateQuestionInvalid)
	if err != nil {
		return models.Answer{}, err
	}

	answer := models.Answer{
		UUID:     ids.NewExternal(),
		Content:  content,
		Date:     s.now().UTC(),
		User:     user,
		Question: question,
	}
	if err := s.answers.Create(ctx, &answer); err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return models.Answer{}, apperr.New(apperr.AnswerCreateQuestionInvalid)
		}
		return models.Answer{}, apperr.Unexpected(fmt.Errorf("create answer: %w", err))
	}
	return answer, nil
}

// Edit is owner-only.
func (s *AnswerService) Edit(ctx context.Context, token string, answerUUID string, content string) (models.Answer, error) {
	user, err := resolve(ctx, s.sessions, token, apperr.AnswerEditSignedOut)
	if err != nil {
		return models.Answer{}, err
	}

	answer, err := s.load(ctx, answerUUID)
	if err != nil {
		return models.Answer{}, err
	}

	if decision := policy.CanEdit(user, answer.User); !decision.Allowed {
		return models.Answer{}, apperr.New(apperr.AnswerEditUnauthorized)
	}

	if err := s.answers.UpdateContent(ctx, answer.UUID, content); err != nil {
		return models.Answer{}, s.storeErr(err)
	}
	answer.Content = content
	return answer, nil
}

// Delete is allowed for the answer owner or an admin.
func (s *AnswerService) Delete(ctx context.Context, token string, answerUUID string) (models.Answer, error) {
	user, err := resolve(ctx, s.sessions, token, apperr.AnswerDeleteSignedOut)
	if err != nil {
		return models.Answer{}, err
	}

	answer, err := s.load(ctx, answerUUID)
	if err != nil {
		return models.Answer{}, err
	}

	decision := policy.CanDelete(user, answer.User)
	if !decision.Allowed {
		return models.Answer{}, apperr.New(apperr.AnswerDeleteUnauthorized)
	}

	if err := s.answers.Delete(ctx, answer.UUID); err != nil {
		return models.Answer{}, s.storeErr(err)
	}

	s.log.Info().
		Str("answer_id", answer.UUID).
		Str("user_id", user.UUID).
		Str("reason", decision.Reason).
		Msg("answer deleted")
	s.notify.publish(ctx, events.TypeAnswerDeleted, user, answer.UUID)
	return answer, nil
}

func (s *AnswerService) ByQuestion(ctx context.Context, token string, questionUUID string) ([]models.Answer, error) {
	if _, err := resolve(ctx, s.sessions, token, apperr.AnswerGetSignedOut); err != nil {
		return nil, err
	}

	question, err := s.question(ctx, questionUUID, apperr.AnswerGetQuestionNotFound)
	if err != nil {
		return nil, err
	}

	answers, err := s.answers.ListByQuestion(ctx, question.UUID)
	if err != nil {
		return nil, apperr.Unexpected(fmt.Errorf("list answers: %w", err))
	}
	return answers, nil
}

func (s *AnswerService) question(ctx context.Context, questionUUID string, missing apperr.Condition) (models.Question, error) {
	question, err := s.questions.GetByUUID(ctx, questionUUID)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return models.Question{}, apperr.New(missing)
		}
		return models.Question{}, apperr.Unexpected(fmt.Errorf("get question: %w", err))
	}
	return question, nil
}

func (s *AnswerService) load(ctx context.Context, answerUUID string) (models.Answer, error) {
	answer, err := s.answers.GetByUUID(ctx, answerUUID)
	if err != nil {
		return models.Answer{}, s.storeErr(err)
	}
	return answer, nil
}

func (s *AnswerService) storeErr(err error) error {
	if errors.Is(err, repository.ErrAnswerNotFound) {
		return apperr.New(apperr.AnswerNotFound)
	}
	return apperr.Unexpected(err)
}
