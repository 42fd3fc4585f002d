// Package memstore keeps users, sessions, questions and answers in process
// memory. It backs the "memory" store driver for local runs and the service
// tests; it is not meant for multi-instance deployments.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/anup-shanbhag/TrelloQuora/internal/models"
	"github.com/anup-shanbhag/TrelloQuora/internal/repository"
)

type Store struct {
	mu        sync.RWMutex
	nextID    int64
	users     map[string]models.User
	sessions  map[string]models.Session
	questions map[string]models.Question
	answers   map[string]models.Answer
}

func New() *Store {
	return &Store{
		users:     make(map[string]models.User),
		sessions:  make(map[string]models.Session),
		questions: make(map[string]models.Question),
		answers:   make(map[string]models.Answer),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Users() *UserStore         { return &UserStore{s} }
func (s *Store) Sessions() *SessionStore   { return &SessionStore{s} }
func (s *Store) Questions() *QuestionStore { return &QuestionStore{s} }
func (s *Store) Answers() *AnswerStore     { return &AnswerStore{s} }

type UserStore struct{ s *Store }

func (r *UserStore) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.UserName == user.UserName {
			return repository.ErrDuplicateUserName
		}
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = r.s.id()
	r.s.users[user.UUID] = *user
	return nil
}

func (r *UserStore) GetByUUID(_ context.Context, uuid string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[uuid]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (r *UserStore) FindByUserNameOrEmail(_ context.Context, identifier string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.UserName == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

// Delete mirrors the ON DELETE CASCADE rules of the SQL schema.
func (r *UserStore) Delete(_ context.Context, uuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[uuid]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.s.users, uuid)

	for token, session := range r.s.sessions {
		if session.User.UUID == uuid {
			delete(r.s.sessions, token)
		}
	}
	for id, question := range r.s.questions {
		if question.User.UUID == uuid {
			r.s.deleteQuestionLocked(id)
		}
	}
	for id, answer := range r.s.answers {
		if answer.User.UUID == uuid {
			delete(r.s.answers, id)
		}
	}
	return nil
}

type SessionStore struct{ s *Store }

func (r *SessionStore) Create(_ context.Context, session *models.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[session.User.UUID]; !ok {
		return repository.ErrUserNotFound
	}
	session.ID = r.s.id()
	r.s.sessions[session.AccessToken] = *session
	return nil
}

func (r *SessionStore) FindByToken(_ context.Context, token string) (models.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	session, ok := r.s.sessions[token]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (r *SessionStore) Update(_ context.Context, session models.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for token, existing := range r.s.sessions {
		if existing.UUID == session.UUID {
			existing.ExpiresAt = session.ExpiresAt
			existing.LogoutAt = session.LogoutAt
			r.s.sessions[token] = existing
			return nil
		}
	}
	return repository.ErrSessionNotFound
}

func (r *SessionStore) ListByUser(_ context.Context, userUUID string) ([]models.Session, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sessions := make([]models.Session, 0)
	for _, session := range r.s.sessions {
		if session.User.UUID == userUUID {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].LoginAt.Equal(sessions[j].LoginAt) {
			return sessions[i].ID > sessions[j].ID
		}
		return sessions[i].LoginAt.After(sessions[j].LoginAt)
	})
	return sessions, nil
}

type QuestionStore struct{ s *Store }

func (r *QuestionStore) Create(_ context.Context, question *models.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[question.User.UUID]; !ok {
		return repository.ErrUserNotFound
	}
	question.ID = r.s.id()
	r.s.questions[question.UUID] = *question
	return nil
}

func (r *QuestionStore) GetByUUID(_ context.Context, uuid string) (models.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	question, ok := r.s.questions[uuid]
	if !ok {
		return models.Question{}, repository.ErrQuestionNotFound
	}
	return question, nil
}

func (r *QuestionStore) List(_ context.Context) ([]models.Question, error) {
	return r.filter(func(models.Question) bool { return true }), nil
}

func (r *QuestionStore) ListByUser(_ context.Context, userUUID string) ([]models.Question, error) {
	return r.filter(func(q models.Question) bool { return q.User.UUID == userUUID }), nil
}

func (r *QuestionStore) filter(keep func(models.Question) bool) []models.Question {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	questions := make([]models.Question, 0)
	for _, question := range r.s.questions {
		if keep(question) {
			questions = append(questions, question)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions
}

func (r *QuestionStore) UpdateContent(_ context.Context, uuid string, content string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	question, ok := r.s.questions[uuid]
	if !ok {
		return repository.ErrQuestionNotFound
	}
	question.Content = content
	r.s.questions[uuid] = question
	return nil
}

func (r *QuestionStore) Delete(_ context.Context, uuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.questions[uuid]; !ok {
		return repository.ErrQuestionNotFound
	}
	r.s.deleteQuestionLocked(uuid)
	return nil
}

func (s *Store) deleteQuestionLocked(uuid string) {
	delete(s.questions, uuid)
	for id, answer := range s.answers {
		if answer.Question.UUID == uuid {
			delete(s.answers, id)
		}
	}
}

type AnswerStore struct{ s *Store }

func (r *AnswerStore) Create(_ context.Context, answer *models.Answer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.questions[answer.Question.UUID]; !ok {
		return repository.ErrQuestionNotFound
	}
	answer.ID = r.s.id()
	r.s.answers[answer.UUID] = *answer
	return nil
}

func (r *AnswerStore) GetByUUID(_ context.Context, uuid string) (models.Answer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	answer, ok := r.s.answers[uuid]
	if !ok {
		return models.Answer{}, repository.ErrAnswerNotFound
	}
	return r.s.withQuestion(answer), nil
}

// withQuestion refreshes the embedded question so edits show up the same way
// they do through the SQL join.
func (s *Store) withQuestion(answer models.Answer) models.Answer {
	if question, ok := s.questions[answer.Question.UUID]; ok {
		answer.Question = question
	}
	return answer
}

func (r *AnswerStore) ListByQuestion(_ context.Context, questionUUID string) ([]models.Answer, error) {
	return r.filter(func(a models.Answer) bool { return a.Question.UUID == questionUUID }), nil
}

func (r *AnswerStore) ListByUser(_ context.Context, userUUID string) ([]models.Answer, error) {
	return r.filter(func(a models.Answer) bool { return a.User.UUID == userUUID }), nil
}

func (r *AnswerStore) filter(keep func(models.Answer) bool) []models.Answer {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	answers := make([]models.Answer, 0)
	for _, answer := range r.s.answers {
		if keep(answer) {
			answers = append(answers, r.s.withQuestion(answer))
		}
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].ID < answers[j].ID })
	return answers
}

func (r *AnswerStore) UpdateContent(_ context.Context, uuid string, content string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	answer, ok := r.s.answers[uuid]
	if !ok {
		return repository.ErrAnswerNotFound
	}
	answer.Content = content
	r.s.answers[uuid] = answer
	return nil
}

func (r *AnswerStore) Delete(_ context.Context, uuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.answers[uuid]; !ok {
		return repository.ErrAnswerNotFound
	}
	delete(r.s.answers, uuid)
	return nil
}
