package service

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/anup-shanbhag/TrelloQuora/internal/apperr"
	"github.com/anup-shanbhag/TrelloQuora/internal/events"
	"github.com/anup-shanbhag/TrelloQuora/internal/models"
	"github.com/anup-shanbhag/TrelloQuora/internal/repository/memstore"
	"github.com/anup-shanbhag/TrelloQuora/internal/security"
	"github.com/anup-shanbhag/TrelloQuora/internal/session"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type archiveSink struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (a *archiveSink) PutArchive(_ context.Context, key string, body []byte) error {
	if a.err != nil {
		return a.err
	}
	a.keys = append(a.keys, key)
	a.bodies = append(a.bodies, body)
	return nil
}

type fixture struct {
	store     *memstore.Store
	now       time.Time
	events    *recordingPublisher
	archive   *archiveSink
	users     *UserService
	questions *QuestionService
	answers   *AnswerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:   memstore.New(),
		now:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		events:  &recordingPublisher{},
		archive: &archiveSink{},
	}

	tokens, err := security.NewTokenIssuer("test-secret")
	require.NoError(t, err)
	authority := session.NewAuthority(f.store.Sessions(), tokens, zerolog.Nop(),
		session.WithClock(func() time.Time { return f.now }))

	hasher := security.NewPasswordHasherWithParams(security.Argon2Params{
		Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8,
	})
	archiver := NewArchiver(f.archive, f.store.Questions(), f.store.Answers())

	f.users = NewUserService(f.store.Users(), authority, hasher, archiver, f.events, zerolog.Nop())
	f.questions = NewQuestionService(f.store.Questions(), f.store.Users(), authority, f.events, zerolog.Nop())
	f.answers = NewAnswerService(f.store.Answers(), f.store.Questions(), authority, f.events, zerolog.Nop())
	return f
}

func signupInput(name string) SignupInput {
	return SignupInput{
		FirstName: name,
		LastName:  "Tester",
		UserName:  name,
		Email:     name + "@example.com",
		Password:  "pw-" + name,
		Country:   "IN",
	}
}

func envelope(identifier string, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(identifier + " " + password))
}

func (f *fixture) signup(t *testing.T, name string) models.User {
	t.Helper()
	user, err := f.users.Signup(context.Background(), signupInput(name))
	require.NoError(t, err)
	return user
}

func (f *fixture) admin(t *testing.T, name string) models.User {
	t.Helper()
	user, created, err := f.users.EnsureAdmin(context.Background(), signupInput(name))
	require.NoError(t, err)
	require.True(t, created)
	return user
}

func (f *fixture) signin(t *testing.T, name string) string {
	t.Helper()
	s, err := f.users.Signin(context.Background(), envelope(name, "pw-"+name))
	require.NoError(t, err)
	return s.AccessToken
}

func requireCondition(t *testing.T, err error, cond apperr.Condition) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %T: %v", err, err)
	require.Equal(t, cond.Kind, appErr.Kind)
	require.Equal(t, cond.Code, appErr.Code)
	require.Equal(t, cond.Message, appErr.Message)
}

var errArchiveDown = errors.New("bucket unavailable")
