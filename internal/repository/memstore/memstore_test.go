package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anup-shanbhag/TrelloQuora/internal/models"
	"github.com/anup-shanbhag/TrelloQuora/internal/repository"
)

func seedUser(t *testing.T, s *Store, uuid, name string) models.User {
	t.Helper()
	u := models.User{UUID: uuid, UserName: name, Email: name + "@example.com"}
	require.NoError(t, s.Users().Create(context.Background(), &u))
	return u
}

func TestUserUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedUser(t, s, "u1", "alice")

	dupName := models.User{UUID: "u2", UserName: "alice", Email: "other@example.com"}
	assert.ErrorIs(t, s.Users().Create(ctx, &dupName), repository.ErrDuplicateUserName)

	dupEmail := models.User{UUID: "u3", UserName: "bob", Email: "alice@example.com"}
	assert.ErrorIs(t, s.Users().Create(ctx, &dupEmail), repository.ErrDuplicateEmail)

	found, err := s.Users().FindByUserNameOrEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.UUID)

	_, err = s.Users().GetByUUID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice := seedUser(t, s, "u1", "alice")
	bob := seedUser(t, s, "u2", "bob")

	session := models.Session{UUID: "s1", User: alice, AccessToken: "t1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, s.Sessions().Create(ctx, &session))

	aliceQ := models.Question{UUID: "q1", User: alice}
	bobQ := models.Question{UUID: "q2", User: bob}
	require.NoError(t, s.Questions().Create(ctx, &aliceQ))
	require.NoError(t, s.Questions().Create(ctx, &bobQ))

	bobOnAlice := models.Answer{UUID: "a1", User: bob, Question: aliceQ}
	aliceOnBob := models.Answer{UUID: "a2", User: alice, Question: bobQ}
	bobOnBob := models.Answer{UUID: "a3", User: bob, Question: bobQ}
	for _, a := range []*models.Answer{&bobOnAlice, &aliceOnBob, &bobOnBob} {
		require.NoError(t, s.Answers().Create(ctx, a))
	}

	require.NoError(t, s.Users().Delete(ctx, alice.UUID))

	_, err := s.Sessions().FindByToken(ctx, "t1")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	_, err = s.Questions().GetByUUID(ctx, "q1")
	assert.ErrorIs(t, err, repository.ErrQuestionNotFound)
	_, err = s.Answers().GetByUUID(ctx, "a1")
	assert.ErrorIs(t, err, repository.ErrAnswerNotFound)
	_, err = s.Answers().GetByUUID(ctx, "a2")
	assert.ErrorIs(t, err, repository.ErrAnswerNotFound)

	remaining, err := s.Answers().ListByQuestion(ctx, "q2")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "a3", remaining[0].UUID)

	assert.ErrorIs(t, s.Users().Delete(ctx, alice.UUID), repository.ErrUserNotFound)
}

func TestSessionUpdateAndOrdering(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice := seedUser(t, s, "u1", "alice")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := models.Session{UUID: "s1", User: alice, AccessToken: "t1", LoginAt: base}
	newer := models.Session{UUID: "s2", User: alice, AccessToken: "t2", LoginAt: base.Add(time.Hour)}
	require.NoError(t, s.Sessions().Create(ctx, &older))
	require.NoError(t, s.Sessions().Create(ctx, &newer))

	list, err := s.Sessions().ListByUser(ctx, alice.UUID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].UUID)

	logout := base.Add(2 * time.Hour)
	older.ExpiresAt = logout
	older.LogoutAt = &logout
	require.NoError(t, s.Sessions().Update(ctx, older))

	stored, err := s.Sessions().FindByToken(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, stored.LogoutAt)
	assert.Equal(t, logout, *stored.LogoutAt)

	assert.ErrorIs(t, s.Sessions().Update(ctx, models.Session{UUID: "nope"}), repository.ErrSessionNotFound)

	ghost := models.Session{UUID: "s3", User: models.User{UUID: "ghost"}, AccessToken: "t3"}
	assert.ErrorIs(t, s.Sessions().Create(ctx, &ghost), repository.ErrUserNotFound)
}

func TestContentRequiresParent(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice := seedUser(t, s, "u1", "alice")

	orphanQ := models.Question{UUID: "q1", User: models.User{UUID: "ghost"}}
	assert.ErrorIs(t, s.Questions().Create(ctx, &orphanQ), repository.ErrUserNotFound)

	orphanA := models.Answer{UUID: "a1", User: alice, Question: models.Question{UUID: "missing"}}
	assert.ErrorIs(t, s.Answers().Create(ctx, &orphanA), repository.ErrQuestionNotFound)
}

func TestQuestionEditAndDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice := seedUser(t, s, "u1", "alice")

	q := models.Question{UUID: "q1", Content: "old", User: alice}
	require.NoError(t, s.Questions().Create(ctx, &q))
	a := models.Answer{UUID: "a1", Content: "ans", User: alice, Question: q}
	require.NoError(t, s.Answers().Create(ctx, &a))

	require.NoError(t, s.Questions().UpdateContent(ctx, "q1", "new"))
	got, err := s.Questions().GetByUUID(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Content)

	require.NoError(t, s.Questions().Delete(ctx, "q1"))
	_, err = s.Answers().GetByUUID(ctx, "a1")
	assert.ErrorIs(t, err, repository.ErrAnswerNotFound)

	assert.ErrorIs(t, s.Questions().Delete(ctx, "q1"), repository.ErrQuestionNotFound)
	assert.ErrorIs(t, s.Questions().UpdateContent(ctx, "q1", "x"), repository.ErrQuestionNotFound)
}
