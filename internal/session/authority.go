// Package session issues, resolves and invalidates bearer-token sessions.
//
// The Authority keeps no session state of its own; every decision is made
// against the injected Store so that any number of API instances can share
// one session table.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/anup-shanbhag/TrelloQuora/internal/apperr"
	"github.com/anup-shanbhag/TrelloQuora/internal/ids"
	"github.com/anup-shanbhag/TrelloQuora/internal/models"
	"github.com/anup-shanbhag/TrelloQuora/internal/repository"
)

const DefaultTTL = 8 * time.Hour

// Store is the persistence contract the Authority needs. Lookups of unknown
// tokens must return repository.ErrSessionNotFound.
type Store interface {
	Create(ctx context.Context, session *models.Session) error
	FindByToken(ctx context.Context, token string) (models.Session, error)
	Update(ctx context.Context, session models.Session) error
	ListByUser(ctx context.Context, userUUID string) ([]models.Session, error)
}

// userEvicter is implemented by stores that cache sessions per user.
type userEvicter interface {
	EvictUser(ctx context.Context, userUUID string) error
}

type TokenIssuer interface {
	Issue(userID string, issuedAt time.Time, expiresAt time.Time) (string, error)
}

type Authority struct {
	store     Store
	tokens    TokenIssuer
	ttl       time.Duration
	maxActive int
	now       func() time.Time
	log       zerolog.Logger
}

type Option func(*Authority)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Authority) { a.now = now }
}

func WithTTL(ttl time.Duration) Option {
	return func(a *Authority) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithMaxActive caps the number of live sessions per user. Sessions beyond the
// cap are logged out (oldest first), never deleted. Zero means unlimited.
func WithMaxActive(n int) Option {
	return func(a *Authority) { a.maxActive = n }
}

func NewAuthority(store Store, tokens TokenIssuer, log zerolog.Logger, opts ...Option) *Authority {
	a := &Authority{
		store:  store,
		tokens: tokens,
		ttl:    DefaultTTL,
		now:    time.Now,
		log:    log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Issue opens a new session for an already authenticated user. Existing
// sessions of the user stay valid.
func (a *Authority) Issue(ctx context.Context, user models.User) (models.Session, error) {
	now := a.now()
	expiresAt := now.Add(a.ttl)

	token, err := a.tokens.Issue(user.UUID, now, expiresAt)
	if err != nil {
		return models.Session{}, apperr.Unexpected(fmt.Errorf("issue token: %w", err))
	}

	session := models.Session{
		UUID:        ids.New(),
		User:        user,
		AccessToken: token,
		LoginAt:     now,
		ExpiresAt:   expiresAt,
	}
	if err := a.store.Create(ctx, &session); err != nil {
		return models.Session{}, apperr.Unexpected(fmt.Errorf("create session: %w", err))
	}

	if a.maxActive > 0 {
		if err := a.enforceActiveLimit(ctx, user, now); err != nil {
			a.log.Warn().Err(err).Str("user_id", user.UUID).Msg("enforce session limit failed")
		}
	}

	return session, nil
}

// Resolve maps a bearer token to the user it was issued to. It is the gate
// every authenticated operation passes through.
func (a *Authority) Resolve(ctx context.Context, token string) (models.User, error) {
	session, err := a.lookup(ctx, token)
	if err != nil {
		return models.User{}, err
	}
	if !session.ActiveAt(a.now()) {
		return models.User{}, apperr.New(apperr.SessionExpired)
	}
	return session.User, nil
}

// Invalidate closes the session behind token by collapsing its validity
// window to now. Signing out an already closed session succeeds as long as the
// token is known.
func (a *Authority) Invalidate(ctx context.Context, token string) (models.User, error) {
	session, err := a.lookup(ctx, token)
	if err != nil {
		return models.User{}, err
	}

	now := a.now()
	session.ExpiresAt = now
	session.LogoutAt = &now
	if err := a.store.Update(ctx, session); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.User{}, apperr.New(apperr.NotSignedIn)
		}
		return models.User{}, apperr.Unexpected(fmt.Errorf("update session: %w", err))
	}
	return session.User, nil
}

// ListActive returns the user's sessions that still grant identity, newest first.
func (a *Authority) ListActive(ctx context.Context, user models.User) ([]models.Session, error) {
	return a.listActive(ctx, user, a.now())
}

// listActive orders by login time, then by record id so sessions opened in the
// same instant keep their creation order.
func (a *Authority) listActive(ctx context.Context, user models.User, now time.Time) ([]models.Session, error) {
	sessions, err := a.store.ListByUser(ctx, user.UUID)
	if err != nil {
		return nil, apperr.Unexpected(fmt.Errorf("list sessions: %w", err))
	}

	active := make([]models.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.ActiveAt(now) {
			active = append(active, session)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].LoginAt.Equal(active[j].LoginAt) {
			return active[i].ID > active[j].ID
		}
		return active[i].LoginAt.After(active[j].LoginAt)
	})
	return active, nil
}

// Forget drops any cached state about the user's sessions after the user has
// been removed.
func (a *Authority) Forget(ctx context.Context, user models.User) {
	evicter, ok := a.store.(userEvicter)
	if !ok {
		return
	}
	if err := evicter.EvictUser(ctx, user.UUID); err != nil {
		a.log.Warn().Err(err).Str("user_id", user.UUID).Msg("evict cached sessions failed")
	}
}

func (a *Authority) lookup(ctx context.Context, token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, apperr.New(apperr.NotSignedIn)
	}

	session, err := a.store.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.Session{}, apperr.New(apperr.NotSignedIn)
		}
		return models.Session{}, apperr.Unexpected(fmt.Errorf("find session: %w", err))
	}
	return session, nil
}

func (a *Authority) enforceActiveLimit(ctx context.Context, user models.User, now time.Time) error {
	active, err := a.listActive(ctx, user, now)
	if err != nil {
		return err
	}
	if len(active) <= a.maxActive {
		return nil
	}

	for _, session := range active[a.maxActive:] {
		session.ExpiresAt = now
		session.LogoutAt = &now
		if err := a.store.Update(ctx, session); err != nil {
			return fmt.Errorf("close session %s: %w", session.UUID, err)
		}
	}
	return nil
}
