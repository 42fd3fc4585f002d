package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/anup-shanbhag/TrelloQuora/internal/models"
)

type sessionBackend interface {
	Create(ctx context.Context, session *models.Session) error
	FindByToken(ctx context.Context, token string) (models.Session, error)
	Update(ctx context.Context, session models.Session) error
	ListByUser(ctx context.Context, userUUID string) ([]models.Session, error)
}

// CachedSessionStore is a read-through redis cache in front of the session
// table. Lookups degrade to the backing store when redis fails; updates fail
// instead, since a stale live entry would outlast a sign-out.
//
// Lookups populate the cache with SETNX while updates overwrite with SET, so
// an invalidation always wins over a concurrent lookup that read the row
// before the update committed.
type CachedSessionStore struct {
	next  sessionBackend
	cache *redis.Client
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

func NewCachedSessionStore(next sessionBackend, cache *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedSessionStore {
	return &CachedSessionStore{
		next:  next,
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
		log:   log,
	}
}

func (s *CachedSessionStore) Create(ctx context.Context, session *models.Session) error {
	return s.next.Create(ctx, session)
}

func (s *CachedSessionStore) FindByToken(ctx context.Context, token string) (models.Session, error) {
	key := sessionCacheKey(token)

	raw, err := s.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var session models.Session
		if err := json.Unmarshal(raw, &session); err == nil {
			return session, nil
		}
		s.log.Warn().Str("key", key).Msg("discarding corrupt session cache entry")
	case !errors.Is(err, redis.Nil):
		s.log.Warn().Err(err).Msg("session cache read failed")
	}

	session, err := s.next.FindByToken(ctx, token)
	if err != nil {
		return models.Session{}, err
	}

	if ttl := s.entryTTL(session); ttl > 0 {
		s.store(ctx, key, session, ttl, false)
	}
	return session, nil
}

// Update drops the cached copy before writing through and fails if it cannot.
// The written record is then cached with SET so a racing SETNX lookup cannot
// win; if that write fails the key is dropped again.
func (s *CachedSessionStore) Update(ctx context.Context, session models.Session) error {
	key := sessionCacheKey(session.AccessToken)
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("drop cached session: %w", err)
	}

	if err := s.next.Update(ctx, session); err != nil {
		return err
	}

	if !s.store(ctx, key, session, s.ttl, true) {
		if err := s.cache.Del(ctx, key).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("drop cached session after update failed")
		}
	}
	return nil
}

func (s *CachedSessionStore) ListByUser(ctx context.Context, userUUID string) ([]models.Session, error) {
	return s.next.ListByUser(ctx, userUUID)
}

// EvictUser drops every cached session of a user, used once the user row is gone.
func (s *CachedSessionStore) EvictUser(ctx context.Context, userUUID string) error {
	indexKey := userIndexKey(userUUID)
	keys, err := s.cache.SMembers(ctx, indexKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys = append(keys, indexKey)
	return s.cache.Del(ctx, keys...).Err()
}

func (s *CachedSessionStore) entryTTL(session models.Session) time.Duration {
	remaining := session.ExpiresAt.Sub(s.now())
	if remaining < s.ttl {
		return remaining
	}
	return s.ttl
}

// store reports whether the entry was written.
func (s *CachedSessionStore) store(ctx context.Context, key string, session models.Session, ttl time.Duration, overwrite bool) bool {
	session.User.Password = ""
	session.User.Salt = ""

	payload, err := json.Marshal(session)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode session cache entry failed")
		return false
	}

	pipe := s.cache.TxPipeline()
	if overwrite {
		pipe.Set(ctx, key, payload, ttl)
	} else {
		pipe.SetNX(ctx, key, payload, ttl)
	}
	pipe.SAdd(ctx, userIndexKey(session.User.UUID), key)
	pipe.Expire(ctx, userIndexKey(session.User.UUID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Msg("session cache write failed")
		return false
	}
	return true
}

func sessionCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "quora:session:" + hex.EncodeToString(sum[:])
}

func userIndexKey(userUUID string) string {
	return "quora:session:user:" + userUUID
}
