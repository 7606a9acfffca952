// Package session owns the ephemeral proof of authentication: a Redis
// record keyed by session id, mirrored into a signed cookie token. Sessions
// are never written to the SQL store.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/admobility/admobility/internal/model"
)

// ErrNoSession is returned whenever a session cannot be resolved, whether it
// is missing, expired, revoked, or Redis itself failed. Callers treat every
// case the same way: no session (fail-closed).
var ErrNoSession = errors.New("no session")

// Store resolves, creates and destroys sessions.
type Store interface {
	Create(ctx context.Context, userID, role string) (model.Session, error)
	Get(ctx context.Context, sid string) (model.Session, error)
	Delete(ctx context.Context, sid string) error
}

// RedisStore keeps session records under "session:<sid>" with a TTL. A nil
// client degrades to a store where nobody is ever signed in.
type RedisStore struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{RDB: rdb, TTL: ttl}
}

func key(sid string) string { return "session:" + sid }

// Create mints a session id and writes the record with the configured TTL.
func (s *RedisStore) Create(ctx context.Context, userID, role string) (model.Session, error) {
	if s.RDB == nil {
		return model.Session{}, ErrNoSession
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return model.Session{}, err
	}
	sess := model.Session{
		ID:        hex.EncodeToString(buf),
		UserID:    userID,
		Role:      role,
		ExpiresAt: time.Now().UTC().Add(s.TTL),
	}
	body, err := json.Marshal(sess)
	if err != nil {
		return model.Session{}, err
	}
	if err := s.RDB.Set(ctx, key(sess.ID), body, s.TTL).Err(); err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

// Get resolves a session id to its record. Any failure, including Redis
// being unreachable, resolves to ErrNoSession.
func (s *RedisStore) Get(ctx context.Context, sid string) (model.Session, error) {
	if s.RDB == nil || sid == "" {
		return model.Session{}, ErrNoSession
	}
	body, err := s.RDB.Get(ctx, key(sid)).Bytes()
	if err != nil {
		return model.Session{}, ErrNoSession
	}
	var sess model.Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return model.Session{}, ErrNoSession
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		return model.Session{}, ErrNoSession
	}
	return sess, nil
}

// Delete revokes a session immediately. Deleting an unknown id is not an
// error.
func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	if s.RDB == nil {
		return nil
	}
	return s.RDB.Del(ctx, key(sid)).Err()
}
