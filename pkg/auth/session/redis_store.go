package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mtsdigital/storefront/pkg/redis"
)

type keyValue interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	SessionKey(sessionID string) string
}

// RedisStore stores each session as a JSON value whose TTL matches the
// session expiry.
type RedisStore struct {
	kv  keyValue
	now func() time.Time
}

func NewRedisStore(kv keyValue) *RedisStore {
	return &RedisStore{kv: kv, now: time.Now}
}

func (r *RedisStore) Create(ctx context.Context, s Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", s.ID)
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.kv.Set(ctx, r.kv.SessionKey(s.ID), string(payload), ttl)
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := r.kv.Get(ctx, r.kv.SessionKey(id))
	if err != nil {
		if redis.IsNil(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(r.now()) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.kv.Del(ctx, r.kv.SessionKey(id))
}

// Touch rewrites the record so the stored expiry and the key TTL agree.
func (r *RedisStore) Touch(ctx context.Context, id string, expiresAt time.Time) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	s.ExpiresAt = expiresAt
	return r.Create(ctx, *s)
}
