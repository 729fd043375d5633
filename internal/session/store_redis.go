package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "forms:refresh_token:"

// RedisStore keeps one refresh-token slot per principal in Redis. The entry's
// TTL mirrors the token's own expiry, so the cache self-cleans; an expired
// token and a missing slot are indistinguishable, which is the point.
type RedisStore struct {
	rdb   *redis.Client
	codec Codec
	now   func() time.Time
}

func NewRedisStore(rdb *redis.Client, codec Codec) *RedisStore {
	return &RedisStore{rdb: rdb, codec: codec, now: time.Now}
}

func sessionKey(userID string) string {
	return keyPrefix + userID
}

func (s *RedisStore) Create(ctx context.Context, userID, role string) (string, error) {
	token, err := s.codec.IssueRefresh(s.now(), userID, role)
	if err != nil {
		return "", fmt.Errorf("issue refresh token: %w", err)
	}

	// Plain SET, not SETNX: a new login replaces the previous session.
	if err := s.rdb.Set(ctx, sessionKey(userID), token, s.codec.RefreshTTL()).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return token, nil
}

func (s *RedisStore) Validate(ctx context.Context, tokenString string) (bool, error) {
	userID, err := s.codec.RefreshSubject(tokenString, s.now())
	if err != nil {
		return false, nil
	}

	cached, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return subtle.ConstantTimeCompare([]byte(cached), []byte(tokenString)) == 1, nil
}

func (s *RedisStore) Invalidate(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
