package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps sessions in Redis with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if client == nil {
		panic("booking: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return errors.New("booking: session id required")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("booking: failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("booking: failed to persist session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("booking: failed to load session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("booking: failed to decode session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("booking: failed to delete session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("booking:session:%s", id)
}

var _ SessionStore = (*RedisSessionStore)(nil)
