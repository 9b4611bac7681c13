package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

// Store keeps server-side login sessions in redis as session:<id> -> user id.
type Store struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewStore(client *redisv9.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Issue(ctx context.Context, userID uint) (string, error) {
	if userID == 0 {
		return "", fmt.Errorf("issue session failed: empty user id")
	}
	id := uuid.NewString()
	if err := s.client.Set(ctx, key(id), strconv.FormatUint(uint64(userID), 10), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set session failed: %w", err)
	}
	return id, nil
}

func (s *Store) Resolve(ctx context.Context, id string) (uint, error) {
	if id == "" {
		return 0, ErrNotFound
	}
	raw, err := s.client.Get(ctx, key(id)).Result()
	if errors.Is(err, redisv9.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("redis get session failed: %w", err)
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || userID == 0 {
		return 0, ErrNotFound
	}
	return uint(userID), nil
}

// Revoke is a no-op for unknown ids.
func (s *Store) Revoke(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}

func key(id string) string {
	return "session:" + id
}
