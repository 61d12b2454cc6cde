package gate

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// FlagStore persists the admin session flag across restarts. Only the Gate
// reads or writes it.
type FlagStore interface {
	Get(ctx context.Context) (bool, error)
	Set(ctx context.Context) error
	Clear(ctx context.Context) error
}

const sessionKey = "admin:session"

type RedisFlagStore struct {
	client *redis.Client
}

func NewRedisFlagStore(client *redis.Client) *RedisFlagStore {
	return &RedisFlagStore{client: client}
}

func (s *RedisFlagStore) Get(ctx context.Context) (bool, error) {
	val, err := s.client.Get(ctx, sessionKey).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "true", nil
}

func (s *RedisFlagStore) Set(ctx context.Context) error {
	return s.client.Set(ctx, sessionKey, "true", 0).Err()
}

func (s *RedisFlagStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, sessionKey).Err()
}

type MemoryFlagStore struct {
	mu  sync.Mutex
	set bool
}

func NewMemoryFlagStore() *MemoryFlagStore {
	return &MemoryFlagStore{}
}

func (s *MemoryFlagStore) Get(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set, nil
}

func (s *MemoryFlagStore) Set(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = true
	return nil
}

func (s *MemoryFlagStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = false
	return nil
}
