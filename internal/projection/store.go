package projection

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store holds the serialized projection entries. Implementations must return
// the exact bytes previously written: rollback restores a snapshot verbatim.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) ([]byte, bool, error)
	Set(ctx context.Context, id uuid.UUID, data []byte) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RedisStore keeps projection entries in redis, one key per swap.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(id uuid.UUID) string {
	return "swap:projection:" + id.String()
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, id uuid.UUID, data []byte) error {
	return s.client.Set(ctx, s.key(id), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// MemoryStore is the in-process store used in tests and dev mode.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[uuid.UUID][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.entries[id]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (s *MemoryStore) Set(ctx context.Context, id uuid.UUID, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
