package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store persists carts by session id. Load returns an empty cart for unknown
// sessions.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)

type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]Line
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]Line)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := New()
	c.Lines = append(c.Lines, s.carts[sessionID]...)
	return c, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[sessionID] = append([]Line(nil), c.Lines...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

// RedisStore keeps each cart as a JSON document with a sliding expiry.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	b, err := s.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}

	c := New()
	if err := json.Unmarshal(b, c); err != nil {
		return nil, err
	}
	if c.Lines == nil {
		c.Lines = []Line{}
	}
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKey(sessionID), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, cartKey(sessionID)).Err()
}
