package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"minesweeper/internal/game"
)

const REDIS_KEY_GAME = "minesweeper:game:"

var ErrGameNotFound = errors.New("game not found")

type Store interface {
	Save(ctx context.Context, id string, rec game.Record) error
	Load(ctx context.Context, id string) (game.Record, error)
}

// RedisStore keeps each game as JSON under its own key. Every save renews
// the TTL, so idle games expire.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, id string, rec game.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", id, err)
	}
	if err := s.client.Set(ctx, REDIS_KEY_GAME+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save game %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (game.Record, error) {
	data, err := s.client.Get(ctx, REDIS_KEY_GAME+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.Record{}, ErrGameNotFound
	}
	if err != nil {
		return game.Record{}, fmt.Errorf("load game %s: %w", id, err)
	}

	var rec game.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return game.Record{}, fmt.Errorf("decode game %s: %w", id, err)
	}
	return rec, nil
}

// MemoryStore is used when Redis is unavailable. Games never expire.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, id string, rec game.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", id, err)
	}
	s.mu.Lock()
	s.records[id] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (game.Record, error) {
	s.mu.RLock()
	data, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return game.Record{}, ErrGameNotFound
	}

	var rec game.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return game.Record{}, fmt.Errorf("decode game %s: %w", id, err)
	}
	return rec, nil
}
