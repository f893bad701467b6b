// Package storage persists the client's session slots across restarts.
//
// Every backend writes and clears a group of keys as one unit, so a reader
// never observes a token without its user or the reverse.
package storage

import (
	"context"
	"fmt"
	"strings"

	"marketplace/client/internal/config"
)

const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendObject = "object"
	BackendMemory = "memory"
)

type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	// SetAll writes every key in values atomically.
	SetAll(ctx context.Context, values map[string]string) error
	// DeleteAll removes the keys atomically. Missing keys are not an error.
	DeleteAll(ctx context.Context, keys ...string) error
}

func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFile:
		return NewFileStore(cfg.Path)
	case BackendRedis:
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.KeyPrefix), nil
	case BackendObject:
		store, err := NewObjectStore(cfg.Object, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unsupported backend %q", cfg.Backend)
	}
}
