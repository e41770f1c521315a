// Package redis stores matrix documents as Redis string keys.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aretw0/posematch/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix is prepended to every resource path.
const DefaultPrefix = "posematch:"

// Store implements ports.Store using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the expiration of written documents.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(path string) string {
	return s.prefix + path
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// LoadText reads the document stored under path.
func (s *Store) LoadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	val, err := s.client.Get(ctx, s.key(path)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", fmt.Errorf("%w: %s", domain.ErrResourceNotFound, path)
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// WriteText stores text under path and records path in the index.
// Both commands run in one MULTI/EXEC transaction.
func (s *Store) WriteText(ctx context.Context, path string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("%w: path cannot be empty", domain.ErrWrite)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(path), text, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), path)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: failed to save to redis: %v", domain.ErrWrite, err)
	}
	return nil
}

// List returns the paths written through this store that still exist.
// Expired entries are pruned from the index lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	paths := make([]string, 0, len(members))
	for _, path := range members {
		n, err := s.client.Exists(ctx, s.key(path)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", path, err)
		}
		if n == 0 {
			if err := s.client.SRem(ctx, s.indexKey(), path).Err(); err != nil {
				return nil, fmt.Errorf("failed to prune %s: %w", path, err)
			}
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
