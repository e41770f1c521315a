package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/posematch/pkg/domain"
)

// Store implements ports.Store in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store seeded with the provided documents.
func NewStore(data map[string]string) *Store {
	docs := make(map[string]string, len(data))
	for k, v := range data {
		docs[k] = v
	}
	return &Store{data: docs}
}

// LoadText returns the document stored at path.
func (s *Store) LoadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.data[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrResourceNotFound, path)
	}
	return text, nil
}

// WriteText stores text at path.
func (s *Store) WriteText(ctx context.Context, path string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("%w: path cannot be empty", domain.ErrWrite)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[path] = text
	return nil
}

// Paths returns all stored paths in sorted order.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys
}
