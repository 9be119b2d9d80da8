// Package tokenstore keeps the bearer token for the current session.
//
// The token lives in memory and is mirrored to the local metadata store so
// it survives restarts. The durable copy is read once, on first access.
package tokenstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gastrohealth/internal/client/repositories/metadata"
)

// TokenKey is the metadata key holding the persisted token.
const TokenKey = "auth_token"

type Store struct {
	repo metadata.Repository

	mu     sync.Mutex
	token  string
	loaded bool
}

func New(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// Get returns the current token or "" when none is held.
func (s *Store) Get(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.token, nil
	}

	value, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}

	s.token = string(value)
	s.loaded = true
	return s.token, nil
}

// Set replaces the token. An empty token clears both the cache and the
// persisted copy. The cache is updated even when persisting fails.
func (s *Store) Set(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.loaded = true

	if token == "" {
		if err := s.repo.Delete(ctx, TokenKey); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		return nil
	}

	if err := s.repo.Set(ctx, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}
