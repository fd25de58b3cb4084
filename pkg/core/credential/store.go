// Package credential holds the API key used for research calls and lets the
// user replace it at runtime.
package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// SecretFileName is the file read from the secrets directory.
const SecretFileName = "gemini-api-key"

// ErrEmptyKey is returned when the user submits a blank key.
var ErrEmptyKey = errors.New("API key is empty")

// Store is an in-memory, process-wide API key holder.
type Store struct {
	mu     sync.RWMutex
	key    string
	source string
}

// NewStore returns a store holding key; source names where it came from.
func NewStore(key, source string) *Store {
	return &Store{key: strings.TrimSpace(key), source: source}
}

// FromSources picks the first non-empty key from the environment value, then
// <secretsDir>/gemini-api-key. A missing secrets directory is not an error.
func FromSources(envKey, secretsDir string) (*Store, error) {
	if k := strings.TrimSpace(envKey); k != "" {
		return NewStore(k, "env"), nil
	}
	if secretsDir == "" {
		return NewStore("", ""), nil
	}

	path := filepath.Join(secretsDir, SecretFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewStore("", ""), nil
		}
		return nil, fmt.Errorf("reading secret %s: %w", path, err)
	}
	return NewStore(string(data), path), nil
}

// APIKey returns the current key, possibly empty.
func (s *Store) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// Source describes where the current key came from ("env", a file path,
// "user"), or "" when there is none.
func (s *Store) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// HasActiveCredential reports whether a key is set.
func (s *Store) HasActiveCredential(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.APIKey() != "", nil
}

// Select replaces the key with one chosen by the user.
func (s *Store) Select(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
	s.source = "user"
	return nil
}

// Masked returns the key with all but the last four characters hidden.
func (s *Store) Masked() string {
	k := s.APIKey()
	if len(k) <= 4 {
		return strings.Repeat("•", len(k))
	}
	return strings.Repeat("•", 8) + k[len(k)-4:]
}
