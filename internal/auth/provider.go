// Package auth supplies the credential attached to every backend call.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Credential errors.
var (
	ErrNoToken      = errors.New("no token available")
	ErrTokenExpired = errors.New("token expired")
)

// CredentialProvider returns the opaque token for the current user.
// Implementations return ErrNoToken when nothing is stored.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// Static always returns the same token.
type Static string

// Token implements CredentialProvider.
func (s Static) Token(_ context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoToken
	}

	return strings.TrimSpace(string(s)), nil
}

// Env reads the token from an environment variable on every call.
type Env string

// Token implements CredentialProvider.
func (e Env) Token(_ context.Context) (string, error) {
	v := strings.TrimSpace(os.Getenv(string(e)))
	if v == "" {
		return "", ErrNoToken
	}

	return v, nil
}

// Chain tries providers in order and returns the first token found.
// Errors other than ErrNoToken stop the search.
type Chain []CredentialProvider

// Token implements CredentialProvider.
func (c Chain) Token(ctx context.Context) (string, error) {
	for _, p := range c {
		tok, err := p.Token(ctx)
		if err == nil {
			return tok, nil
		}

		if !errors.Is(err, ErrNoToken) {
			return "", err
		}
	}

	return "", ErrNoToken
}

// FileStore keeps the token in a single file, the desktop counterpart of
// browser local storage.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore creates a store backed by path. The file need not exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

// Token implements CredentialProvider.
func (f *FileStore) Token(_ context.Context) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}

	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", ErrNoToken
	}

	return tok, nil
}

// Save writes the token, creating parent directories with private permissions.
func (f *FileStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrNoToken
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create token dir: %w", err)
	}

	if err := os.WriteFile(f.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}

	return nil
}
