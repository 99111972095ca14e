// Package auth provides token management for API clients.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoToken = errors.New("no token available")
)

// TokenExpiryBuffer is subtracted from a token's expiry when judging
// validity, so requests never race the actual expiration.
const TokenExpiryBuffer = 30 * time.Second

// Token holds an access token and its optional expiry.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Valid reports whether the token can still be used. Tokens without an
// expiry never go stale.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(TokenExpiryBuffer).Before(t.ExpiresAt)
}

// TokenStore is a thread-safe holder for the current token.
type TokenStore struct {
	mutex sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token or nil.
func (s *TokenStore) Get() *Token {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = nil
}

// TokenManager supplies access tokens to the transport. Implementations
// must be safe for concurrent use.
type TokenManager interface {
	// GetToken returns a valid access token.
	GetToken(ctx context.Context) (string, error)
	// SetToken replaces the current token.
	SetToken(token string, expiresAt time.Time)
}

// StaticTokenManager serves a fixed token. It never refreshes; callers
// needing rotation plug in their own TokenManager.
type StaticTokenManager struct {
	store *TokenStore
}

// NewStaticTokenManager creates a token manager around a fixed token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	store := NewTokenStore()
	if token != "" {
		store.Set(&Token{AccessToken: token})
	}

	return &StaticTokenManager{store: store}
}

// GetToken returns the stored token.
func (m *StaticTokenManager) GetToken(_ context.Context) (string, error) {
	token := m.store.Get()
	if !token.Valid() {
		return "", ErrNoToken
	}

	return token.AccessToken, nil
}

// SetToken replaces the stored token.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{AccessToken: token, ExpiresAt: expiresAt})
}
