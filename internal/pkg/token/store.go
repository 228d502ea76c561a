// Package token provides an in-memory store for single-use password
// reset tokens with a bounded lifetime.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

var ErrTokenInvalid = fmt.Errorf("reset token is invalid or expired")

type entry struct {
	email     string
	expiresAt time.Time
}

// Store issues opaque reset tokens bound to an email address. Tokens
// expire after the configured TTL and are consumed on first use.
type Store struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Issue creates a new token for the given email. Any previous token
// issued for the same email stays valid until it expires or is used.
func (s *Store) Issue(email string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.entries[token] = entry{
		email:     email,
		expiresAt: s.now().Add(s.ttl),
	}
	return token, nil
}

// Consume validates a token and removes it from the store. It returns
// the email the token was issued for.
func (s *Store) Consume(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	e, ok := s.entries[token]
	if !ok {
		return "", ErrTokenInvalid
	}
	delete(s.entries, token)
	return e.email, nil
}

func (s *Store) sweepLocked() {
	now := s.now()
	for token, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, token)
		}
	}
}
