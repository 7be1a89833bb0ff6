package oauth

import (
	"sort"
	"sync"
	"time"

	"taskclient/pkg/logging"
)

// TokenStore caches tokens by registration id.
// Implementations must be safe for concurrent use.
type TokenStore interface {
	// Get returns the cached token for the registration, or nil if there is
	// none or it expires within the given margin.
	Get(registration string, margin time.Duration) *Token

	// Store saves the token for the registration, replacing any previous one.
	Store(registration string, token *Token) error

	// Delete removes the cached token for the registration.
	Delete(registration string) error

	// List returns every cached token, expired ones included, ordered by registration.
	List() ([]*Token, error)

	// Clear removes every cached token.
	Clear() error
}

// MemoryTokenStore is a process-local TokenStore.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]*Token
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens: make(map[string]*Token),
	}
}

func (s *MemoryTokenStore) Get(registration string, margin time.Duration) *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[registration]
	if !ok {
		return nil
	}
	if token.IsExpired(margin) {
		logging.Debug("TokenStore", "Cached token expired for registration=%s", registration)
		return nil
	}
	return token
}

func (s *MemoryTokenStore) Store(registration string, token *Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[registration] = token
	logging.Debug("TokenStore", "Stored token for registration=%s (expires: %v)", registration, token.ExpiresAt)
	return nil
}

func (s *MemoryTokenStore) Delete(registration string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, registration)
	return nil
}

func (s *MemoryTokenStore) List() ([]*Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens := make([]*Token, 0, len(s.tokens))
	for _, t := range s.tokens {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Registration < tokens[j].Registration
	})
	return tokens, nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.tokens)
	s.tokens = make(map[string]*Token)
	logging.Debug("TokenStore", "Cleared %d cached tokens", count)
	return nil
}
