package storage

import (
	"sync"

	"github.com/uniblog/client/internal/core/domain"
)

// MemoryStore keeps the credential pair in process memory. Same contract as
// FileStore, nothing survives the process.
type MemoryStore struct {
	mu        sync.Mutex
	token     string
	tokenType string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(token, tokenType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.tokenType = tokenType
	return nil
}

func (s *MemoryStore) Read() (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return domain.Session{}, nil
	}
	return domain.Session{Token: s.token, TokenType: s.tokenType, Present: true}, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.tokenType = ""
	return nil
}
