package secrets

import (
	"fmt"
	"sync"
)

// StaticStore is an unencrypted, in-memory store. It backs credentials given
// directly in the configuration and is handy in tests.
type StaticStore struct {
	mu      sync.RWMutex
	secrets map[string]string
}

func NewStaticStore(secrets map[string]string) *StaticStore {
	s := &StaticStore{secrets: make(map[string]string, len(secrets))}
	for k, v := range secrets {
		s.secrets[k] = v
	}
	return s
}

func (s *StaticStore) GetSecretByID(secretID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.secrets[secretID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, secretID)
	}
	return v, nil
}

func (s *StaticStore) StoreSecretByID(secretID, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[secretID] = secret
	return nil
}

func (s *StaticStore) ListSecrets() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	secrets := make(map[string]string, len(s.secrets))
	for k, v := range s.secrets {
		secrets[k] = v
	}
	return secrets, nil
}

func (s *StaticStore) RemoveSecretByID(secretID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.secrets[secretID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, secretID)
	}
	delete(s.secrets, secretID)
	return nil
}
