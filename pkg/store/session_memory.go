package store

import (
	"sync"

	"github.com/google/uuid"
)

// MemorySessionStore keeps session tokens in-process. Test use only.
type MemorySessionStore struct {
	mu   sync.RWMutex
	sess map[string]string // token -> user ID
}

// NewMemorySessionStore initializes an empty session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sess: make(map[string]string)}
}

func (m *MemorySessionStore) NewSession(userID string) (string, error) {
	token := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess[token] = userID
	return token, nil
}

func (m *MemorySessionStore) GetUserIDByToken(token string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	uid, ok := m.sess[token]
	return uid, ok, nil
}

func (m *MemorySessionStore) DeleteSession(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sess, token)
	return nil
}
