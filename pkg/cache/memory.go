package cache

import (
	"sync"
)

// MemoryStore keeps entries in process memory. It backs the "memory"
// backend and tests; nothing survives a restart.
type MemoryStore struct {
	mutex sync.RWMutex
	data  map[string][]byte
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Save(data []byte, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if key == "" {
		return ErrInvalidKey
	}

	// copy so later mutation of data by the caller is not observed
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStore) Load(key string) ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Exists(key string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	_, ok := m.data[key]
	return ok
}

// Delete removes keys. Missing keys are ignored.
func (m *MemoryStore) Delete(keys ...string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, key := range keys {
		delete(m.data, key)
	}
}
