package kvstore

import (
	"sync"
)

// MemoryStore is an in-process Store, used for tests and as the fallback backend
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]map[string]string
	quota    int
	writeErr error
}

// NewMemoryStore creates an empty store with no quota
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

// SetQuota limits the total byte size of stored values per namespace; 0 disables
func (m *MemoryStore) SetQuota(bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quota = bytes
}

// FailWrites makes every subsequent Set/Delete return err; nil restores normal behavior
func (m *MemoryStore) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *MemoryStore) Get(namespace, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[namespace][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(namespace, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	ns := m.data[namespace]
	if ns == nil {
		ns = make(map[string]string)
		m.data[namespace] = ns
	}
	if m.quota > 0 {
		used := len(value)
		for k, v := range ns {
			if k != key {
				used += len(v)
			}
		}
		if used > m.quota {
			return ErrQuotaExceeded
		}
	}
	ns[key] = value
	return nil
}

func (m *MemoryStore) Delete(namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	delete(m.data[namespace], key)
	return nil
}

// Keys returns the keys present in a namespace
func (m *MemoryStore) Keys(namespace string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data[namespace]))
	for k := range m.data[namespace] {
		keys = append(keys, k)
	}
	return keys
}
