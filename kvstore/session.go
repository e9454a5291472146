package kvstore

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// SessionStore holds session-scoped values in a ristretto cache
// Entries expire after the session TTL; a closed store reads as empty
type SessionStore struct {
	cache *ristretto.Cache[string, string]
	ttl   time.Duration
}

// NewSessionStore creates a session store; ttl <= 0 keeps entries for the process lifetime
func NewSessionStore(ttl time.Duration) (*SessionStore, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: 1000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &SessionStore{cache: cache, ttl: ttl}, nil
}

func sessionKey(namespace, key string) string {
	return namespace + "\x00" + key
}

func (s *SessionStore) Get(namespace, key string) (string, error) {
	v, ok := s.cache.Get(sessionKey(namespace, key))
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *SessionStore) Set(namespace, key, value string) error {
	k := sessionKey(namespace, key)
	var ok bool
	if s.ttl > 0 {
		ok = s.cache.SetWithTTL(k, value, int64(len(value)+len(k)), s.ttl)
	} else {
		ok = s.cache.Set(k, value, int64(len(value)+len(k)))
	}
	if !ok {
		return fmt.Errorf("session set %s: dropped by admission policy", key)
	}
	// Sets are buffered; wait so the value is visible to the next Get
	s.cache.Wait()
	return nil
}

func (s *SessionStore) Delete(namespace, key string) error {
	s.cache.Del(sessionKey(namespace, key))
	return nil
}

// Close releases cache goroutines
func (s *SessionStore) Close() {
	s.cache.Close()
}
