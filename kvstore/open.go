package kvstore

import (
	"fmt"
	"time"
)

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Opened is a ready Mux plus the function releasing its resources
type Opened struct {
	*Mux
	close []func() error
}

// Close releases backend resources in reverse open order
func (o *Opened) Close() error {
	var first error
	for i := len(o.close) - 1; i >= 0; i-- {
		if err := o.close[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open builds the durable backend named by backend and a session store with the given TTL
func Open(backend, path string, sessionTTL time.Duration) (*Opened, error) {
	o := &Opened{Mux: &Mux{}}

	switch backend {
	case BackendMemory, "":
		o.Durable = NewMemoryStore()
	case BackendFile:
		fs, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		o.Durable = fs
	case BackendSQLite:
		sq, err := OpenSQLStore(path)
		if err != nil {
			return nil, err
		}
		o.Durable = sq
		o.close = append(o.close, sq.Close)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}

	ss, err := NewSessionStore(sessionTTL)
	if err != nil {
		o.Close()
		return nil, err
	}
	o.Session = ss
	o.close = append(o.close, func() error { ss.Close(); return nil })
	return o, nil
}
