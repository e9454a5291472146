// Package kvstore is the client-side key/value persistence layer.
//
// Two namespaces exist: NamespaceLocal survives restarts (browser localStorage
// analogue) and NamespaceSession lives for one client session (sessionStorage
// analogue). Values are opaque strings, usually JSON documents.
package kvstore

import (
	"errors"
)

// Namespaces
const (
	NamespaceLocal   = "local"
	NamespaceSession = "session"
)

// Well-known keys
const (
	KeyHomePositions     = "ms_space_bigstar_positions_v1"
	KeyUserStarPositions = "ms_userstar_positions_v1"
	KeyEditMode          = "ms_starbg_editmode_v1"
	KeyAnimations        = "ms_starbg_anim_v1"
	KeyIntroPlayed       = "hasPlayedBigBang"
)

var (
	// ErrNotFound is returned by Get for a missing key
	ErrNotFound = errors.New("kvstore: key not found")
	// ErrQuotaExceeded is returned by backends that enforce a size limit
	ErrQuotaExceeded = errors.New("kvstore: quota exceeded")
	// ErrUnknownBackend is returned by Open for an unsupported backend name
	ErrUnknownBackend = errors.New("kvstore: unknown backend")
)

// Store is a namespaced string key/value store
type Store interface {
	Get(namespace, key string) (string, error)
	Set(namespace, key, value string) error
	Delete(namespace, key string) error
}
