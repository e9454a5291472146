package intro

import (
	"github.com/lixenwraith/memory-space/kvstore"
)

const playedValue = "true"

// ShouldPlay reports whether the intro has not yet played this session
// Unreadable storage counts as not played
func ShouldPlay(store kvstore.Store) bool {
	v, err := store.Get(kvstore.NamespaceSession, kvstore.KeyIntroPlayed)
	return err != nil || v != playedValue
}

// MarkPlayed records that the intro ran this session
func MarkPlayed(store kvstore.Store) error {
	return store.Set(kvstore.NamespaceSession, kvstore.KeyIntroPlayed, playedValue)
}

// Claim checks and marks in one step; true means the caller should play the intro now
// A failed mark still plays, the intro may then repeat within the session
func Claim(store kvstore.Store) bool {
	if !ShouldPlay(store) {
		return false
	}
	_ = MarkPlayed(store)
	return true
}
