package kvstore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the shared Store contract against a backend
func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, err := s.Get(NamespaceLocal, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(NamespaceLocal, "a", "1"))
	require.NoError(t, s.Set(NamespaceLocal, "a", "2"))
	v, err := s.Get(NamespaceLocal, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	// Namespaces are isolated
	_, err = s.Get(NamespaceSession, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(NamespaceLocal, "a"))
	_, err = s.Get(NamespaceLocal, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error
	assert.NoError(t, s.Delete(NamespaceLocal, "never"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	exerciseStore(t, fs)

	// Values survive a reopen
	require.NoError(t, fs.Set(NamespaceLocal, KeyEditMode, "1"))
	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	v, err := reopened.Get(NamespaceLocal, KeyEditMode)
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files must be renamed away")
}

func TestSQLStore(t *testing.T) {
	s, err := OpenSQLStore(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	exerciseStore(t, s)
}

func TestSessionStore(t *testing.T) {
	s, err := NewSessionStore(0)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	exerciseStore(t, s)
}

func TestMemoryStoreQuota(t *testing.T) {
	m := NewMemoryStore()
	m.SetQuota(8)

	require.NoError(t, m.Set(NamespaceLocal, "a", "1234"))
	err := m.Set(NamespaceLocal, "b", "123456")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// Overwriting the same key only counts the new value
	assert.NoError(t, m.Set(NamespaceLocal, "a", "12345678"))
}

func TestMemoryStoreFailWrites(t *testing.T) {
	m := NewMemoryStore()
	boom := errors.New("disabled")
	m.FailWrites(boom)
	assert.ErrorIs(t, m.Set(NamespaceLocal, "a", "1"), boom)
	m.FailWrites(nil)
	assert.NoError(t, m.Set(NamespaceLocal, "a", "1"))
}

func TestMuxRoutesSession(t *testing.T) {
	durable := NewMemoryStore()
	session := NewMemoryStore()
	mux := &Mux{Durable: durable, Session: session}

	require.NoError(t, mux.Set(NamespaceSession, KeyIntroPlayed, "true"))
	require.NoError(t, mux.Set(NamespaceLocal, KeyAnimations, "0"))

	assert.Equal(t, []string{KeyIntroPlayed}, session.Keys(NamespaceSession))
	assert.Empty(t, durable.Keys(NamespaceSession))
	assert.Equal(t, []string{KeyAnimations}, durable.Keys(NamespaceLocal))
}

func TestFlag(t *testing.T) {
	m := NewMemoryStore()

	assert.False(t, EditMode.Load(m), "edit mode defaults off")
	assert.True(t, Animations.Load(m), "animations default on")

	require.NoError(t, m.Set(NamespaceLocal, KeyAnimations, "garbage"))
	assert.True(t, Animations.Load(m))

	on, err := EditMode.Toggle(m)
	require.NoError(t, err)
	assert.True(t, on)
	v, _ := m.Get(NamespaceLocal, KeyEditMode)
	assert.Equal(t, "1", v)

	m.FailWrites(ErrQuotaExceeded)
	assert.True(t, EditMode.Load(m), "failed write keeps previous value")
}

func TestOpen(t *testing.T) {
	o, err := Open(BackendSQLite, filepath.Join(t.TempDir(), "kv.db"), time.Hour)
	require.NoError(t, err)
	defer o.Close()

	require.NoError(t, o.Set(NamespaceSession, KeyIntroPlayed, "true"))
	v, err := o.Get(NamespaceSession, KeyIntroPlayed)
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	_, err = Open("redis", "", 0)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
