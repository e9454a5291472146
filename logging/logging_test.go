package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabledByDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log, closer, err := Setup(Options{Dir: dir})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, zerolog.Disabled, log.GetLevel())
	log.Error().Msg("dropped")
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "no directory without debug")
}

func TestSetupDebugWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log, closer, err := Setup(Options{Debug: true, Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())
	log.Debug().Str("route", "/").Msg("navigated")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "navigated")
	assert.Contains(t, string(data), "route=/")
	assert.NotContains(t, string(data), "\x1b[", "file output has no color codes")
}

func TestSetupRotatesLargeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, make([]byte, MaxSizeMB*1024*1024+1), 0o644))

	log, closer, err := Setup(Options{Debug: true, Dir: dir})
	require.NoError(t, err)
	log.Info().Msg("fresh")
	require.NoError(t, closer.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	rotated := 0
	for _, e := range entries {
		if e.Name() != FileName && filepath.Ext(e.Name()) == ".log" {
			rotated++
		}
	}
	assert.Equal(t, 1, rotated)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(MaxSizeMB*1024*1024))
}
