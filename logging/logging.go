// Package logging builds the process logger. The terminal owns stdout, so logs
// go to a rotating file in debug mode and are discarded otherwise.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FileName   = "memory-space.log"
	MaxSizeMB  = 10
	MaxBackups = 3
)

// Options controls Setup
type Options struct {
	Debug bool
	Dir   string
	// Console mirrors records to stderr; for commands that do not take over the terminal
	Console bool
}

// Setup returns the logger and a closer for its file
// With neither Debug nor Console set the logger writes nowhere
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.Debug {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("log dir: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, FileName),
			MaxSize:    MaxSizeMB,
			MaxBackups: MaxBackups,
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: file, TimeFormat: time.RFC3339, NoColor: true})
		closer = file
	}
	if opts.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if len(writers) == 0 {
		return zerolog.New(io.Discard).Level(zerolog.Disabled), closer, nil
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Str("app", "memory-space").Logger()
	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
