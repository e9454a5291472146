package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"
)

const sampleRate = beep.SampleRate(44100)

// Config selects whether cues play and how loud
type Config struct {
	Enabled bool
	Volume  float64
}

// DefaultConfig is muted at half volume
func DefaultConfig() Config {
	return Config{Enabled: false, Volume: 0.5}
}

// Player plays transition cues through the system speaker
// Without a working audio device every method is a no-op
type Player struct {
	mu          sync.Mutex
	cfg         Config
	mixer       *beep.Mixer
	initialized bool
	log         zerolog.Logger
}

// NewPlayer creates an uninitialized player
func NewPlayer(cfg Config, log zerolog.Logger) *Player {
	return &Player{cfg: cfg, mixer: &beep.Mixer{}, log: log}
}

// Init opens the speaker; a failure leaves the player silent and is returned for logging
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || !p.cfg.Enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		p.log.Warn().Err(err).Msg("audio disabled")
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	p.log.Debug().Int("rate", int(sampleRate)).Float64("volume", p.cfg.Volume).Msg("audio ready")
	return nil
}

// Close silences pending cues and releases the device
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

// Active reports whether cues reach the speaker
func (p *Player) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Whoosh plays the warp cue
func (p *Player) Whoosh() { p.play(WhooshSound(sampleRate, p.cfg.Volume)) }

// Chime plays the zoom cue
func (p *Player) Chime() { p.play(ChimeSound(sampleRate, p.cfg.Volume)) }

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}
