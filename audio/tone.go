package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveNoise
)

// oscillator generates a wave whose frequency glides linearly from freq to endFreq
type oscillator struct {
	freq, endFreq float64
	phase         float64
	duration      int
	position      int
	wave          WaveType
	rate          beep.SampleRate
}

// NewOscillator creates a fixed pitch oscillator
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates an oscillator gliding from freq to endFreq over duration
func NewSweep(freq, endFreq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		endFreq:  endFreq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		t := float64(o.position) / float64(o.duration)
		freq := o.freq + (o.endFreq-o.freq)*t
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}
		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = math.Min(vol, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// math.Log2(0) is -Inf, so zero volume is silent instead
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Cue timings
const (
	WhooshDuration = 900 * time.Millisecond
	whooshAttack   = 250 * time.Millisecond
	whooshRelease  = 500 * time.Millisecond

	ChimeDuration = 600 * time.Millisecond
	chimeAttack   = 5 * time.Millisecond
	chimeRelease  = 550 * time.Millisecond
)

// WhooshSound is the warp cue: filtered-sounding noise over a rising hum
func WhooshSound(rate beep.SampleRate, vol float64) beep.Streamer {
	noise := NewEnvelope(NewOscillator(0, WhooshDuration, WaveNoise, rate), WhooshDuration, whooshAttack, whooshRelease, rate)
	hum := NewEnvelope(NewSweep(110, 420, WhooshDuration, WaveSine, rate), WhooshDuration, whooshAttack, whooshRelease, rate)
	return newVolume(beep.Mix(newVolume(noise, 0.25), newVolume(hum, 0.5)), vol)
}

// ChimeSound is the zoom cue: a bell tone with its octave
func ChimeSound(rate beep.SampleRate, vol float64) beep.Streamer {
	fund := NewEnvelope(NewOscillator(660, ChimeDuration, WaveSine, rate), ChimeDuration, chimeAttack, chimeRelease, rate)
	over := NewEnvelope(NewOscillator(1320, ChimeDuration, WaveSine, rate), ChimeDuration, chimeAttack, chimeRelease/2, rate)
	return newVolume(beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3)), vol)
}
