package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain streams s to completion and returns the left channel
func drain(t *testing.T, s beep.Streamer) []float64 {
	t.Helper()
	var out []float64
	buf := make([][2]float64, 512)
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			out = append(out, smp[0])
		}
		if !ok {
			return out
		}
	}
	t.Fatal("stream never ended")
	return nil
}

func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(1000)
	samples := drain(t, NewOscillator(50, 100*time.Millisecond, WaveSine, rate))
	assert.Len(t, samples, 100)
	for i, v := range samples {
		require.LessOrEqual(t, math.Abs(v), 1.0, "sample %d", i)
	}
}

func TestSweepRisesInPitch(t *testing.T) {
	rate := beep.SampleRate(8000)
	samples := drain(t, NewSweep(20, 400, time.Second, WaveSine, rate))

	crossings := func(part []float64) int {
		n := 0
		for i := 1; i < len(part); i++ {
			if (part[i-1] < 0) != (part[i] < 0) {
				n++
			}
		}
		return n
	}
	half := len(samples) / 2
	assert.Greater(t, crossings(samples[half:]), 2*crossings(samples[:half]))
}

func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(1000)
	dc := beep.StreamerFunc(func(s [][2]float64) (int, bool) {
		for i := range s {
			s[i] = [2]float64{1, 1}
		}
		return len(s), true
	})
	samples := drain(t, NewEnvelope(dc, 100*time.Millisecond, 10*time.Millisecond, 20*time.Millisecond, rate))

	require.Len(t, samples, 100)
	assert.Equal(t, 0.0, samples[0], "attack starts silent")
	assert.InDelta(t, 0.5, samples[5], 1e-9)
	assert.Equal(t, 1.0, samples[50], "sustain")
	assert.InDelta(t, 0.05, samples[99], 1e-9, "release ends near zero")
}

func TestCuesAreBounded(t *testing.T) {
	for name, s := range map[string]beep.Streamer{
		"whoosh": WhooshSound(sampleRate, 1),
		"chime":  ChimeSound(sampleRate, 1),
	} {
		samples := drain(t, s)
		assert.NotEmpty(t, samples, name)
		for _, v := range samples {
			if math.IsNaN(v) || math.Abs(v) > 1 {
				t.Fatalf("%s: sample %v out of range", name, v)
			}
		}
	}
}

func TestSilentVolume(t *testing.T) {
	samples := drain(t, ChimeSound(beep.SampleRate(2000), 0))
	for _, v := range samples {
		require.Zero(t, v)
	}
}

func TestPlayerDisabledIsSilent(t *testing.T) {
	p := NewPlayer(DefaultConfig(), zerolog.Nop())
	require.NoError(t, p.Init(), "disabled players never open the device")
	assert.False(t, p.Active())

	assert.NotPanics(t, func() {
		p.Whoosh()
		p.Chime()
		p.Close()
	})
}
