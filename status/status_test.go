package status

import (
	"bytes"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestMetricMapCachesPointers(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	a := m.Get("frame_ms")
	a.Set(4.5)
	assert.Same(t, a, m.Get("frame_ms"))
	assert.Equal(t, 4.5, m.Get("frame_ms").Get())
	assert.Equal(t, 1, m.Count())
}

func TestAtomicFloatMax(t *testing.T) {
	var f AtomicFloat
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			f.Max(v)
		}(float64(i))
	}
	wg.Wait()
	assert.Equal(t, 50.0, f.Get())
	assert.Equal(t, 50.0, f.Max(3))
}

func TestRegistryLogsInKeyOrder(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get("frames").Add(3)
	r.Ints.Get("events").Add(1)
	r.Floats.Get("frame_ms").Set(2)
	assert.Equal(t, 3, r.Count())

	var buf bytes.Buffer
	log := zerolog.New(&buf)
	log.Info().Object("stats", r).Send()
	assert.JSONEq(t, `{"level":"info","stats":{"events":1,"frames":3,"frame_ms":2}}`, buf.String())
}
