// Package status keeps lock-free runtime counters for the terminal host.
package status

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Registry groups counters and gauges by name
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// Count returns the number of metrics
func (r *Registry) Count() int {
	return r.Ints.Count() + r.Floats.Count()
}

// MarshalZerologObject writes every metric as a field, so a registry can be logged with Object
func (r *Registry) MarshalZerologObject(e *zerolog.Event) {
	r.Ints.Range(func(k string, v *atomic.Int64) { e.Int64(k, v.Load()) })
	r.Floats.Range(func(k string, v *AtomicFloat) { e.Float64(k, v.Get()) })
}
