package editorjs

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Skip reasons reported by editorjs_blocks_skipped_total.
const (
	skipUnknown = "unknown_type"
	skipOmitted = "omitted"
)

// metrics holds the render collectors. A nil *metrics records nothing.
type metrics struct {
	rendered *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	batches  *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		rendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "editorjs_blocks_rendered_total",
			Help: "Blocks rendered, by block type.",
		}, []string{"type"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "editorjs_blocks_skipped_total",
			Help: "Blocks left out of the output, by reason.",
		}, []string{"reason"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "editorjs_inline_batches_total",
			Help: "Bulk inline resolutions, by tool.",
		}, []string{"tool"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "editorjs_render_duration_seconds",
			Help:    "Time spent rendering one document.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}

	var err error
	if m.rendered, err = register(reg, m.rendered); err != nil {
		return nil, err
	}
	if m.skipped, err = register(reg, m.skipped); err != nil {
		return nil, err
	}
	if m.batches, err = register(reg, m.batches); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// register registers c, reusing the collector already registered under the
// same descriptor so several registries can share one Registerer.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) blockRendered(kind string) {
	if m != nil {
		m.rendered.WithLabelValues(kind).Inc()
	}
}

func (m *metrics) blockSkipped(reason string) {
	if m != nil {
		m.skipped.WithLabelValues(reason).Inc()
	}
}

func (m *metrics) inlineBatch(tool string) {
	if m != nil {
		m.batches.WithLabelValues(tool).Inc()
	}
}

func (m *metrics) observe(start time.Time) {
	if m != nil {
		m.duration.Observe(time.Since(start).Seconds())
	}
}
