package bufferpool

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the Prometheus collectors a Manager reports to.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Hits        prometheus.Counter
	Misses      prometheus.Counter
	Evictions   prometheus.Counter
	Writebacks  prometheus.Counter
	Flushes     prometheus.Counter
	Exhaustions prometheus.Counter
	IOErrors    *prometheus.CounterVec
	Resident    prometheus.Gauge
	Pinned      prometheus.Gauge
}

// NewMetrics creates the collectors under namespace and registers them with reg
// when reg is non-nil.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	const subsystem = "bufferpool"
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}

	m := &Metrics{
		Hits:        counter("hits_total", "Page requests served from a resident frame."),
		Misses:      counter("misses_total", "Page requests that needed a frame."),
		Evictions:   counter("evictions_total", "Resident pages replaced by another page."),
		Writebacks:  counter("writebacks_total", "Dirty victims written before reuse."),
		Flushes:     counter("flushes_total", "Explicit page flushes."),
		Exhaustions: counter("no_free_buffer_total", "Requests that failed because every frame was pinned."),
		IOErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "io_errors_total",
			Help:      "Disk manager failures by operation.",
		}, []string{"op"}),
		Resident: gauge("resident_pages", "Pages currently held in a frame."),
		Pinned:   gauge("pinned_frames", "Frames with at least one outstanding guard."),
	}

	if reg != nil {
		reg.MustRegister(
			m.Hits, m.Misses, m.Evictions, m.Writebacks, m.Flushes,
			m.Exhaustions, m.IOErrors, m.Resident, m.Pinned,
		)
	}
	return m
}

func (m *Metrics) hit() {
	if m != nil {
		m.Hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.Misses.Inc()
	}
}

func (m *Metrics) eviction() {
	if m != nil {
		m.Evictions.Inc()
	}
}

func (m *Metrics) writeback() {
	if m != nil {
		m.Writebacks.Inc()
	}
}

func (m *Metrics) flush() {
	if m != nil {
		m.Flushes.Inc()
	}
}

func (m *Metrics) exhausted() {
	if m != nil {
		m.Exhaustions.Inc()
	}
}

func (m *Metrics) ioError(op string) {
	if m != nil {
		m.IOErrors.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) setResident(n int) {
	if m != nil {
		m.Resident.Set(float64(n))
	}
}

func (m *Metrics) addPinned(delta int) {
	if m != nil {
		m.Pinned.Add(float64(delta))
	}
}
