package bufferpool

import "log/slog"

// DefaultMaxUsageCount caps the per-frame usage count, as PostgreSQL does with
// BM_MAX_USAGE_COUNT.
const DefaultMaxUsageCount = 5

type options struct {
	maxUsageCount uint32
	logger        *slog.Logger
	metrics       *Metrics
}

type Option func(*options)

// WithMaxUsageCount caps how far hits raise a frame's usage count. Zero disables the cap.
func WithMaxUsageCount(n uint32) Option {
	return func(o *options) { o.maxUsageCount = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics makes the manager report to m. See NewMetrics.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func defaultOptions() options {
	return options{
		maxUsageCount: DefaultMaxUsageCount,
		logger:        slog.Default(),
	}
}
