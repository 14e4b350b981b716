package des

import "runtime"

// Option configures a top-level operation (composition, synthesis,
// estimator construction). Options replace any process-wide switch, so
// concurrent calls with different settings do not interfere.
type Option func(*config)

type config struct {
	workers  int
	metrics  *Metrics
	minimize bool
}

func newConfig(opts []Option) *config {
	c := &config{workers: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parallel spreads the expansion of each exploration frontier over the
// given number of worker goroutines; workers <= 0 uses one per CPU.
func Parallel(workers int) Option {
	return func(c *config) {
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		c.workers = workers
	}
}

// WithMetrics records exploration counters into m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// Minimized makes synthesis return minimal supervisors.
func Minimized() Option {
	return func(c *config) { c.minimize = true }
}

func (c *config) count(name string, delta int) {
	if c.metrics != nil {
		c.metrics.Add(name, delta)
	}
}
