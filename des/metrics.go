package des

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Counter names recorded by the library.
const (
	MetricStatesExplored      = "states_explored"
	MetricTransitionsExplored = "transitions_explored"
	MetricFrontierLevels      = "frontier_levels"
	MetricStatesRemoved       = "states_removed"
	MetricSynthesisPasses     = "synthesis_passes"
)

var metricDescriptions = map[string]string{
	MetricStatesExplored:      "composite states materialized",
	MetricTransitionsExplored: "composite transitions materialized",
	MetricFrontierLevels:      "breadth-first frontier levels expanded",
	MetricStatesRemoved:       "states removed by supervisor synthesis",
	MetricSynthesisPasses:     "fixed-point passes of supervisor synthesis",
}

// Metrics collects named counters. It is safe for concurrent use, so
// one collector can be shared by several operations.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewMetrics() *Metrics {
	return &Metrics{counters: make(map[string]int)}
}

func (m *Metrics) Add(name string, delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += delta
}

func (m *Metrics) Get(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

// Table renders the counters as a markdown table sorted by name.
func (m *Metrics) Table() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("| Metric | Value | Description |\n")
	sb.WriteString("|--------|-------|-------------|\n")

	names := make([]string, 0, len(m.counters))
	for name := range m.counters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n",
			name, m.counters[name], metricDescriptions[name]))
	}
	return sb.String()
}
