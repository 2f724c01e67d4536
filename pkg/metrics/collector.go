// Package metrics exposes a custom prometheus.Collector tracking live
// sessions, registered devices and frame traffic, grounded on the
// mutex-guarded-map Describe/Collect shape the pack's exporter
// packages use for per-connection TCP_INFO metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// SessionCollector reports gauges sourced from live callbacks
// (active session and registered device counts change constantly and
// are cheap to read on demand) plus counters this package accumulates
// itself (frame totals, rejection totals), since those only ever grow
// and have no single owner to poll.
type SessionCollector struct {
	activeSessions    func() int
	registeredDevices func() int

	mu            sync.Mutex
	framesTotal   map[string]uint64 // keyed by direction: "in"/"out"
	rejectedTotal map[string]uint64 // keyed by rejection reason

	sessionsDesc *prometheus.Desc
	devicesDesc  *prometheus.Desc
	framesDesc   *prometheus.Desc
	rejectedDesc *prometheus.Desc
}

// NewSessionCollector builds a collector that polls activeSessions and
// registeredDevices on every Collect, and accumulates frame/reject
// counts pushed in via IncFrame/IncRejected.
func NewSessionCollector(activeSessions, registeredDevices func() int) *SessionCollector {
	return &SessionCollector{
		activeSessions:    activeSessions,
		registeredDevices: registeredDevices,
		framesTotal:       make(map[string]uint64),
		rejectedTotal:     make(map[string]uint64),
		sessionsDesc: prometheus.NewDesc(
			"sccp_sessions_active", "Number of open TCP sessions.", nil, nil),
		devicesDesc: prometheus.NewDesc(
			"sccp_devices_registered", "Number of devices currently registered.", nil, nil),
		framesDesc: prometheus.NewDesc(
			"sccp_frames_total", "Frames processed, by direction.", []string{"direction"}, nil),
		rejectedDesc: prometheus.NewDesc(
			"sccp_frames_rejected_total", "Registrations rejected, by reason.", []string{"reason"}, nil),
	}
}

// IncFrame records one frame read ("in") or written ("out").
func (c *SessionCollector) IncFrame(direction string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.framesTotal[direction]++
}

// IncRejected records one rejected registration attempt, keyed by the
// REGISTER_REJ reason string sent to the phone.
func (c *SessionCollector) IncRejected(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejectedTotal[reason]++
}

// Describe implements prometheus.Collector.
func (c *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sessionsDesc
	ch <- c.devicesDesc
	ch <- c.framesDesc
	ch <- c.rejectedDesc
}

// Collect implements prometheus.Collector.
func (c *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.sessionsDesc, prometheus.GaugeValue, float64(c.activeSessions()))
	ch <- prometheus.MustNewConstMetric(c.devicesDesc, prometheus.GaugeValue, float64(c.registeredDevices()))

	c.mu.Lock()
	defer c.mu.Unlock()
	for direction, n := range c.framesTotal {
		ch <- prometheus.MustNewConstMetric(c.framesDesc, prometheus.CounterValue, float64(n), direction)
	}
	for reason, n := range c.rejectedTotal {
		ch <- prometheus.MustNewConstMetric(c.rejectedDesc, prometheus.CounterValue, float64(n), reason)
	}
}
