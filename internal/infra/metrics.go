package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	webhooksReceived     atomic.Uint64
	ordersPlaced         atomic.Uint64
	flatCloses           atomic.Uint64
	authRejections       atomic.Uint64
	validationRejections atomic.Uint64
	upstreamErrors       atomic.Uint64

	// Latency tracking for the webhook hotpath
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordWebhook records a received webhook with its handling latency.
func (m *Metrics) RecordWebhook(latencyNs int64) {
	m.webhooksReceived.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordOrderPlaced records an order accepted by the venue.
func (m *Metrics) RecordOrderPlaced() {
	m.ordersPlaced.Add(1)
}

// RecordFlatClose records a FLAT signal that closed positions.
func (m *Metrics) RecordFlatClose() {
	m.flatCloses.Add(1)
}

// RecordAuthRejection records a secret mismatch.
func (m *Metrics) RecordAuthRejection() {
	m.authRejections.Add(1)
}

// RecordValidationRejection records a malformed webhook.
func (m *Metrics) RecordValidationRejection() {
	m.validationRejections.Add(1)
}

// RecordUpstreamError records a failed exchange call.
func (m *Metrics) RecordUpstreamError() {
	m.upstreamErrors.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	WebhooksReceived     uint64    `json:"webhooks_received"`
	OrdersPlaced         uint64    `json:"orders_placed"`
	FlatCloses           uint64    `json:"flat_closes"`
	AuthRejections       uint64    `json:"auth_rejections"`
	ValidationRejections uint64    `json:"validation_rejections"`
	UpstreamErrors       uint64    `json:"upstream_errors"`
	AvgLatencyNs         int64     `json:"avg_latency_ns"`
	Timestamp            time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		WebhooksReceived:     m.webhooksReceived.Load(),
		OrdersPlaced:         m.ordersPlaced.Load(),
		FlatCloses:           m.flatCloses.Load(),
		AuthRejections:       m.authRejections.Load(),
		ValidationRejections: m.validationRejections.Load(),
		UpstreamErrors:       m.upstreamErrors.Load(),
		AvgLatencyNs:         avgLatency,
		Timestamp:            time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.webhooksReceived.Store(0)
	m.ordersPlaced.Store(0)
	m.flatCloses.Store(0)
	m.authRejections.Store(0)
	m.validationRejections.Store(0)
	m.upstreamErrors.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
}
