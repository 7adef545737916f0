package infra

import (
	"testing"
)

func TestMetrics_RecordWebhook(t *testing.T) {
	m := &Metrics{}

	m.RecordWebhook(1000)
	m.RecordWebhook(2000)
	m.RecordWebhook(3000)

	snap := m.Snapshot()

	if snap.WebhooksReceived != 3 {
		t.Errorf("Expected 3 webhooks, got %d", snap.WebhooksReceived)
	}

	// Average latency: (1000 + 2000 + 3000) / 3 = 2000
	if snap.AvgLatencyNs != 2000 {
		t.Errorf("Expected avg latency 2000, got %d", snap.AvgLatencyNs)
	}
}

func TestMetrics_Rejections(t *testing.T) {
	m := &Metrics{}

	m.RecordAuthRejection()
	m.RecordValidationRejection()
	m.RecordValidationRejection()
	m.RecordUpstreamError()

	snap := m.Snapshot()
	if snap.AuthRejections != 1 {
		t.Errorf("Expected 1 auth rejection, got %d", snap.AuthRejections)
	}
	if snap.ValidationRejections != 2 {
		t.Errorf("Expected 2 validation rejections, got %d", snap.ValidationRejections)
	}
	if snap.UpstreamErrors != 1 {
		t.Errorf("Expected 1 upstream error, got %d", snap.UpstreamErrors)
	}
}

func TestMetrics_Orders(t *testing.T) {
	m := &Metrics{}

	m.RecordOrderPlaced()
	m.RecordOrderPlaced()
	m.RecordFlatClose()

	snap := m.Snapshot()
	if snap.OrdersPlaced != 2 {
		t.Errorf("Expected 2 orders placed, got %d", snap.OrdersPlaced)
	}
	if snap.FlatCloses != 1 {
		t.Errorf("Expected 1 flat close, got %d", snap.FlatCloses)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}

	m.RecordWebhook(1000)
	m.RecordOrderPlaced()
	m.RecordUpstreamError()

	m.Reset()
	snap := m.Snapshot()

	if snap.WebhooksReceived != 0 {
		t.Error("Expected 0 webhooks after reset")
	}
	if snap.OrdersPlaced != 0 {
		t.Error("Expected 0 orders after reset")
	}
	if snap.UpstreamErrors != 0 {
		t.Error("Expected 0 upstream errors after reset")
	}
	if snap.AvgLatencyNs != 0 {
		t.Error("Expected 0 avg latency after reset")
	}
}
