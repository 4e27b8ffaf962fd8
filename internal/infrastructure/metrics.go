package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Refresh cycle outcomes used as the "result" attribute.
const (
	ResultSuccess    = "success"
	ResultFetchError = "fetch_error"
	ResultParseError = "parse_error"
)

// DashboardMetrics holds the instruments of the dashboard service. All
// methods are safe on a nil receiver.
type DashboardMetrics struct {
	RefreshCycles   metric.Int64Counter
	RefreshSkipped  metric.Int64Counter
	RefreshDuration metric.Float64Histogram
	FetchDuration   metric.Float64Histogram
	FetchBytes      metric.Int64Histogram
	FieldFallbacks  metric.Int64Counter

	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	WebSocketClients metric.Int64UpDownCounter
	Broadcasts       metric.Int64Counter
}

// CreateDashboardMetrics creates every dashboard instrument on meter.
func CreateDashboardMetrics(meter metric.Meter) (*DashboardMetrics, error) {
	m := &DashboardMetrics{}
	var err error

	if m.RefreshCycles, err = meter.Int64Counter(
		"refresh_cycles_total",
		metric.WithDescription("Fetch and parse cycles by result"),
	); err != nil {
		return nil, err
	}
	if m.RefreshSkipped, err = meter.Int64Counter(
		"refresh_skipped_total",
		metric.WithDescription("Scheduled cycles skipped because one was already running"),
	); err != nil {
		return nil, err
	}
	if m.RefreshDuration, err = meter.Float64Histogram(
		"refresh_duration_seconds",
		metric.WithDescription("Duration of a full fetch and parse cycle"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.FetchDuration, err = meter.Float64Histogram(
		"fetch_duration_seconds",
		metric.WithDescription("Time taken to retrieve the daily export"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.FetchBytes, err = meter.Int64Histogram(
		"fetch_size_bytes",
		metric.WithDescription("Size of the retrieved daily export"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if m.FieldFallbacks, err = meter.Int64Counter(
		"field_fallbacks_total",
		metric.WithDescription("Fields that took their default value, by field"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.WebSocketClients, err = meter.Int64UpDownCounter(
		"websocket_clients",
		metric.WithDescription("Connected dashboard websocket clients"),
	); err != nil {
		return nil, err
	}
	if m.Broadcasts, err = meter.Int64Counter(
		"websocket_broadcasts_total",
		metric.WithDescription("Messages broadcast to websocket clients"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordRefresh counts one finished cycle.
func (m *DashboardMetrics) RecordRefresh(ctx context.Context, result string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("result", result))
	m.RefreshCycles.Add(ctx, 1, attrs)
	m.RefreshDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordSkipped counts a scheduled cycle that did not run.
func (m *DashboardMetrics) RecordSkipped(ctx context.Context) {
	if m == nil {
		return
	}
	m.RefreshSkipped.Add(ctx, 1)
}

// RecordFetch records the duration and, on success, the size of a fetch.
func (m *DashboardMetrics) RecordFetch(ctx context.Context, source string, d time.Duration, size int, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.FetchDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status),
	))
	if err == nil {
		m.FetchBytes.Record(ctx, int64(size), metric.WithAttributes(attribute.String("source", source)))
	}
}

// RecordFallbacks counts each field that took its default.
func (m *DashboardMetrics) RecordFallbacks(ctx context.Context, fields []string) {
	if m == nil {
		return
	}
	for _, f := range fields {
		m.FieldFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("field", f)))
	}
}

// RecordHTTPRequest records one served request.
func (m *DashboardMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, d.Seconds(), attrs)
}

// AddActiveRequests moves the in-flight request gauge by delta.
func (m *DashboardMetrics) AddActiveRequests(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.HTTPActiveRequests.Add(ctx, delta)
}

// AddWebSocketClients moves the connected client gauge by delta.
func (m *DashboardMetrics) AddWebSocketClients(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.WebSocketClients.Add(ctx, delta)
}

// RecordBroadcast counts one message sent to the hub.
func (m *DashboardMetrics) RecordBroadcast(ctx context.Context, messageType string) {
	if m == nil {
		return
	}
	m.Broadcasts.Add(ctx, 1, metric.WithAttributes(attribute.String("type", messageType)))
}
