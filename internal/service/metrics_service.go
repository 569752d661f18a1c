package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	attendanceMarks   *prometheus.CounterVec
	exportsTotal      *prometheus.CounterVec
	backupsTotal      *prometheus.CounterVec
	membershipChanges *prometheus.CounterVec
	snapshotLatency   prometheus.Observer
	snapshotHitRatio  prometheus.Gauge

	requestCount         uint64
	requestDurationTotal uint64
	markCount            uint64
	exportCount          uint64
	snapshotHitCount     uint64
	snapshotMissCount    uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	attendanceMarks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_marks_total",
		Help: "Attendance marks written, by resulting mark",
	}, []string{"mark"})

	exportsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exports_total",
		Help: "Generated report exports",
	}, []string{"kind", "format"})

	backupsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backups_total",
		Help: "Backup codec operations",
	}, []string{"operation", "outcome"})

	membershipChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "membership_changes_total",
		Help: "Class membership changes",
	}, []string{"operation"})

	snapshotLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "snapshot_latency_seconds",
		Help:    "Latency for snapshot mirror lookups",
		Buckets: prometheus.DefBuckets,
	})

	snapshotHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snapshot_hit_ratio",
		Help: "Ratio of snapshot mirror hits to total lookups",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, attendanceMarks, exportsTotal, backupsTotal, membershipChanges, snapshotLatency, snapshotHitRatio, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:          registry,
		handler:           handler,
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		attendanceMarks:   attendanceMarks,
		exportsTotal:      exportsTotal,
		backupsTotal:      backupsTotal,
		membershipChanges: membershipChanges,
		snapshotLatency:   snapshotLatency,
		snapshotHitRatio:  snapshotHitRatio,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordAttendanceMark counts written marks. Unmarked is reported as "cleared".
func (m *MetricsService) RecordAttendanceMark(mark models.Mark, n int) {
	if m == nil || n <= 0 {
		return
	}
	label := string(mark)
	if mark == models.MarkUnmarked {
		label = "cleared"
	}
	m.attendanceMarks.WithLabelValues(label).Add(float64(n))
	atomic.AddUint64(&m.markCount, uint64(n))
}

// RecordExport counts generated exports.
func (m *MetricsService) RecordExport(kind, format string) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(kind, format).Inc()
	atomic.AddUint64(&m.exportCount, 1)
}

// RecordBackup counts backup operations by outcome.
func (m *MetricsService) RecordBackup(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.backupsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordMembershipChange counts membership writes.
func (m *MetricsService) RecordMembershipChange(operation string) {
	if m == nil {
		return
	}
	m.membershipChanges.WithLabelValues(operation).Inc()
}

// RecordSnapshotLookup records mirror hit/miss metrics and updates the hit ratio.
func (m *MetricsService) RecordSnapshotLookup(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.snapshotLatency.Observe(duration.Seconds())
	if hit {
		atomic.AddUint64(&m.snapshotHitCount, 1)
	} else {
		atomic.AddUint64(&m.snapshotMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.snapshotHitCount)
	total := hits + atomic.LoadUint64(&m.snapshotMissCount)
	if total > 0 {
		m.snapshotHitRatio.Set(float64(hits) / float64(total))
	}
}

// Snapshot returns aggregated metrics suitable for the dashboard.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	hits := atomic.LoadUint64(&m.snapshotHitCount)
	misses := atomic.LoadUint64(&m.snapshotMissCount)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var ratio float64
	if hits+misses > 0 {
		ratio = float64(hits) / float64(hits+misses)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		MarksRecorded:            atomic.LoadUint64(&m.markCount),
		ExportsGenerated:         atomic.LoadUint64(&m.exportCount),
		SnapshotHitRatio:         ratio,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
