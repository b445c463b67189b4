package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsSuccess    uint64
	RequestsFailed     uint64
	ScreeningsTotal    uint64
	ScreeningsFailed   uint64
	VideosAnalysed     uint64
	VideosFailed       uint64
	RiskLow            uint64
	RiskMedium         uint64
	RiskHigh           uint64
	StartTime          time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// IncrementRequests increments total request counter
func IncrementRequests() {
	atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
}

// IncrementInProgress increments in-progress request counter
func IncrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
}

// DecrementInProgress decrements in-progress request counter
func DecrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))
}

// IncrementSuccess increments successful request counter
func IncrementSuccess() {
	atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
}

// IncrementFailed increments failed request counter
func IncrementFailed() {
	atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
}

// RecordScreening counts a persisted screening by tier and its video outcomes.
func RecordScreening(level string, videosRequested, videosAnalysed int) {
	atomic.AddUint64(&globalMetrics.ScreeningsTotal, 1)
	switch level {
	case "high":
		atomic.AddUint64(&globalMetrics.RiskHigh, 1)
	case "medium":
		atomic.AddUint64(&globalMetrics.RiskMedium, 1)
	default:
		atomic.AddUint64(&globalMetrics.RiskLow, 1)
	}
	atomic.AddUint64(&globalMetrics.VideosAnalysed, uint64(videosAnalysed))
	if videosRequested > videosAnalysed {
		atomic.AddUint64(&globalMetrics.VideosFailed, uint64(videosRequested-videosAnalysed))
	}
}

// IncrementScreeningsFailed counts submissions that produced no screening.
func IncrementScreeningsFailed() {
	atomic.AddUint64(&globalMetrics.ScreeningsFailed, 1)
}

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&globalMetrics.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"screenings_total":     atomic.LoadUint64(&globalMetrics.ScreeningsTotal),
		"screenings_failed":    atomic.LoadUint64(&globalMetrics.ScreeningsFailed),
		"videos_analysed":      atomic.LoadUint64(&globalMetrics.VideosAnalysed),
		"videos_failed":        atomic.LoadUint64(&globalMetrics.VideosFailed),
		"risk_levels": map[string]uint64{
			"low":    atomic.LoadUint64(&globalMetrics.RiskLow),
			"medium": atomic.LoadUint64(&globalMetrics.RiskMedium),
			"high":   atomic.LoadUint64(&globalMetrics.RiskHigh),
		},
		"uptime_seconds": time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		IncrementRequests()
		IncrementInProgress()
		defer DecrementInProgress()

		// Wrap response writer to capture status
		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		// Track success/failure based on status code
		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			IncrementSuccess()
		} else {
			IncrementFailed()
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(GetMetrics())
}
