package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimitMiddleware(NewRateLimiter(0.001, 2))(okHandler())

	do := func(path, ip string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do("/v1/screenings", "10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, do("/v1/screenings", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("/v1/screenings", "10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, do("/v1/screenings", "10.0.0.2"))
	assert.Equal(t, http.StatusNoContent, do("/health", "10.0.0.1"))
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Allow("a")
	rl.Sweep(time.Now())
	assert.Equal(t, 1, rl.size())
	rl.Sweep(time.Now().Add(11 * time.Minute))
	assert.Equal(t, 0, rl.size())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	assert.Equal(t, "203.0.113.9", clientIP(req))
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	assert.Equal(t, "198.51.100.1", clientIP(req))
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("child_id", "child-42_a"))
	assert.True(t, errors.Is(ValidateID("child_id", ""), ErrValidation))
	assert.True(t, errors.Is(ValidateID("child_id", "a/b"), ErrValidation))
}

func TestValidateVideoURL(t *testing.T) {
	for _, ok := range []string{"", "https://res.cloudinary.com/x/video/upload/a.mp4", "minio://videos/p/c/social-1.mp4", "https://172.32.0.1/v.mp4"} {
		assert.NoError(t, ValidateVideoURL(ok), ok)
	}
	for _, bad := range []string{"ftp://x/a.mp4", "http://localhost/a.mp4", "http://192.168.1.4/a.mp4", "minio://videos", "http://169.254.169.254/latest",
		"http://172.20.0.5/v.mp4", "http://100.64.0.1/v.mp4", "http://[::1]/v.mp4", "http://[fd00::1]/v.mp4",
		"http://0.0.0.0/v.mp4", "http://api.localhost/v.mp4", "http:///v.mp4"} {
		assert.True(t, errors.Is(ValidateVideoURL(bad), ErrValidation), bad)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("dob", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("dob", "01/06/2024")
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = ParseDate("dob", "")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello world", SanitizeString("  hello\x00 world\x07 "))
}

func TestHealthHandler(t *testing.T) {
	h := HealthHandler(map[string]HealthChecker{
		"db":    CheckFunc(func(context.Context) error { return nil }),
		"store": CheckFunc(func(context.Context) error { return errors.New("bucket unreachable") }),
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "healthy", body.Checks["db"].Status)
	assert.Equal(t, "bucket unreachable", body.Checks["store"].Message)
}

func TestMetricsMiddleware(t *testing.T) {
	before := GetMetrics()["requests_failed"].(uint64)
	h := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, before+1, GetMetrics()["requests_failed"].(uint64))
}

func TestRecordScreening(t *testing.T) {
	m := GetMetrics()
	high := m["risk_levels"].(map[string]uint64)["high"]
	failed := m["videos_failed"].(uint64)

	RecordScreening("high", 3, 2)

	m = GetMetrics()
	assert.Equal(t, high+1, m["risk_levels"].(map[string]uint64)["high"])
	assert.Equal(t, failed+1, m["videos_failed"].(uint64))
}
