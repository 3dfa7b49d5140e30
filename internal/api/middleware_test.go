package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPLimiter(t *testing.T) {
	l := newIPLimiter(4, time.Minute) // burst 2
	now := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

	assert.True(t, l.allow("1.1.1.1", now))
	assert.True(t, l.allow("1.1.1.1", now))
	assert.False(t, l.allow("1.1.1.1", now))
	assert.True(t, l.allow("2.2.2.2", now), "clients are limited independently")

	assert.True(t, l.allow("1.1.1.1", now.Add(30*time.Second)))

	l.allow("3.3.3.3", now.Add(20*time.Minute))
	_, kept := l.clients["1.1.1.1"]
	assert.False(t, kept, "idle clients are swept")
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimitMiddleware(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		last = httptest.NewRecorder()
		h.ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "60", last.Header().Get("Retry-After"))
}

func TestTimingMiddleware(t *testing.T) {
	h := TimingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))
	assert.Equal(t, "ok", rec.Body.String())
}
