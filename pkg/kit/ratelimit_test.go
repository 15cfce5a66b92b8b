package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(3, time.Minute)

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		if code := hit("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("hit %d: code=%d", i, code)
		}
	}
	if code := hit("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("over limit: code=%d", code)
	}

	// Other clients are unaffected.
	if code := hit("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("other ip: code=%d", code)
	}
}

func TestIPRateLimiterTrustsForwardedFor(t *testing.T) {
	l := NewIPRateLimiter(1, time.Minute)

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "127.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := hit("1.1.1.1, 10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first: code=%d", code)
	}
	if code := hit("1.1.1.1"); code != http.StatusTooManyRequests {
		t.Fatalf("same client: code=%d", code)
	}
	if code := hit("2.2.2.2"); code != http.StatusOK {
		t.Fatalf("other client: code=%d", code)
	}
}
