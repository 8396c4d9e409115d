package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMemoryLimiterWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewMemoryLimiter(ctx, 3, time.Minute)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		if ok, _ := rl.Allow(ctx, "1.2.3.4"); !ok {
			t.Fatalf("request %d rejected inside the limit", i+1)
		}
	}
	if ok, _ := rl.Allow(ctx, "1.2.3.4"); ok {
		t.Fatal("request over the limit allowed")
	}
	if ok, _ := rl.Allow(ctx, "5.6.7.8"); !ok {
		t.Error("other client rejected")
	}

	clock = clock.Add(time.Minute)
	if ok, _ := rl.Allow(ctx, "1.2.3.4"); !ok {
		t.Error("request in a fresh window rejected")
	}

	clock = clock.Add(2 * time.Minute)
	rl.cleanup()
	if n := len(rl.visitors); n != 0 {
		t.Errorf("%d visitors left after cleanup", n)
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis unavailable")
}

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	limited := RateLimit(NewMemoryLimiter(ctx, 2, time.Minute))(ok)
	codes := make([]int, 0, 3)
	for k := 0; k < 3; k++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	open := RateLimit(failingLimiter{})(ok)
	rec := httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("limiter error returned %d, want request let through", rec.Code)
	}
}
