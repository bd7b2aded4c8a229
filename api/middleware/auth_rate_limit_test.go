package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/medsup-innovation/medsup-backend/pkg/logger"
)

type stubLimiterStore struct {
	counts map[string]int64
	err    error
}

func (s *stubLimiterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.counts == nil {
		s.counts = make(map[string]int64)
	}
	s.counts[key]++
	return s.counts[key], nil
}

func rateLimitTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error"), Output: io.Discard})
}

func TestAuthRateLimitBlocksPerIP(t *testing.T) {
	store := &stubLimiterStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)

	var reached int
	handler := AuthRateLimit(policy, store, rateLimitTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached++
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("198.51.100.7"); code != http.StatusOK {
		t.Fatalf("first attempt should pass, got %d", code)
	}
	if code := send("198.51.100.7"); code != http.StatusOK {
		t.Fatalf("second attempt should pass, got %d", code)
	}
	if code := send("198.51.100.7"); code != http.StatusTooManyRequests {
		t.Fatalf("third attempt should be blocked, got %d", code)
	}
	// Another address keeps its own counter.
	if code := send("203.0.113.9"); code != http.StatusOK {
		t.Fatalf("fresh address should pass, got %d", code)
	}
	if reached != 3 {
		t.Fatalf("expected 3 requests to reach the handler, got %d", reached)
	}
}

func TestAuthRateLimitBlocksPerEmailAcrossAddresses(t *testing.T) {
	store := &stubLimiterStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)

	var seenBody string
	handler := AuthRateLimit(policy, store, rateLimitTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seenBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":" Buyer@Hospital.Example ","password":"x"}`))
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("198.51.100.7"); code != http.StatusOK {
		t.Fatalf("first attempt should pass, got %d", code)
	}
	if !strings.Contains(seenBody, "Buyer@Hospital.Example") {
		t.Fatalf("handler must still see the body, got %q", seenBody)
	}
	// Same account from a different address shares the counter.
	if code := send("203.0.113.9"); code != http.StatusTooManyRequests {
		t.Fatalf("second attempt for same email should be blocked, got %d", code)
	}

	for key := range store.counts {
		if strings.Contains(key, "hospital.example") {
			t.Fatalf("raw email must not appear in counter keys: %s", key)
		}
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 5, 5)
	handler := AuthRateLimit(policy, &stubLimiterStore{}, rateLimitTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("disabled policy must not block, got %d", rec.Code)
		}
	}
}
