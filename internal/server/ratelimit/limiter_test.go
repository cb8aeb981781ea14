package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterAllowsWithinBurst(t *testing.T) {
	l := NewLimiter(60, time.Minute, 5)
	defer l.Close()

	for i := range 5 {
		result := l.Allow("key")
		if !result.Allowed {
			t.Fatalf("request %d denied within burst", i)
		}
	}
}

func TestLimiterDeniesOverBurst(t *testing.T) {
	l := NewLimiter(1, time.Minute, 1)
	defer l.Close()

	if result := l.Allow("key"); !result.Allowed {
		t.Fatal("first request denied")
	}
	result := l.Allow("key")
	if result.Allowed {
		t.Fatal("second request should be denied")
	}
	if result.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want positive", result.RetryAfter)
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := NewLimiter(1, time.Minute, 1)
	defer l.Close()

	l.Allow("a")
	l.Allow("a")
	if result := l.Allow("b"); !result.Allowed {
		t.Error("key b should have its own bucket")
	}
}

func TestLimiterResultFields(t *testing.T) {
	l := NewLimiter(60, time.Minute, 10)
	defer l.Close()

	result := l.Allow("key")
	if result.Limit != 60 {
		t.Errorf("Limit = %d, want 60", result.Limit)
	}
	if result.Remaining < 0 {
		t.Errorf("Remaining = %d, want >= 0", result.Remaining)
	}
	if result.ResetAt.Before(time.Now().Add(-time.Second)) {
		t.Errorf("ResetAt = %v, in the past", result.ResetAt)
	}
}
