package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllowsWithinBudget(t *testing.T) {
	l := NewLimiter(3, time.Minute)
	defer l.Stop()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !l.Allow(ctx, "1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow(ctx, "1.2.3.4") {
		t.Fatalf("request over budget should be rejected")
	}

	// Other keys have their own budget
	if !l.Allow(ctx, "5.6.7.8") {
		t.Fatalf("different key should be allowed")
	}
}

func TestLimiterWindowExpiry(t *testing.T) {
	l := NewLimiter(1, 50*time.Millisecond)
	defer l.Stop()
	ctx := context.Background()

	if !l.Allow(ctx, "1.2.3.4") {
		t.Fatalf("first request should be allowed")
	}
	if l.Allow(ctx, "1.2.3.4") {
		t.Fatalf("second request should be rejected")
	}

	time.Sleep(60 * time.Millisecond)
	if !l.Allow(ctx, "1.2.3.4") {
		t.Fatalf("request after window expiry should be allowed")
	}
}

func TestLimiterEmptyKeyAlwaysAllowed(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	defer l.Stop()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if !l.Allow(ctx, "") {
			t.Fatalf("empty key must never be limited")
		}
	}
}
