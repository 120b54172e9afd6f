package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_FirstCallDoesNotBlock(t *testing.T) {
	l := New(50 * time.Millisecond)
	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
		t.Errorf("first call blocked for %v, want near-instant", elapsed)
	}
}

func TestLimiter_SecondCallWaitsOutInterval(t *testing.T) {
	l := New(30 * time.Millisecond)
	ctx := context.Background()

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	start := time.Now()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("second call returned after %v, want it to wait out the interval", elapsed)
	}
}

func TestLimiter_RespectsCancellation(t *testing.T) {
	l := New(time.Hour)
	_ = l.Wait(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Fatal("expected context deadline error")
	}
}
