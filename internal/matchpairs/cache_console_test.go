package matchpairs

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestConsolePairCache_RecordAndDecide(t *testing.T) {
	cache := NewConsolePairCache(zap.NewNop())
	ctx := context.Background()

	decided, _, err := cache.Decision(ctx, "a1", "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decided {
		t.Fatal("expected no prior decision")
	}

	if err := cache.RecordConfirmed(ctx, "a1", "b1"); err != nil {
		t.Fatalf("RecordConfirmed: %v", err)
	}

	decided, confirmed, err := cache.Decision(ctx, "a1", "b1")
	if err != nil || !decided || !confirmed {
		t.Fatalf("Decision = (%v, %v, %v), want (true, true, nil)", decided, confirmed, err)
	}

	if err := cache.RecordRejected(ctx, "a2", "b2"); err != nil {
		t.Fatalf("RecordRejected: %v", err)
	}
	decided, confirmed, err = cache.Decision(ctx, "a2", "b2")
	if err != nil || !decided || confirmed {
		t.Fatalf("Decision = (%v, %v, %v), want (true, false, nil)", decided, confirmed, err)
	}

	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
