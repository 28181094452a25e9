package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGuardSingleHolder(t *testing.T) {
	guard := NewMemoryGuard(time.Minute)
	ctx := context.Background()

	ok, err := guard.Acquire(ctx, "sync")
	if err != nil || !ok {
		t.Fatalf("first Acquire() = %v, %v", ok, err)
	}

	ok, err = guard.Acquire(ctx, "sync")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("second Acquire() should fail while held")
	}

	// Other keys are independent.
	ok, _ = guard.Acquire(ctx, "other")
	if !ok {
		t.Error("Acquire() on other key should succeed")
	}

	if err := guard.Release(ctx, "sync"); err != nil {
		t.Fatal(err)
	}
	ok, _ = guard.Acquire(ctx, "sync")
	if !ok {
		t.Error("Acquire() after Release() should succeed")
	}
}

func TestMemoryGuardExpiry(t *testing.T) {
	guard := NewMemoryGuard(10 * time.Millisecond)
	ctx := context.Background()

	if ok, _ := guard.Acquire(ctx, "sync"); !ok {
		t.Fatal("first Acquire() failed")
	}

	time.Sleep(20 * time.Millisecond)

	if ok, _ := guard.Acquire(ctx, "sync"); !ok {
		t.Error("Acquire() after expiry should succeed")
	}
}
