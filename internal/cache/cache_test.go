package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/roshanbvadassery/send-openputer-kit/internal/cache"
)

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := cache.New[string, int](time.Minute)
	defer c.Close()

	c.Set(ctx, "answer", 42, time.Minute)

	got, ok := c.Get(ctx, "answer")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := cache.New[string, string](time.Minute)
	defer c.Close()

	c.Set(ctx, "k", "v", 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestCache_ZeroTTLNotStored(t *testing.T) {
	ctx := context.Background()
	c := cache.New[string, string](time.Minute)
	defer c.Close()

	c.Set(ctx, "k", "v", 0)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected zero-ttl entry not to be stored")
	}
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := cache.New[string, int](time.Minute)
	defer c.Close()

	c.Set(ctx, "k", 1, time.Minute)
	c.Delete(ctx, "k")

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected deleted entry to miss")
	}
}
