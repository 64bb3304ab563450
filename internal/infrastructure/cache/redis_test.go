package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"elderguard/pkg/logger"
)

func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewFromClient(client, "test:", logger.Nop()), s
}

func TestRedisCache_JSONRoundTrip(t *testing.T) {
	c, s := setupTestCache(t)
	ctx := context.Background()

	type payload struct {
		URL  string `json:"url"`
		Safe bool   `json:"safe"`
	}

	if err := c.SetJSON(ctx, "k", payload{URL: "https://a.example", Safe: true}, time.Minute); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}
	if !s.Exists("test:k") {
		t.Fatal("expected prefixed key test:k to exist")
	}

	var got payload
	if err := c.GetJSON(ctx, "k", &got); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got.URL != "https://a.example" || !got.Safe {
		t.Errorf("GetJSON() = %+v", got)
	}
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := setupTestCache(t)

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, ErrMiss) {
		t.Errorf("Get() error = %v, want ErrMiss", err)
	}
}

func TestRedisCache_Delete(t *testing.T) {
	c, s := setupTestCache(t)
	ctx := context.Background()

	for _, k := range []string{"a", "b"} {
		if err := c.Set(ctx, k, "v", time.Minute); err != nil {
			t.Fatalf("Set(%q) error = %v", k, err)
		}
	}

	if err := c.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if s.Exists("test:a") || s.Exists("test:b") {
		t.Errorf("keys left after Delete: %v", s.Keys())
	}
}

func TestRedisCache_CheckRateLimit(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		allowed, remaining, _, err := c.CheckRateLimit(ctx, "client", 3, time.Minute)
		if err != nil {
			t.Fatalf("CheckRateLimit() error = %v", err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
		if remaining != int64(3-i) {
			t.Errorf("request %d remaining = %d, want %d", i, remaining, 3-i)
		}
	}

	allowed, remaining, _, err := c.CheckRateLimit(ctx, "client", 3, time.Minute)
	if err != nil {
		t.Fatalf("CheckRateLimit() error = %v", err)
	}
	if allowed || remaining != 0 {
		t.Errorf("4th request allowed=%v remaining=%d, want false 0", allowed, remaining)
	}
}

func TestURLScanKey(t *testing.T) {
	a := URLScanKey("https://a.example")
	b := URLScanKey("https://b.example")
	if a == b {
		t.Error("different URLs share a key")
	}
	if a != URLScanKey("https://a.example") {
		t.Error("key not stable")
	}
	if len(a) != len(KeyURLScanPrefix)+64 {
		t.Errorf("unexpected key length %d", len(a))
	}
}
