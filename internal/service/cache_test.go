package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestPromptCacheKey(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{
			name: "Case and whitespace insensitive",
			a:    PromptCacheKey("Coffee Shop", " Senopati ", 2000, nil),
			b:    PromptCacheKey("coffee shop", "senopati", 2000, nil),
			same: true,
		},
		{
			name: "Radius distinguishes",
			a:    PromptCacheKey("coffee", "senopati", 2000, nil),
			b:    PromptCacheKey("coffee", "senopati", 3000, nil),
			same: false,
		},
		{
			name: "Coordinates fixed to 6 decimals collapse float noise",
			a:    PromptCacheKey("coffee", "", 2000, &Coordinates{Lat: -6.2, Lng: 106.8}),
			b:    PromptCacheKey("coffee", "", 2000, &Coordinates{Lat: -6.2000000001, Lng: 106.8}),
			same: true,
		},
		{
			name: "Different coordinates distinguish",
			a:    PromptCacheKey("coffee", "", 2000, &Coordinates{Lat: -6.2, Lng: 106.8}),
			b:    PromptCacheKey("coffee", "", 2000, &Coordinates{Lat: -6.3, Lng: 106.8}),
			same: false,
		},
		{
			name: "With and without coordinates distinguish",
			a:    PromptCacheKey("coffee", "senopati", 2000, nil),
			b:    PromptCacheKey("coffee", "senopati", 2000, &Coordinates{Lat: -6.2, Lng: 106.8}),
			same: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.a == tt.b) != tt.same {
				t.Errorf("keys %q and %q: same = %v, want %v", tt.a, tt.b, tt.a == tt.b, tt.same)
			}
		})
	}
}

func TestQueryCacheKey(t *testing.T) {
	withCoords := QueryCacheKey("Sushi", &Coordinates{Lat: -6.2, Lng: 106.8})
	sameCoords := QueryCacheKey("sushi ", &Coordinates{Lat: -6.2, Lng: 106.8})
	noCoords := QueryCacheKey("sushi", nil)

	if withCoords != sameCoords {
		t.Errorf("equivalent keys differ: %q vs %q", withCoords, sameCoords)
	}
	if withCoords == noCoords {
		t.Error("keys with and without coordinates must differ")
	}
	if withCoords == QueryCacheKey("ramen", &Coordinates{Lat: -6.2, Lng: 106.8}) {
		t.Error("different queries must produce different keys")
	}
}

func TestMemoryCache_TTL(t *testing.T) {
	now := time.Now()
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	if err := cache.Set(ctx, "k", []byte("v"), 10*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, ok, err := cache.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, %v; want hit", value, ok, err)
	}
	if string(value) != "v" {
		t.Errorf("Get() value = %q, want %q", value, "v")
	}

	// Advance past the TTL
	now = now.Add(10*time.Minute + time.Second)

	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Error("Get() after TTL expiry should miss")
	}

	// Expired entry was removed, not just hidden
	cache.mu.Lock()
	_, stillThere := cache.entries["k"]
	cache.mu.Unlock()
	if stillThere {
		t.Error("expired entry should be deleted on access")
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	cache := NewMemoryCache()
	if _, ok, err := cache.Get(context.Background(), "absent"); ok || err != nil {
		t.Errorf("Get() on empty cache = %v, %v; want miss without error", ok, err)
	}
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	cache, err := NewRedisCache("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	defer cache.Close()

	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "absent"); ok || err != nil {
		t.Fatalf("Get() miss = %v, %v; want clean miss", ok, err)
	}

	if err := cache.Set(ctx, "k", []byte(`{"cached": true}`), 10*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, ok, err := cache.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want hit", ok, err)
	}
	if string(value) != `{"cached": true}` {
		t.Errorf("Get() value = %q", value)
	}

	// TTL expiry
	mr.FastForward(11 * time.Minute)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Error("Get() after TTL expiry should miss")
	}
}

func TestNewRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache("not-a-url"); err == nil {
		t.Error("NewRedisCache() should reject an unparseable URL")
	}
}
