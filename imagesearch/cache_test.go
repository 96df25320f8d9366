package imagesearch

import (
	"testing"
	"time"

	"imagescraper/imagesearch/types"
)

func TestCacheKey_DeterministicAcrossMapOrder(t *testing.T) {
	a := map[string]interface{}{"query": "cat", "page": 1, "region": "us-en"}
	b := map[string]interface{}{"region": "us-en", "page": 1, "query": "cat"}

	if CacheKey(a) != CacheKey(b) {
		t.Error("cache key must not depend on map iteration order")
	}
}

func TestCacheKey_DistinguishesParams(t *testing.T) {
	a := map[string]interface{}{"query": "cat", "page": 1}
	b := map[string]interface{}{"query": "cat", "page": 2}
	c := map[string]interface{}{"query": "cat", "page": 1, "size": "Large"}

	if CacheKey(a) == CacheKey(b) {
		t.Error("different page must produce different keys")
	}
	if CacheKey(a) == CacheKey(c) {
		t.Error("extra filter must produce a different key")
	}
}

func TestCache_DisabledNeverStores(t *testing.T) {
	cache := NewCache(&CacheConfig{Enabled: false})
	cache.Set("k", []types.NormalizedImage{{Position: 1}})

	if _, found := cache.Get("k"); found {
		t.Error("disabled cache must never return hits")
	}
}

func TestCache_SetGet(t *testing.T) {
	cache := NewCache(&CacheConfig{Enabled: true, TTL: time.Minute, MaxSize: 10})
	images := []types.NormalizedImage{{Position: 1}, {Position: 2}}

	cache.Set("k", images)

	got, found := cache.Get("k")
	if !found {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 {
		t.Errorf("got %d images, want 2", len(got))
	}

	stats := cache.GetStats()
	if stats.Hits != 1 || stats.Size != 1 {
		t.Errorf("stats = %+v, want 1 hit and size 1", stats)
	}
}

func TestCache_ExpiredEntryMisses(t *testing.T) {
	cache := NewCache(&CacheConfig{Enabled: true, TTL: -time.Second})
	cache.Set("k", []types.NormalizedImage{{Position: 1}})

	if _, found := cache.Get("k"); found {
		t.Error("expired entry must miss")
	}
}

func TestCache_EvictsLeastUsedAtCapacity(t *testing.T) {
	cache := NewCache(&CacheConfig{Enabled: true, TTL: time.Minute, MaxSize: 2})

	cache.Set("a", []types.NormalizedImage{{Position: 1}})
	cache.Set("b", []types.NormalizedImage{{Position: 2}})

	// Поднимаем счетчик обращений записи "a"
	cache.Get("a")
	cache.Get("a")

	cache.Set("c", []types.NormalizedImage{{Position: 3}})

	if _, found := cache.Get("a"); !found {
		t.Error("frequently used entry must survive eviction")
	}
	if _, found := cache.Get("b"); found {
		t.Error("least used entry must be evicted")
	}
}

func TestCache_Clear(t *testing.T) {
	cache := NewCache(&CacheConfig{Enabled: true, TTL: time.Minute})
	cache.Set("k", []types.NormalizedImage{{Position: 1}})
	cache.Clear()

	if _, found := cache.Get("k"); found {
		t.Error("cleared cache must miss")
	}
	if stats := cache.GetStats(); stats.Size != 0 {
		t.Errorf("size after clear = %d, want 0", stats.Size)
	}
}
