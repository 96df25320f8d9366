package imagesearch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"imagescraper/imagesearch/types"
)

// CacheConfig конфигурация кэша результатов.
// Кэш выключен по умолчанию: без него каждый запрос полностью транзитен.
type CacheConfig struct {
	Enabled         bool          `json:"enabled"`
	TTL             time.Duration `json:"ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
	MaxSize         int           `json:"max_size"`
}

// CacheEntry запись в кэше
type CacheEntry struct {
	Images      []types.NormalizedImage
	Expiration  time.Time
	AccessCount int64
}

// Cache кэш нормализованных результатов поиска.
// Ключ — отпечаток карты параметров; валидация URL в кэш не попадает,
// она выполняется заново для каждого запроса.
type Cache struct {
	config *CacheConfig
	data   map[string]*CacheEntry
	mutex  sync.RWMutex
	stats  CacheStats
}

// CacheStats статистика кэша
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// NewCache создает новый кэш результатов
func NewCache(config *CacheConfig) *Cache {
	cache := &Cache{
		config: config,
		data:   make(map[string]*CacheEntry),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go cache.startCleanup()
	}

	return cache
}

// CacheKey строит детерминированный ключ из карты параметров:
// ключи сортируются, пары сериализуются и хэшируются
func CacheKey(params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var canonical strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&canonical, "%s=%v;", key, params[key])
	}

	hash := sha256.Sum256([]byte(canonical.String()))
	return hex.EncodeToString(hash[:])
}

// Get возвращает результат из кэша
func (c *Cache) Get(key string) ([]types.NormalizedImage, bool) {
	if !c.config.Enabled {
		return nil, false
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.data[key]
	if !exists || time.Now().After(entry.Expiration) {
		c.stats.Misses++
		return nil, false
	}

	entry.AccessCount++
	c.stats.Hits++
	return entry.Images, true
}

// Set сохраняет результат в кэш
func (c *Cache) Set(key string, images []types.NormalizedImage) {
	if !c.config.Enabled {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.config.MaxSize > 0 && len(c.data) >= c.config.MaxSize {
		c.evictLeastUsed()
	}

	c.data[key] = &CacheEntry{
		Images:      images,
		Expiration:  time.Now().Add(c.config.TTL),
		AccessCount: 1,
	}
	c.stats.Size = len(c.data)
}

// Clear очищает весь кэш
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]*CacheEntry)
	c.stats = CacheStats{}
}

// GetStats возвращает статистику кэша
func (c *Cache) GetStats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := c.stats
	stats.Size = len(c.data)
	return stats
}

// evictLeastUsed удаляет наименее используемую запись
func (c *Cache) evictLeastUsed() {
	var victim string
	var victimCount int64 = -1

	for key, entry := range c.data {
		if victimCount == -1 || entry.AccessCount < victimCount {
			victim = key
			victimCount = entry.AccessCount
		}
	}

	if victim != "" {
		delete(c.data, victim)
	}
}

// startCleanup запускает периодическую очистку устаревших записей
func (c *Cache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

// cleanup удаляет устаревшие записи
func (c *Cache) cleanup() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.After(entry.Expiration) {
			delete(c.data, key)
		}
	}
	c.stats.Size = len(c.data)
}
