package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"imagescraper/imagesearch"
)

// Config конфигурация сервиса поиска изображений
type Config struct {
	// Сервер
	Port string `json:"port"`

	// Поиск
	Search *SearchConfig `json:"search"`

	// Валидация изображений
	Validation *ValidationConfig `json:"validation"`

	// Кэш результатов
	Cache *imagesearch.CacheConfig `json:"cache"`

	// История запросов
	History *HistoryConfig `json:"history"`

	// Логирование
	LogLevel string `json:"log_level"`
}

// SearchConfig конфигурация пайплайна поиска
type SearchConfig struct {
	MaxRetries        int           `json:"max_retries"`
	BaseDelay         time.Duration `json:"base_delay"`
	ProviderTimeout   time.Duration `json:"provider_timeout"`
	ProviderRateLimit time.Duration `json:"provider_rate_limit"`
}

// ValidationConfig конфигурация проверки URL изображений
type ValidationConfig struct {
	Timeout time.Duration `json:"timeout"`
}

// HistoryConfig конфигурация хранилища истории запросов
type HistoryConfig struct {
	Enabled         bool          `json:"enabled"`
	DatabasePath    string        `json:"database_path"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	config := &Config{
		// Сервер
		Port: getEnv("SERVER_PORT", "8000"),

		// Поиск
		Search: &SearchConfig{
			MaxRetries:        getEnvInt("SEARCH_MAX_RETRIES", 3),
			BaseDelay:         getEnvDuration("SEARCH_BASE_DELAY", 2*time.Second),
			ProviderTimeout:   getEnvDuration("SEARCH_PROVIDER_TIMEOUT", 10*time.Second),
			ProviderRateLimit: getEnvDuration("SEARCH_PROVIDER_RATE_LIMIT", time.Second),
		},

		// Валидация
		Validation: &ValidationConfig{
			Timeout: getEnvDuration("VALIDATION_TIMEOUT", 5*time.Second),
		},

		// Кэш
		Cache: &imagesearch.CacheConfig{
			Enabled:         getEnv("CACHE_ENABLED", "false") == "true",
			TTL:             getEnvDuration("CACHE_TTL", time.Hour),
			CleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", 10*time.Minute),
			MaxSize:         getEnvInt("CACHE_MAX_SIZE", 1000),
		},

		// История
		History: &HistoryConfig{
			Enabled:         getEnv("HISTORY_ENABLED", "true") == "true",
			DatabasePath:    getEnv("HISTORY_DATABASE_PATH", "history.db"),
			MaxOpenConns:    getEnvInt("HISTORY_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("HISTORY_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvDuration("HISTORY_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		// Логирование
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
