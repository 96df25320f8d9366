package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"imagescraper/imagesearch"
)

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	// Валидация порта
	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	// Валидация поиска
	if c.Search == nil {
		errors = append(errors, "search config is required")
	} else {
		if c.Search.MaxRetries < 1 {
			errors = append(errors, "search max retries must be at least 1")
		}
		if c.Search.BaseDelay <= 0 {
			errors = append(errors, "search base delay must be positive")
		}
		if c.Search.ProviderTimeout < time.Second {
			errors = append(errors, "provider timeout must be at least 1 second")
		}
		if c.Search.ProviderRateLimit <= 0 {
			errors = append(errors, "provider rate limit must be positive")
		}
	}

	// Валидация проверки изображений
	if c.Validation == nil {
		errors = append(errors, "validation config is required")
	} else if c.Validation.Timeout < time.Second {
		errors = append(errors, "validation timeout must be at least 1 second")
	}

	// Валидация кэша
	if c.Cache != nil && c.Cache.Enabled {
		if c.Cache.TTL < time.Minute {
			errors = append(errors, "cache TTL must be at least 1 minute")
		}
		if c.Cache.CleanupInterval < time.Minute {
			errors = append(errors, "cache cleanup interval must be at least 1 minute")
		}
		if c.Cache.MaxSize < 1 {
			errors = append(errors, "cache max size must be at least 1")
		}
	}

	// Валидация истории
	if c.History != nil && c.History.Enabled {
		if c.History.DatabasePath == "" {
			errors = append(errors, "history database path is required")
		}
		if c.History.MaxOpenConns < 1 {
			errors = append(errors, "history max open connections must be at least 1")
		}
		if c.History.MaxIdleConns < 1 {
			errors = append(errors, "history max idle connections must be at least 1")
		}
		if c.History.MaxIdleConns > c.History.MaxOpenConns {
			errors = append(errors, "history max idle connections cannot be greater than max open connections")
		}
		if c.History.ConnMaxLifetime < time.Second {
			errors = append(errors, "history connection max lifetime must be at least 1 second")
		}
	}

	// Валидация уровня логирования
	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if c.LogLevel != "" {
		valid := false
		logLevelUpper := strings.ToUpper(c.LogLevel)
		for _, level := range validLogLevels {
			if logLevelUpper == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// GetDefaults возвращает конфигурацию со значениями по умолчанию
func GetDefaults() *Config {
	return &Config{
		Port: "8000",
		Search: &SearchConfig{
			MaxRetries:        3,
			BaseDelay:         2 * time.Second,
			ProviderTimeout:   10 * time.Second,
			ProviderRateLimit: time.Second,
		},
		Validation: &ValidationConfig{
			Timeout: 5 * time.Second,
		},
		Cache: &imagesearch.CacheConfig{
			Enabled:         false,
			TTL:             time.Hour,
			CleanupInterval: 10 * time.Minute,
			MaxSize:         1000,
		},
		History: &HistoryConfig{
			Enabled:         true,
			DatabasePath:    "history.db",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		LogLevel: "INFO",
	}
}
