package imagesearch

import (
	"context"
	"fmt"
	"log"
	"time"

	"imagescraper/imagesearch/types"
)

// OrchestratorConfig конфигурация оркестратора поиска.
// Передается явно при создании: оркестратор не читает окружение сам,
// поэтому в тестах задержки и лимиты полностью детерминированы.
type OrchestratorConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	Cache      *CacheConfig
}

// DefaultOrchestratorConfig возвращает конфигурацию по умолчанию
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		Cache:      &CacheConfig{Enabled: false},
	}
}

// Orchestrator оркестратор поиска изображений: собирает параметры,
// вызывает провайдера с повторами, нормализует и опционально валидирует
// результаты. Не хранит состояния между запросами, кроме кэша.
type Orchestrator struct {
	provider   types.ImageProviderInterface
	validator  *URLValidator
	cache      *Cache
	maxRetries int
	baseDelay  time.Duration
}

// NewOrchestrator создает новый оркестратор поиска
func NewOrchestrator(provider types.ImageProviderInterface, validator *URLValidator, config OrchestratorConfig) *Orchestrator {
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = DefaultBaseDelay
	}
	if config.Cache == nil {
		config.Cache = &CacheConfig{Enabled: false}
	}

	return &Orchestrator{
		provider:   provider,
		validator:  validator,
		cache:      NewCache(config.Cache),
		maxRetries: config.MaxRetries,
		baseDelay:  config.BaseDelay,
	}
}

// Search выполняет полный конвейер поиска для одного запроса.
// Ошибки конвейера возвращаются как *SearchError с сообщением для
// пользователя; пустой результат — успех с пустым списком, не ошибка.
func (o *Orchestrator) Search(ctx context.Context, req *types.SearchRequest) ([]types.NormalizedImage, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	params := BuildSearchParams(req)

	normalized, cached := o.cachedResults(params)
	if !cached {
		raw, searchErr := o.searchWithRetry(ctx, params)
		if searchErr != nil {
			return nil, searchErr
		}

		normalized = NormalizeResults(raw)
		o.cache.Set(CacheKey(params), normalized)
	}

	if req.ValidateImages && o.validator != nil && len(normalized) > 0 {
		normalized = o.validator.FilterValid(ctx, normalized)
	}

	return normalized, nil
}

// cachedResults возвращает нормализованные результаты из кэша, если они там есть
func (o *Orchestrator) cachedResults(params map[string]interface{}) ([]types.NormalizedImage, bool) {
	return o.cache.Get(CacheKey(params))
}

// CacheStats возвращает статистику кэша результатов
func (o *Orchestrator) CacheStats() CacheStats {
	return o.cache.GetStats()
}

// searchWithRetry вызывает провайдера с повторами при временных отказах.
// Ограничение частоты и недоступность сервиса повторяются с линейной
// задержкой base_delay * номер_попытки; прочие отказы возвращаются сразу.
func (o *Orchestrator) searchWithRetry(ctx context.Context, params map[string]interface{}) ([]types.RawResult, *SearchError) {
	for attempt := 1; attempt <= o.maxRetries; attempt++ {
		results, err := o.provider.Images(ctx, params)
		if err == nil {
			if attempt > 1 {
				log.Printf("[ImageSearch] INFO: search succeeded after %d attempts", attempt)
			}
			return results, nil
		}

		switch classifyFailure(err) {
		case failureRateLimit:
			if attempt < o.maxRetries {
				o.backoff(attempt, err)
				continue
			}
			log.Printf("[ImageSearch] ERROR: rate limited after %d attempts: %v", o.maxRetries, err)
			return nil, &SearchError{Kind: ErrKindRateLimited, Message: msgRateLimited}

		case failureTransient:
			if attempt < o.maxRetries {
				o.backoff(attempt, err)
				continue
			}
			log.Printf("[ImageSearch] ERROR: service unavailable after %d attempts: %v", o.maxRetries, err)
			return nil, &SearchError{Kind: ErrKindUnavailable, Message: msgUnavailable}

		default:
			log.Printf("[ImageSearch] ERROR: non-retryable search failure: %v", err)
			return nil, &SearchError{Kind: ErrKindFailed, Message: fmt.Sprintf(msgSearchErrorFmt, err)}
		}
	}

	return nil, &SearchError{Kind: ErrKindExhausted, Message: msgMaxRetries}
}

// backoff ждет перед следующей попыткой: задержка растет линейно с номером
// попытки. Сон блокирует только горутину текущего запроса.
func (o *Orchestrator) backoff(attempt int, err error) {
	wait := o.baseDelay * time.Duration(attempt)
	log.Printf("[ImageSearch] WARN: attempt %d/%d failed, retrying in %v: %v", attempt, o.maxRetries, wait, err)
	time.Sleep(wait)
}
