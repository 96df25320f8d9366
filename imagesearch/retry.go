package imagesearch

import (
	"strings"
	"time"
)

const (
	// DefaultMaxRetries количество попыток поиска по умолчанию
	DefaultMaxRetries = 3
	// DefaultBaseDelay базовая задержка между попытками по умолчанию
	DefaultBaseDelay = 2 * time.Second
)

// Сообщения, видимые пользователю. Тексты зафиксированы контрактом API.
const (
	msgRateLimited    = "Rate limit exceeded. Please wait a few minutes before trying again."
	msgUnavailable    = "Service temporarily unavailable. Please try again later."
	msgMaxRetries     = "Maximum retries exceeded."
	msgSearchErrorFmt = "Search error: %s"
)

// ErrorKind вид ошибки поиска
type ErrorKind string

const (
	// ErrKindRateLimited провайдер ограничил частоту запросов, попытки исчерпаны
	ErrKindRateLimited ErrorKind = "rate_limited"
	// ErrKindUnavailable временная недоступность сервиса, попытки исчерпаны
	ErrKindUnavailable ErrorKind = "unavailable"
	// ErrKindFailed неустранимая ошибка, повтор не выполнялся
	ErrKindFailed ErrorKind = "failed"
	// ErrKindExhausted попытки закончились без решающего исхода
	ErrKindExhausted ErrorKind = "exhausted"
)

// SearchError ошибка поиска с видом и сообщением для пользователя
type SearchError struct {
	Kind    ErrorKind
	Message string
}

// Error реализует интерфейс error
func (e *SearchError) Error() string {
	return e.Message
}

// failureClass классификация отказа провайдера
type failureClass int

const (
	failureOther failureClass = iota
	failureRateLimit
	failureTransient
)

// transientCodes HTTP-коды, при которых отказ считается временным
var transientCodes = []string{"429", "503", "502"}

// classifyFailure классифицирует отказ провайдера по тексту ошибки.
// Сопоставление по подстрокам — хрупкий, но зафиксированный контракт:
// провайдер обязуется включать код статуса в текст ошибки.
func classifyFailure(err error) failureClass {
	text := err.Error()

	if strings.Contains(text, "403") ||
		strings.Contains(text, "Ratelimit") ||
		strings.Contains(strings.ToLower(text), "rate limit") {
		return failureRateLimit
	}

	for _, code := range transientCodes {
		if strings.Contains(text, code) {
			return failureTransient
		}
	}

	return failureOther
}
