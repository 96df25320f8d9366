package imagesearch

import (
	"errors"
	"testing"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		text string
		want failureClass
	}{
		{"403 status", "https://duckduckgo.com 403 Forbidden", failureRateLimit},
		{"Ratelimit keyword", "Ratelimit hit for i.js", failureRateLimit},
		{"rate limit lowercase", "provider said: rate limit", failureRateLimit},
		{"rate limit mixed case", "Rate Limit reached", failureRateLimit},
		{"429 status", "429 Too Many Requests", failureTransient},
		{"503 status", "upstream returned 503", failureTransient},
		{"502 status", "bad gateway 502", failureTransient},
		{"404 is not retryable", "404 Not Found", failureOther},
		{"plain network error", "dial tcp: connection refused", failureOther},
		{"timeout is not retryable", "context deadline exceeded", failureOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyFailure(errors.New(tt.text))
			if got != tt.want {
				t.Errorf("classifyFailure(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// 403 упоминает и rate limit, и коды временных ошибок не должны перебивать его
func TestClassifyFailure_RateLimitWinsOverTransient(t *testing.T) {
	err := errors.New("403 after 429 retry")
	if got := classifyFailure(err); got != failureRateLimit {
		t.Errorf("classifyFailure = %v, want failureRateLimit", got)
	}
}

func TestSearchError_Error(t *testing.T) {
	err := &SearchError{Kind: ErrKindRateLimited, Message: msgRateLimited}
	if err.Error() != msgRateLimited {
		t.Errorf("Error() = %q, want %q", err.Error(), msgRateLimited)
	}
}
