package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"imagescraper/imagesearch/types"
)

const (
	// maxPageSize максимальное число записей, которое DuckDuckGo отдает за один вызов i.js
	maxPageSize = 100

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// vqdPattern запасной вариант извлечения токена, если разметка страницы изменилась
var vqdPattern = regexp.MustCompile(`vqd=['"]?([\d-]+)['"]?`)

// DuckDuckGoProvider провайдер поиска изображений через DuckDuckGo
type DuckDuckGoProvider struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	rateLimit  time.Duration
	available  bool
}

// NewDuckDuckGoProvider создает новый провайдер DuckDuckGo
func NewDuckDuckGoProvider(timeout time.Duration, rateLimit time.Duration) *DuckDuckGoProvider {
	limiter := rate.NewLimiter(rate.Every(rateLimit), 1)

	return &DuckDuckGoProvider{
		baseURL: "https://duckduckgo.com",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:   limiter,
		rateLimit: rateLimit,
		available: true,
	}
}

// GetName возвращает имя провайдера
func (d *DuckDuckGoProvider) GetName() string {
	return "duckduckgo"
}

// IsAvailable проверяет доступность провайдера
func (d *DuckDuckGoProvider) IsAvailable() bool {
	return d.available
}

// GetRateLimit возвращает минимальный интервал между запросами
func (d *DuckDuckGoProvider) GetRateLimit() time.Duration {
	return d.rateLimit
}

// Images выполняет поиск изображений по карте параметров.
// Тексты ошибок сохраняют код HTTP-статуса и маркер "Ratelimit" из тела ответа:
// вызывающая сторона классифицирует сбой по подстрокам.
func (d *DuckDuckGoProvider) Images(ctx context.Context, params map[string]interface{}) ([]types.RawResult, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	query := stringParam(params, "query")
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}

	backend := stringParam(params, "backend")
	switch backend {
	case "", "auto":
		results, err := d.apiImages(ctx, query, params)
		if err == nil {
			return results, nil
		}
		// api-бэкенд не ответил, пробуем страницу
		htmlResults, htmlErr := d.htmlImages(ctx, query, params)
		if htmlErr != nil {
			return nil, err
		}
		return htmlResults, nil
	case "api":
		return d.apiImages(ctx, query, params)
	case "html":
		return d.htmlImages(ctx, query, params)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// ddgImage запись изображения в ответе i.js
type ddgImage struct {
	Title     string `json:"title"`
	Image     string `json:"image"`
	Thumbnail string `json:"thumbnail"`
	URL       string `json:"url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Source    string `json:"source"`
}

// ddgImagesResponse страница ответа i.js
type ddgImagesResponse struct {
	Results []ddgImage `json:"results"`
	Next    string     `json:"next"`
}

// apiImages выполняет поиск через JSON-эндпоинт i.js.
// Сначала запрашивается страница выдачи ради токена vqd, затем сам эндпоинт.
func (d *DuckDuckGoProvider) apiImages(ctx context.Context, query string, params map[string]interface{}) ([]types.RawResult, error) {
	vqd, err := d.fetchVQD(ctx, query)
	if err != nil {
		return nil, err
	}

	maxResults := intParam(params, "max_results")
	if maxResults <= 0 {
		maxResults = maxPageSize
	}
	offset := (intParam(params, "page") - 1) * maxPageSize
	if offset < 0 {
		offset = 0
	}

	collected := make([]types.RawResult, 0, maxResults)
	for len(collected) < maxResults {
		page, err := d.fetchImagesPage(ctx, query, vqd, offset, params)
		if err != nil {
			return nil, err
		}
		if len(page.Results) == 0 {
			break
		}

		for _, img := range page.Results {
			collected = append(collected, rawResult(img))
			if len(collected) >= maxResults {
				break
			}
		}

		if page.Next == "" {
			break
		}
		offset += maxPageSize
	}

	d.available = true
	return collected, nil
}

// fetchVQD получает токен vqd со страницы выдачи изображений
func (d *DuckDuckGoProvider) fetchVQD(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("iax", "images")
	params.Set("ia", "images")

	body, err := d.get(ctx, fmt.Sprintf("%s/?%s", d.baseURL, params.Encode()))
	if err != nil {
		return "", err
	}

	if vqd := extractVQD(body); vqd != "" {
		return vqd, nil
	}
	return "", fmt.Errorf("vqd token not found for query %q", query)
}

// extractVQD ищет токен vqd в скриптах страницы; при неудаче пробует регулярное выражение по всему телу
func extractVQD(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err == nil {
		var vqd string
		doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := s.Text()
			if !strings.Contains(text, "vqd=") && !strings.Contains(text, "vqd='") {
				return true
			}
			if m := vqdPattern.FindStringSubmatch(text); m != nil {
				vqd = m[1]
				return false
			}
			return true
		})
		if vqd != "" {
			return vqd
		}
	}

	if m := vqdPattern.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	return ""
}

// fetchImagesPage запрашивает одну страницу i.js
func (d *DuckDuckGoProvider) fetchImagesPage(ctx context.Context, query, vqd string, offset int, params map[string]interface{}) (*ddgImagesResponse, error) {
	values := url.Values{}
	values.Set("l", stringParam(params, "region"))
	values.Set("o", "json")
	values.Set("q", query)
	values.Set("vqd", vqd)
	values.Set("f", filterString(params))
	values.Set("p", safeSearchFlag(stringParam(params, "safesearch")))
	if offset > 0 {
		values.Set("s", fmt.Sprintf("%d", offset))
	}

	body, err := d.get(ctx, fmt.Sprintf("%s/i.js?%s", d.baseURL, values.Encode()))
	if err != nil {
		return nil, err
	}

	var page ddgImagesResponse
	if err := json.Unmarshal([]byte(body), &page); err != nil {
		if strings.Contains(body, "Ratelimit") {
			return nil, fmt.Errorf("duckduckgo images: Ratelimit")
		}
		return nil, fmt.Errorf("failed to decode images response: %w", err)
	}
	return &page, nil
}

// htmlImages извлекает результаты из JSON, встроенного в страницу выдачи.
// Используется как запасной путь, когда i.js недоступен.
func (d *DuckDuckGoProvider) htmlImages(ctx context.Context, query string, params map[string]interface{}) ([]types.RawResult, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("iax", "images")
	values.Set("ia", "images")

	body, err := d.get(ctx, fmt.Sprintf("%s/?%s", d.baseURL, values.Encode()))
	if err != nil {
		return nil, err
	}

	images := extractEmbeddedImages(body)
	if len(images) == 0 {
		if strings.Contains(body, "Ratelimit") {
			return nil, fmt.Errorf("duckduckgo images: Ratelimit")
		}
		return nil, nil
	}

	maxResults := intParam(params, "max_results")
	if maxResults <= 0 || maxResults > len(images) {
		maxResults = len(images)
	}

	results := make([]types.RawResult, 0, maxResults)
	for _, img := range images[:maxResults] {
		results = append(results, rawResult(img))
	}

	d.available = true
	return results, nil
}

// embeddedPattern находит встроенный в страницу JSON с результатами
var embeddedPattern = regexp.MustCompile(`"results"\s*:\s*(\[.*?\])\s*[,}]`)

// extractEmbeddedImages декодирует массив результатов из скриптов страницы
func extractEmbeddedImages(body string) []ddgImage {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var images []ddgImage
	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		m := embeddedPattern.FindStringSubmatch(s.Text())
		if m == nil {
			return true
		}
		var parsed []ddgImage
		if err := json.Unmarshal([]byte(m[1]), &parsed); err != nil {
			return true
		}
		if len(parsed) > 0 {
			images = parsed
			return false
		}
		return true
	})
	return images
}

// get выполняет GET-запрос с браузерными заголовками и возвращает тело ответа.
// Не-200 статусы превращаются в ошибку с кодом статуса в тексте.
func (d *DuckDuckGoProvider) get(ctx context.Context, fullURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Referer", d.baseURL+"/")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.available = false
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.available = false
		return "", fmt.Errorf("duckduckgo images returned status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(data), nil
}

// filterString собирает строку фильтров f для i.js.
// Порядок слотов фиксирован, отсутствующие фильтры остаются пустыми.
func filterString(params map[string]interface{}) string {
	slots := []string{
		prefixed("time", stringParam(params, "timelimit")),
		prefixed("size", stringParam(params, "size")),
		prefixed("color", stringParam(params, "color")),
		prefixed("type", stringParam(params, "type_image")),
		prefixed("layout", stringParam(params, "layout")),
		prefixed("license", stringParam(params, "license_image")),
	}
	return strings.Join(slots, ",")
}

func prefixed(key, value string) string {
	if value == "" {
		return ""
	}
	return key + ":" + value
}

// safeSearchFlag переводит уровень безопасного поиска в значение параметра p
func safeSearchFlag(safesearch string) string {
	switch safesearch {
	case "on", "moderate":
		return "1"
	default:
		return "-1"
	}
}

// rawResult переводит запись ответа DuckDuckGo в сырую запись пайплайна
func rawResult(img ddgImage) types.RawResult {
	return types.RawResult{
		Title:     img.Title,
		Image:     img.Image,
		Thumbnail: img.Thumbnail,
		URL:       img.URL,
		Width:     img.Width,
		Height:    img.Height,
		Source:    img.Source,
	}
}

// stringParam извлекает строковый параметр из карты
func stringParam(params map[string]interface{}, key string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// intParam извлекает целочисленный параметр из карты
func intParam(params map[string]interface{}, key string) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return 0
}
