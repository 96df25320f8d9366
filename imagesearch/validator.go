package imagesearch

import (
	"bytes"
	"context"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	// Регистрация декодеров для image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"imagescraper/imagesearch/types"
)

const (
	// DefaultValidationTimeout таймаут одной проверки URL по умолчанию
	DefaultValidationTimeout = 5 * time.Second

	// browserUserAgent заголовок идентификации, без которого многие CDN отдают 403
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// probeChunkSize сколько байт тела достаточно прочитать для распознавания формата
	probeChunkSize = 1024
)

// googleRefererHosts домены, требующие Referer, чтобы не блокировать запрос
var googleRefererHosts = []string{"googleusercontent.com", "googleapis.com"}

// URLValidator проверяет, что URL указывает на живое изображение.
// Проверка строго best-effort: false означает "не удалось подтвердить",
// а не "точно битая ссылка". Никакая внутренняя ошибка не выходит наружу.
type URLValidator struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewURLValidator создает новый валидатор URL изображений
func NewURLValidator(timeout time.Duration) *URLValidator {
	if timeout == 0 {
		timeout = DefaultValidationTimeout
	}
	return &URLValidator{
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

// Validate проверяет доступность изображения по URL.
// Сначала дешевый HEAD-зонд, затем GET с чтением начала тела и попыткой
// распознать формат изображения по заголовку файла.
func (v *URLValidator) Validate(ctx context.Context, imageURL string) bool {
	if imageURL == "" {
		return false
	}
	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		return false
	}

	// Легкий зонд: HEAD с браузерными заголовками
	if ok, decisive := v.probeHead(ctx, imageURL); decisive {
		return ok
	}

	// HEAD не дал ответа — полный запрос с чтением начала тела
	return v.probeGet(ctx, imageURL)
}

// probeHead выполняет HEAD-зонд. Второй результат false означает,
// что зонд не дал решающего ответа и нужен полный запрос.
func (v *URLValidator) probeHead(ctx context.Context, imageURL string) (valid bool, decisive bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, imageURL, nil)
	if err != nil {
		return false, true
	}
	v.setHeaders(req, imageURL)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		// Сетевая ошибка зонда — считаем URL неподтвержденным
		return false, true
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK &&
		strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return true, true
	}
	return false, false
}

// probeGet выполняет GET с потоковым чтением: первые байты тела пытаемся
// распознать как изображение, при неудаче доверяем Content-Type ответа.
func (v *URLValidator) probeGet(ctx context.Context, imageURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return false
	}
	v.setHeaders(req, imageURL)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	chunk := make([]byte, probeChunkSize)
	n, _ := io.ReadFull(resp.Body, chunk)
	if n > 0 {
		if _, _, err := image.DecodeConfig(bytes.NewReader(chunk[:n])); err == nil {
			return true
		}
	}

	// Формат не распознан — проверяем заявленный тип содержимого
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "image/")
}

// setHeaders устанавливает браузерные заголовки; для доменов Google
// дополнительно подставляет Referer, иначе CDN отвечает отказом
func (v *URLValidator) setHeaders(req *http.Request, imageURL string) {
	req.Header.Set("User-Agent", browserUserAgent)
	if needsGoogleReferer(imageURL) {
		req.Header.Set("Referer", "https://www.google.com/")
	}
}

// needsGoogleReferer проверяет, принадлежит ли хост URL доменам Google CDN
func needsGoogleReferer(imageURL string) bool {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	for _, domain := range googleRefererHosts {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// FilterValid оставляет только изображения с подтвержденными URL.
// Кандидат — основной URL, при его отсутствии миниатюра. Проверки идут
// последовательно и в исходном порядке: так поведение детерминировано
// и частота запросов к чужим серверам не усиливается.
func (v *URLValidator) FilterValid(ctx context.Context, images []types.NormalizedImage) []types.NormalizedImage {
	valid := make([]types.NormalizedImage, 0, len(images))
	for _, img := range images {
		candidate := img.URL
		if candidate == "" {
			candidate = img.Thumbnail
		}
		if candidate != "" && v.Validate(ctx, candidate) {
			valid = append(valid, img)
		}
	}
	return valid
}
