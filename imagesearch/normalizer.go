package imagesearch

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"imagescraper/imagesearch/types"
)

// NormalizeResults преобразует сырые записи провайдера в стабильную выходную
// схему. Чистая функция: порядок сохраняется, позиция присваивается по порядку
// следования (с единицы), отсутствующие поля дают пустую строку или ноль.
func NormalizeResults(results []types.RawResult) []types.NormalizedImage {
	normalized := make([]types.NormalizedImage, 0, len(results))

	for idx, result := range results {
		title := stripMarkup(result.Title)

		normalized = append(normalized, types.NormalizedImage{
			URL:       result.Image,
			Alt:       title,
			Thumbnail: result.Thumbnail,
			Title:     title,
			Source:    types.SourceLabel,
			Website: types.Website{
				URL:   result.URL,
				Title: title,
				Name:  websiteName(result.URL),
			},
			Dimensions: types.Dimensions{
				Width:  result.Width,
				Height: result.Height,
			},
			Position: idx + 1,
		})
	}

	return normalized
}

// websiteName выводит отображаемое имя сайта из URL страницы-источника.
// Порядок запасных вариантов: authority из распарсенного URL, первый сегмент
// пути, наивный разбор по "/" (третий токен), сырая строка, "Unknown".
func websiteName(rawURL string) string {
	if rawURL == "" {
		return "Unknown"
	}

	name := ""
	parsed, err := url.Parse(rawURL)
	if err == nil {
		name = parsed.Host
		if name == "" && parsed.Path != "" {
			segments := strings.Split(strings.TrimPrefix(parsed.Path, "/"), "/")
			name = segments[0]
		}
	} else {
		// Наивный ручной разбор для строк, которые url.Parse не принимает
		parts := strings.Split(rawURL, "/")
		if len(parts) > 2 {
			name = parts[2]
		} else {
			name = rawURL
		}
	}

	if name == "" {
		return "Unknown"
	}
	return name
}

// stripMarkup убирает HTML-разметку из заголовка.
// Провайдер может подсвечивать совпадения тегами (<b>...</b>) и HTML-сущностями.
func stripMarkup(title string) string {
	if !strings.ContainsAny(title, "<&") {
		return title
	}

	var text strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(title))
	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			break
		}
		if tokenType == html.TextToken {
			text.Write(tokenizer.Text())
		}
	}
	return text.String()
}
