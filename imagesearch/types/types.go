package types

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// SourceLabel фиксированная метка источника для всех нормализованных результатов
const SourceLabel = "DuckDuckGo Search Images"

// Допустимые значения фильтров поиска изображений.
// Значения соответствуют параметрам, которые понимает провайдер.
var (
	Regions      = []string{"wt-wt", "us-en", "uk-en", "es-es", "fr-fr"}
	SafeSearches = []string{"off", "moderate", "on"}
	TimeLimits   = []string{"d", "w", "m", "y"}
	Backends     = []string{"auto", "api", "html"}
	Sizes        = []string{"Small", "Medium", "Large", "Wallpaper"}
	Colors       = []string{
		"Monochrome", "Red", "Orange", "Yellow", "Green", "Blue",
		"Purple", "Pink", "Brown", "Black", "Gray", "Teal", "White",
	}
	TypeImages    = []string{"Photo", "Clipart", "Gif", "Transparent", "Line"}
	Layouts       = []string{"Square", "Tall", "Wide"}
	LicenseImages = []string{"Public", "Share", "ShareCommercially", "Modify", "ModifyCommercially"}
)

// SearchRequest запрос на поиск изображений.
// Имена JSON/form полей совпадают с именами параметров провайдера:
// именно под этими ключами непустые поля попадают в карту вызова.
type SearchRequest struct {
	Query          string `json:"query" form:"query"`
	MaxResults     int    `json:"max_results" form:"max_results"`
	Region         string `json:"region" form:"region"`
	SafeSearch     string `json:"safesearch" form:"safesearch"`
	TimeLimit      string `json:"timelimit" form:"timelimit"`
	Page           int    `json:"page" form:"page"`
	Backend        string `json:"backend" form:"backend"`
	Size           string `json:"size" form:"size"`
	Color          string `json:"color" form:"color"`
	TypeImage      string `json:"type_image" form:"type_image"`
	Layout         string `json:"layout" form:"layout"`
	LicenseImage   string `json:"license_image" form:"license_image"`
	ValidateImages bool   `json:"validate_images" form:"validate_images"`
}

// ApplyDefaults подставляет значения по умолчанию для обязательных полей.
// Опциональные фильтры (timelimit, size, color, type_image, layout, license_image)
// остаются пустыми: отсутствующий фильтр не передается провайдеру вовсе.
func (r *SearchRequest) ApplyDefaults() {
	if r.MaxResults == 0 {
		r.MaxResults = 10
	}
	if r.Region == "" {
		r.Region = "us-en"
	}
	if r.SafeSearch == "" {
		r.SafeSearch = "off"
	}
	if r.Page == 0 {
		r.Page = 1
	}
	if r.Backend == "" {
		r.Backend = "auto"
	}
}

// Validate проверяет запрос: обязательный query, диапазоны и перечисления фильтров
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("query is required")
	}
	if r.MaxResults < 1 || r.MaxResults > 100 {
		return fmt.Errorf("max_results must be between 1 and 100, got %d", r.MaxResults)
	}
	if r.Page < 1 || r.Page > 10 {
		return fmt.Errorf("page must be between 1 and 10, got %d", r.Page)
	}
	if err := validateRegion(r.Region); err != nil {
		return err
	}
	if !contains(SafeSearches, r.SafeSearch) {
		return fmt.Errorf("invalid safesearch %q, must be one of %s", r.SafeSearch, strings.Join(SafeSearches, ", "))
	}
	if !contains(Backends, r.Backend) {
		return fmt.Errorf("invalid backend %q, must be one of %s", r.Backend, strings.Join(Backends, ", "))
	}
	if r.TimeLimit != "" && !contains(TimeLimits, r.TimeLimit) {
		return fmt.Errorf("invalid timelimit %q, must be one of %s", r.TimeLimit, strings.Join(TimeLimits, ", "))
	}
	if r.Size != "" && !contains(Sizes, r.Size) {
		return fmt.Errorf("invalid size %q, must be one of %s", r.Size, strings.Join(Sizes, ", "))
	}
	if r.Color != "" && !contains(Colors, r.Color) {
		return fmt.Errorf("invalid color %q, must be one of %s", r.Color, strings.Join(Colors, ", "))
	}
	if r.TypeImage != "" && !contains(TypeImages, r.TypeImage) {
		return fmt.Errorf("invalid type_image %q, must be one of %s", r.TypeImage, strings.Join(TypeImages, ", "))
	}
	if r.Layout != "" && !contains(Layouts, r.Layout) {
		return fmt.Errorf("invalid layout %q, must be one of %s", r.Layout, strings.Join(Layouts, ", "))
	}
	if r.LicenseImage != "" && !contains(LicenseImages, r.LicenseImage) {
		return fmt.Errorf("invalid license_image %q, must be one of %s", r.LicenseImage, strings.Join(LicenseImages, ", "))
	}
	return nil
}

// validateRegion проверяет код региона.
// Кроме документированного списка принимаются структурно корректные пары
// "страна-язык" (например "de-de"): провайдер понимает больше регионов, чем
// перечислено в подсказках.
func validateRegion(region string) error {
	if region == "wt-wt" || contains(Regions, region) {
		return nil
	}
	parts := strings.Split(region, "-")
	if len(parts) == 2 {
		_, regionErr := language.ParseRegion(parts[0])
		_, baseErr := language.ParseBase(parts[1])
		if regionErr == nil && baseErr == nil {
			return nil
		}
	}
	return fmt.Errorf("invalid region %q, expected country-language code like %s", region, strings.Join(Regions, ", "))
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

// RawResult сырая запись провайдера.
// Любое поле может отсутствовать — при декодировании остается нулевое значение,
// это никогда не считается ошибкой.
type RawResult struct {
	Title     string `json:"title"`
	Image     string `json:"image"`
	Thumbnail string `json:"thumbnail"`
	URL       string `json:"url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Source    string `json:"source"`
}

// Website сведения о странице-источнике изображения
type Website struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Name  string `json:"name"`
}

// Dimensions размеры изображения в пикселях
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NormalizedImage стабильная выходная запись.
// Создается один раз при нормализации и далее не изменяется.
type NormalizedImage struct {
	URL        string     `json:"url"`
	Alt        string     `json:"alt"`
	Thumbnail  string     `json:"thumbnail"`
	Title      string     `json:"title"`
	Source     string     `json:"source"`
	Website    Website    `json:"website"`
	Dimensions Dimensions `json:"dimensions"`
	Position   int        `json:"position"`
}

// SearchResponse форма JSON-ответа HTTP-границы
type SearchResponse struct {
	Images     []NormalizedImage `json:"images"`
	Count      int               `json:"count"`
	Query      string            `json:"query"`
	MaxResults int               `json:"max_results,omitempty"`
}

// ImageProviderInterface интерфейс провайдера поиска изображений.
// Провайдер — внешняя инжектируемая способность: оркестратор не знает,
// стоит ли за ним сеть или скриптованный дублер в тестах.
type ImageProviderInterface interface {
	// Images выполняет поиск по карте параметров и возвращает сырые записи
	Images(ctx context.Context, params map[string]interface{}) ([]RawResult, error)

	// GetName возвращает имя провайдера
	GetName() string

	// IsAvailable проверяет доступность провайдера
	IsAvailable() bool

	// GetRateLimit возвращает минимальный интервал между запросами
	GetRateLimit() time.Duration
}
