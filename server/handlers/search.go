package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"imagescraper/history"
	"imagescraper/imagesearch"
	"imagescraper/imagesearch/types"
	"imagescraper/server/middleware"
	apperrors "imagescraper/server/errors"
)

// SearchService интерфейс пайплайна поиска изображений
type SearchService interface {
	Search(ctx context.Context, req *types.SearchRequest) ([]types.NormalizedImage, error)
}

// SearchHandler обработчик поисковых запросов
type SearchHandler struct {
	service      SearchService
	historyStore *history.Store
	errorMetrics *apperrors.ErrorMetricsCollector
}

// NewSearchHandler создает новый обработчик поиска.
// historyStore может быть nil, тогда журнал не ведется.
func NewSearchHandler(service SearchService, historyStore *history.Store, errorMetrics *apperrors.ErrorMetricsCollector) *SearchHandler {
	return &SearchHandler{
		service:      service,
		historyStore: historyStore,
		errorMetrics: errorMetrics,
	}
}

// HandleSearchGet обрабатывает поиск изображений через query-параметры
// @Summary Поиск изображений
// @Description Выполняет поиск изображений по запросу с опциональными фильтрами
// @Tags search
// @Accept json
// @Produce json
// @Param query query string true "Поисковый запрос"
// @Param max_results query int false "Максимальное число результатов (1-100)"
// @Param region query string false "Регион поиска (например, us-en)"
// @Param safesearch query string false "Уровень безопасного поиска: off, moderate, on"
// @Param timelimit query string false "Ограничение по времени: d, w, m, y"
// @Param validate_images query bool false "Проверять доступность изображений"
// @Success 200 {object} types.SearchResponse "Результаты поиска"
// @Failure 400 {object} map[string]interface{} "Неверные параметры запроса"
// @Failure 429 {object} map[string]interface{} "Поиск не удался или превышен лимит запросов"
// @Router /api/search [get]
func (h *SearchHandler) HandleSearchGet(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		SendJSONError(c, http.StatusBadRequest, "Invalid query parameters: "+err.Error())
		return
	}
	h.handleSearch(c, &req)
}

// HandleSearchPost обрабатывает поиск изображений через JSON-тело
// @Summary Поиск изображений (POST)
// @Description Выполняет поиск изображений по запросу, переданному в JSON-теле
// @Tags search
// @Accept json
// @Produce json
// @Param request body types.SearchRequest true "Параметры поиска"
// @Success 200 {object} types.SearchResponse "Результаты поиска"
// @Failure 400 {object} map[string]interface{} "Неверное тело запроса"
// @Failure 429 {object} map[string]interface{} "Поиск не удался или превышен лимит запросов"
// @Router /api/search [post]
func (h *SearchHandler) HandleSearchPost(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendJSONError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	h.handleSearch(c, &req)
}

func (h *SearchHandler) handleSearch(c *gin.Context, req *types.SearchRequest) {
	start := time.Now()

	images, err := h.service.Search(c.Request.Context(), req)
	duration := time.Since(start)

	if err != nil {
		var searchErr *imagesearch.SearchError
		if errors.As(err, &searchErr) {
			// Любой сбой пайплайна отдается как 429: клиенту предлагается повторить позже
			h.recordHistory(c, req, 0, string(searchErr.Kind), duration)
			h.recordError(c, apperrors.NewTooManyRequestsError(searchErr.Message, searchErr))
			SendJSONError(c, http.StatusTooManyRequests, searchErr.Message)
			return
		}

		h.recordHistory(c, req, 0, "invalid", duration)
		h.recordError(c, apperrors.NewValidationError(err.Error(), err))
		SendJSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.recordHistory(c, req, len(images), "ok", duration)

	response := types.SearchResponse{
		Images: images,
		Count:  len(images),
		Query:  req.Query,
	}
	// Пустая выдача не включает max_results в ответ
	if len(images) > 0 {
		response.MaxResults = req.MaxResults
	}

	SendJSONResponse(c, http.StatusOK, response)
}

// recordHistory пишет запись в журнал. Сбой журнала не влияет на ответ.
func (h *SearchHandler) recordHistory(c *gin.Context, req *types.SearchRequest, resultCount int, status string, duration time.Duration) {
	if h.historyStore == nil || req.Query == "" {
		return
	}

	entry := &history.Entry{
		RequestID:   middleware.GetRequestIDFromGin(c),
		Query:       req.Query,
		MaxResults:  req.MaxResults,
		ResultCount: resultCount,
		Validated:   req.ValidateImages,
		Status:      status,
		DurationMs:  duration.Milliseconds(),
		ClientIP:    c.ClientIP(),
	}
	if err := h.historyStore.Record(c.Request.Context(), entry); err != nil {
		slog.Warn("Failed to record search history", "error", err, "query", req.Query)
	}
}

func (h *SearchHandler) recordError(c *gin.Context, appErr *apperrors.AppError) {
	if h.errorMetrics == nil {
		return
	}
	h.errorMetrics.RecordError(appErr, c.FullPath(), middleware.GetRequestIDFromGin(c))
}
