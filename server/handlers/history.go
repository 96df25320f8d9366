package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"imagescraper/history"
)

// HistoryHandler обработчик журнала поисковых запросов
type HistoryHandler struct {
	store *history.Store
}

// NewHistoryHandler создает новый обработчик журнала
func NewHistoryHandler(store *history.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// HandleRecent возвращает последние записи журнала
// @Summary Последние поисковые запросы
// @Description Возвращает последние записи журнала поисковых запросов
// @Tags history
// @Produce json
// @Param limit query int false "Число записей (по умолчанию 20)"
// @Success 200 {object} map[string]interface{} "Записи журнала"
// @Failure 500 {object} map[string]interface{} "Внутренняя ошибка сервера"
// @Router /api/history/recent [get]
func (h *HistoryHandler) HandleRecent(c *gin.Context) {
	if h.store == nil {
		SendJSONError(c, http.StatusServiceUnavailable, "History is disabled")
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			SendJSONError(c, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	entries, err := h.store.Recent(c.Request.Context(), limit)
	if err != nil {
		SendJSONError(c, http.StatusInternalServerError, "Failed to load search history")
		return
	}

	SendJSONResponse(c, http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// HandleStats возвращает агрегированную статистику журнала
// @Summary Статистика поисковых запросов
// @Description Возвращает агрегированную статистику журнала: количество запросов, среднее время, частые запросы
// @Tags history
// @Produce json
// @Success 200 {object} history.Stats "Статистика журнала"
// @Failure 500 {object} map[string]interface{} "Внутренняя ошибка сервера"
// @Router /api/history/stats [get]
func (h *HistoryHandler) HandleStats(c *gin.Context) {
	if h.store == nil {
		SendJSONError(c, http.StatusServiceUnavailable, "History is disabled")
		return
	}

	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		SendJSONError(c, http.StatusInternalServerError, "Failed to load history stats")
		return
	}

	SendJSONResponse(c, http.StatusOK, stats)
}
