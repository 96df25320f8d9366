package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "imagescraper/server/errors"
)

// SystemHandler обработчик служебных эндпоинтов
type SystemHandler struct {
	startTime    time.Time
	errorMetrics *apperrors.ErrorMetricsCollector
}

// NewSystemHandler создает новый обработчик служебных эндпоинтов
func NewSystemHandler(errorMetrics *apperrors.ErrorMetricsCollector) *SystemHandler {
	return &SystemHandler{
		startTime:    time.Now(),
		errorMetrics: errorMetrics,
	}
}

// HandleRoot возвращает информацию о сервисе
// @Summary Информация о сервисе
// @Description Возвращает имя сервиса и список доступных эндпоинтов
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Информация о сервисе"
// @Router / [get]
func (h *SystemHandler) HandleRoot(c *gin.Context) {
	SendJSONResponse(c, http.StatusOK, gin.H{
		"service": "Image Search API",
		"status":  "running",
		"endpoints": gin.H{
			"search":         "/api/search",
			"history_recent": "/api/history/recent",
			"history_stats":  "/api/history/stats",
			"health":         "/health",
			"swagger":        "/swagger/index.html",
		},
	})
}

// HandleHealth возвращает состояние сервиса
// @Summary Проверка здоровья
// @Description Возвращает состояние сервиса и время работы
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Состояние сервиса"
// @Router /health [get]
func (h *SystemHandler) HandleHealth(c *gin.Context) {
	SendJSONResponse(c, http.StatusOK, gin.H{
		"status":         "healthy",
		"uptime_seconds": time.Since(h.startTime).Seconds(),
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}

// HandleErrorMetrics возвращает метрики ошибок
// @Summary Метрики ошибок
// @Description Возвращает накопленные метрики ошибок: по типу, коду и эндпоинту
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Метрики ошибок"
// @Router /api/metrics/errors [get]
func (h *SystemHandler) HandleErrorMetrics(c *gin.Context) {
	if h.errorMetrics == nil {
		SendJSONResponse(c, http.StatusOK, gin.H{"total_errors": 0})
		return
	}
	SendJSONResponse(c, http.StatusOK, h.errorMetrics.GetMetrics())
}
