package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"imagescraper/history"
	"imagescraper/imagesearch"
	"imagescraper/imagesearch/providers"
	"imagescraper/internal/config"
	apperrors "imagescraper/server/errors"
	"imagescraper/server/handlers"
	"imagescraper/server/middleware"
)

// Server HTTP сервер поиска изображений
type Server struct {
	config       *config.Config
	orchestrator *imagesearch.Orchestrator
	historyStore *history.Store
	errorMetrics *apperrors.ErrorMetricsCollector

	httpServer  *http.Server
	httpHandler http.Handler

	handlerOnce    sync.Once
	handlerInitErr error
}

// NewServer создает новый сервер с конфигурацией
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	provider := providers.NewDuckDuckGoProvider(cfg.Search.ProviderTimeout, cfg.Search.ProviderRateLimit)
	validator := imagesearch.NewURLValidator(cfg.Validation.Timeout)

	orchestrator := imagesearch.NewOrchestrator(provider, validator, imagesearch.OrchestratorConfig{
		MaxRetries: cfg.Search.MaxRetries,
		BaseDelay:  cfg.Search.BaseDelay,
		Cache:      cfg.Cache,
	})

	server := &Server{
		config:       cfg,
		orchestrator: orchestrator,
		errorMetrics: apperrors.NewErrorMetricsCollector(),
	}

	if cfg.History != nil && cfg.History.Enabled {
		store, err := history.NewStoreWithConfig(cfg.History.DatabasePath, history.DBConfig{
			MaxOpenConns:    cfg.History.MaxOpenConns,
			MaxIdleConns:    cfg.History.MaxIdleConns,
			ConnMaxLifetime: cfg.History.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		server.historyStore = store
	}

	return server, nil
}

// HistoryStore возвращает хранилище истории (nil, если журнал выключен)
func (s *Server) HistoryStore() *history.Store {
	return s.historyStore
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	handler, err := s.ensureHTTPHandler()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%s", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		// Поиск с ретраями и валидацией изображений может занимать десятки секунд
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting HTTP server on %s...", s.httpServer.Addr)
	log.Printf("API доступно по адресу: http://localhost%s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server on %s: %w", s.httpServer.Addr, err)
	}
	return nil
}

// ensureHTTPHandler лениво создает HTTP handler ровно один раз
func (s *Server) ensureHTTPHandler() (http.Handler, error) {
	s.handlerOnce.Do(func() {
		handler, err := s.buildHTTPHandler()
		if err != nil {
			s.handlerInitErr = err
			return
		}
		s.httpHandler = handler
	})

	if s.handlerInitErr != nil {
		return nil, s.handlerInitErr
	}
	if s.httpHandler == nil {
		return nil, fmt.Errorf("httpHandler is nil")
	}
	return s.httpHandler, nil
}

func (s *Server) buildHTTPHandler() (http.Handler, error) {
	// Устанавливаем режим Gin: release для продакшена, debug для разработки
	// Можно переопределить через переменную окружения GIN_MODE
	if ginMode := os.Getenv("GIN_MODE"); ginMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())

	handlers.RegisterSwaggerRoutes(router)
	s.registerRoutes(router)

	return router, nil
}

// registerRoutes регистрирует маршруты API
func (s *Server) registerRoutes(router *gin.Engine) {
	searchHandler := handlers.NewSearchHandler(s.orchestrator, s.historyStore, s.errorMetrics)
	historyHandler := handlers.NewHistoryHandler(s.historyStore)
	systemHandler := handlers.NewSystemHandler(s.errorMetrics)

	router.GET("/", systemHandler.HandleRoot)
	router.GET("/health", systemHandler.HandleHealth)

	api := router.Group("/api")
	{
		api.GET("/search", searchHandler.HandleSearchGet)
		api.POST("/search", searchHandler.HandleSearchPost)
		api.GET("/history/recent", historyHandler.HandleRecent)
		api.GET("/history/stats", historyHandler.HandleStats)
		api.GET("/metrics/errors", systemHandler.HandleErrorMetrics)
	}
}

// ServeHTTP реализует http.Handler для тестов и вспомогательных утилит
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler, err := s.ensureHTTPHandler()
	if err != nil {
		http.Error(w, "server is not initialized", http.StatusInternalServerError)
		return
	}
	handler.ServeHTTP(w, r)
}

// Shutdown останавливает HTTP сервер gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Initiating graceful shutdown...")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("ошибка остановки сервера: %w", err)
		}
	}

	if s.historyStore != nil {
		if err := s.historyStore.Close(); err != nil {
			log.Printf("[Server] Warning: failed to close history store: %v", err)
		}
	}

	log.Println("Graceful shutdown completed")
	return nil
}
