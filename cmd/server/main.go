// @title Image Search API
// @version 1.0
// @description REST API для поиска изображений через DuckDuckGo. Поиск с повторами, нормализация результатов, валидация ссылок и журнал запросов.

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:8000
// @BasePath /
// @schemes http

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imagescraper/internal/config"
	"imagescraper/server"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════")
	log.Println("🚀 Запуск Image Search API...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("✗ Ошибка загрузки конфигурации: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("✗ Некорректная конфигурация: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("✗ Ошибка создания сервера: %v", err)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Fatalf("✗ КРИТИЧЕСКАЯ ОШИБКА: Паника при запуске сервера: %v", r)
			}
		}()
		if err := srv.Start(); err != nil {
			log.Fatalf("✗ КРИТИЧЕСКАЯ ОШИБКА: Ошибка запуска сервера: %v", err)
		}
	}()

	log.Println("═══════════════════════════════════════════════════════")
	log.Printf("✓ Сервер запущен на порту %s", cfg.Port)
	log.Printf("✓ API доступно: http://localhost:%s", cfg.Port)
	log.Printf("✓ Swagger UI: http://localhost:%s/swagger/index.html", cfg.Port)
	if cfg.History.Enabled {
		log.Printf("✓ Журнал запросов: %s", cfg.History.DatabasePath)
	}
	log.Println("═══════════════════════════════════════════════════════")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("═══════════════════════════════════════════════════════")
	log.Println("⏹  Получен сигнал завершения, останавливаю сервер...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("✗ Ошибка при остановке сервера: %v", err)
		os.Exit(1)
	}

	log.Println("✓ Сервер успешно остановлен")
}
