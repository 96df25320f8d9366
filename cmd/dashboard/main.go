package main

import (
	"log"

	"imagescraper/gui"
	"imagescraper/imagesearch"
	"imagescraper/imagesearch/providers"
	"imagescraper/internal/config"
)

func main() {
	log.Println("🚀 Запуск дашборда поиска изображений...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("✗ Ошибка загрузки конфигурации: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("✗ Некорректная конфигурация: %v", err)
	}

	provider := providers.NewDuckDuckGoProvider(cfg.Search.ProviderTimeout, cfg.Search.ProviderRateLimit)
	validator := imagesearch.NewURLValidator(cfg.Validation.Timeout)
	orchestrator := imagesearch.NewOrchestrator(provider, validator, imagesearch.OrchestratorConfig{
		MaxRetries: cfg.Search.MaxRetries,
		BaseDelay:  cfg.Search.BaseDelay,
		Cache:      cfg.Cache,
	})

	dashboard := gui.NewDashboard(orchestrator)
	dashboard.Run()
}
