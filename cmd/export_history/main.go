package main

import (
	"context"
	"flag"
	"log"
	"time"

	"imagescraper/history"
)

func main() {
	dbPath := flag.String("db", "history.db", "путь к базе журнала запросов")
	output := flag.String("output", "history_export.xlsx", "файл для экспорта")
	format := flag.String("format", "excel", "формат экспорта: json, csv, excel")
	limit := flag.Int("limit", 1000, "сколько последних записей выгружать")
	flag.Parse()

	store, err := history.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("✗ Ошибка открытия базы журнала: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	exporter := history.NewExporter(store)
	if err := exporter.Export(ctx, *output, history.ExportFormat(*format), *limit); err != nil {
		log.Fatalf("✗ Ошибка экспорта: %v", err)
	}

	log.Printf("✓ Журнал запросов выгружен в %s", *output)
}
