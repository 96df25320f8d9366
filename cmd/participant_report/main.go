package main

import (
	"flag"
	"log"

	"imagescraper/reports"
)

func main() {
	input := flag.String("input", "Participant List 2025.csv", "CSV-файл со списком участников")
	output := flag.String("output", "participant_report.xlsx", "XLSX-файл отчета")
	flag.Parse()

	report, err := reports.LoadParticipants(*input)
	if err != nil {
		log.Fatalf("✗ Ошибка чтения списка участников: %v", err)
	}

	if err := report.ExportToExcel(*output); err != nil {
		log.Fatalf("✗ Ошибка создания отчета: %v", err)
	}

	log.Printf("✓ Отчет создан: %s", *output)
	log.Printf("✓ Участников: %d", len(report.Participants))
	log.Printf("✓ Заказов футболок: %d", report.ShirtOrders)
}
