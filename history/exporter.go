package history

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportFormat формат экспорта журнала
type ExportFormat string

const (
	FormatJSON  ExportFormat = "json"
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
)

// Exporter экспортер журнала поисковых запросов
type Exporter struct {
	store *Store
}

// NewExporter создает новый экспортер журнала
func NewExporter(store *Store) *Exporter {
	return &Exporter{store: store}
}

// Export выгружает последние записи журнала в файл указанного формата
func (e *Exporter) Export(ctx context.Context, filename string, format ExportFormat, limit int) error {
	entries, err := e.store.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to fetch history entries: %w", err)
	}

	switch format {
	case FormatJSON:
		return e.exportJSON(filename, entries)
	case FormatCSV:
		return e.exportCSV(filename, entries)
	case FormatExcel:
		return e.exportExcel(filename, entries)
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}

func (e *Exporter) exportJSON(filename string, entries []Entry) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	result := map[string]interface{}{
		"exported_at": time.Now().Format(time.RFC3339),
		"total":       len(entries),
		"entries":     entries,
	}

	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

var exportHeaders = []string{
	"ID", "Request ID", "Query", "Max Results", "Result Count",
	"Validated", "Status", "Duration (ms)", "Client IP", "Created At",
}

func (e *Exporter) exportCSV(filename string, entries []Entry) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(exportHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			fmt.Sprintf("%d", entry.ID),
			entry.RequestID,
			entry.Query,
			fmt.Sprintf("%d", entry.MaxResults),
			fmt.Sprintf("%d", entry.ResultCount),
			fmt.Sprintf("%t", entry.Validated),
			entry.Status,
			fmt.Sprintf("%d", entry.DurationMs),
			entry.ClientIP,
			entry.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}

func (e *Exporter) exportExcel(filename string, entries []Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Search History"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, entry := range entries {
		row := rowIdx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), entry.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), entry.RequestID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), entry.Query)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), entry.MaxResults)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), entry.ResultCount)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), entry.Validated)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), entry.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), entry.DurationMs)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), entry.ClientIP)
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), entry.CreatedAt.Format(time.RFC3339))
	}

	for i := range exportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	f.SetActiveSheet(index)

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}
