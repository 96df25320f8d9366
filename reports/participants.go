package reports

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// Participant участник мероприятия из CSV-списка
type Participant struct {
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Age       string `json:"age"`
	ShirtSize string `json:"shirt_size"`
	Quantity  string `json:"quantity"`
}

// ParticipantReport отчет по списку участников
type ParticipantReport struct {
	Participants []Participant
	ShirtOrders  int
}

// textReplacements типографские символы, которые ломают простые шрифты
var textReplacements = []struct{ old, new string }{
	{"’", "'"},
	{"‘", "'"},
	{"“", `"`},
	{"”", `"`},
	{"–", "-"},
	{"—", "-"},
	{"…", "..."},
	{"→", "->"},
	{"←", "<-"},
	{"↔", "<->"},
	{"✓", "v"},
	{"✗", "x"},
	{"•", "*"},
	{"°", "deg"},
	{"±", "+/-"},
}

const allowedAccented = "àáâãäåæçèéêëìíîïðñòóôõöøùúûüýþÿ"

// CleanText убирает проблемные Unicode-символы из текста отчета
func CleanText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	for _, r := range textReplacements {
		text = strings.ReplaceAll(text, r.old, r.new)
	}

	text = norm.NFKD.String(text)

	var b strings.Builder
	for _, ch := range text {
		if ch <= unicode.MaxASCII || strings.ContainsRune(allowedAccented, ch) {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// LoadParticipants читает список участников из CSV-файла
func LoadParticipants(filename string) (*ParticipantReport, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open participants file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read participants CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("participants file is empty")
	}

	header := records[0]
	if len(header) > 0 {
		// Excel сохраняет CSV с BOM в начале первого заголовка
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	report := &ParticipantReport{}
	for _, row := range records[1:] {
		p := Participant{
			LastName:  field(row, "Last Name"),
			FirstName: field(row, "First Name"),
			Age:       field(row, "Age"),
			ShirtSize: field(row, "Fun Run T-Shirt"),
			Quantity:  field(row, "Fun Run T-Shirt (Quantity)"),
		}
		report.Participants = append(report.Participants, p)

		if qty, err := strconv.Atoi(p.Quantity); err == nil && qty > 0 {
			report.ShirtOrders += qty
		}
	}

	return report, nil
}

var participantHeaders = []string{"Last Name", "First Name", "Age", "T-Shirt Size", "Quantity"}

// maxCellLengths длины колонок, после которых значение обрезается
var maxCellLengths = []int{15, 15, 8, 25, 8}

// cellValue очищает значение ячейки и обрезает слишком длинный текст
func cellValue(value string, column int) string {
	cleaned := CleanText(value)
	if cleaned == "" {
		return "-"
	}
	if column < len(maxCellLengths) && len(cleaned) > maxCellLengths[column] {
		cleaned = cleaned[:maxCellLengths[column]-3] + "..."
	}
	return cleaned
}

// ExportToExcel сохраняет отчет по участникам в стилизованный XLSX-файл
func (r *ParticipantReport) ExportToExcel(filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Participants"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  11,
			Color: "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"008B8B"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	evenStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"90EE90"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create row style: %w", err)
	}

	oddStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FFC0CB"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create row style: %w", err)
	}

	for i, header := range participantHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, p := range r.Participants {
		row := i + 2
		values := []string{p.LastName, p.FirstName, p.Age, p.ShirtSize, p.Quantity}
		style := evenStyle
		if i%2 != 0 {
			style = oddStyle
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, cellValue(value, col))
			f.SetCellStyle(sheetName, cell, cell, style)
		}
	}

	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"F0F0F0"},
			Pattern: 1,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create summary style: %w", err)
	}

	summaryRow := len(r.Participants) + 4
	titleCell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	f.SetCellValue(sheetName, titleCell, "Event Summary")
	f.SetCellStyle(sheetName, titleCell, titleCell, summaryStyle)

	totalCell, _ := excelize.CoordinatesToCellName(1, summaryRow+1)
	f.SetCellValue(sheetName, totalCell, fmt.Sprintf("Total Participants: %d", len(r.Participants)))

	ordersCell, _ := excelize.CoordinatesToCellName(1, summaryRow+2)
	f.SetCellValue(sheetName, ordersCell, fmt.Sprintf("T-Shirt Orders: %d", r.ShirtOrders))

	widths := []float64{20, 20, 10, 28, 12}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, width)
	}

	f.SetActiveSheet(index)

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}
