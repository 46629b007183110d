package spreadsheet

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const maxColumnWidth = 50

// headerStyle describes the fill and font of a header row
type headerStyle struct {
	fill string
	font string
}

var (
	rsvpHeaderStyle     = headerStyle{fill: "#C99B8A", font: "#FFFFFF"}
	locationHeaderStyle = headerStyle{fill: "#4472C4", font: "#FFFFFF"}
)

// sheet describes a single sheet workbook
type sheet struct {
	name   string
	header []string
	rows   [][]any
	style  headerStyle
	widths []float64 // fixed widths; nil sizes columns to their content
}

// build writes the sheet to an in-memory xlsx file
func (s sheet) build() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", s.name); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: s.style.font},
		Fill: excelize.Fill{Type: "pattern", Color: []string{s.style.fill}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]any, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(len(s.header), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(s.name, "A1", last, style); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	widths := s.widths
	if widths == nil {
		widths = contentWidths(s.header, s.rows)
	}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(s.name, col, col, w); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// contentWidths sizes each column to its longest value plus padding, capped at maxColumnWidth
func contentWidths(header []string, rows [][]any) []float64 {
	widths := make([]float64, len(header))
	grow := func(i int, v any) {
		n := float64(utf8.RuneCountInString(fmt.Sprint(v)) + 2)
		if n > maxColumnWidth {
			n = maxColumnWidth
		}
		if n > widths[i] {
			widths[i] = n
		}
	}
	for i, h := range header {
		grow(i, h)
	}
	for _, row := range rows {
		for i, v := range row {
			if i < len(widths) {
				grow(i, v)
			}
		}
	}
	return widths
}
