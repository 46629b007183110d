package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data row keyed by header. Number is the 1-based row in the source file.
type Row struct {
	Number int
	Values map[string]string
}

// Get returns the trimmed value for key, or "" when the column is absent
func (r Row) Get(key string) string {
	return strings.TrimSpace(r.Values[key])
}

// ReadRows reads the first sheet of an xlsx file
func ReadRows(r io.Reader) ([]Row, error) {
	grid, err := readGrid(r)
	if err != nil {
		return nil, err
	}
	return toRows(grid), nil
}

// ReadCSV reads a csv file with a header row
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	grid, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(grid) > 0 {
		grid[0][0] = strings.TrimPrefix(grid[0][0], "\uFEFF")
	}
	return toRows(grid), nil
}

func readGrid(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, errors.New("workbook has no sheets")
	}
	grid, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}
	return grid, nil
}

func toRows(grid [][]string) []Row {
	if len(grid) == 0 {
		return nil
	}

	header := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		header[i] = strings.TrimSpace(h)
	}

	var rows []Row
	for i, cells := range grid[1:] {
		if blank(cells) {
			continue
		}
		values := make(map[string]string, len(header))
		for j, h := range header {
			if h == "" || j >= len(cells) {
				continue
			}
			values[h] = cells[j]
		}
		rows = append(rows, Row{Number: i + 2, Values: values})
	}
	return rows
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// SeatRow is one line of the seat assignment sheet
type SeatRow struct {
	Row       int
	FirstName string
	LastName  string
	Phone     string
	Attending string
	Seat      string
}

// ReadSeating reads the RSVP workbook after seats have been filled in.
// Columns are read by position: name A and B, phone C, attending F, seat K.
func ReadSeating(r io.Reader) ([]SeatRow, error) {
	grid, err := readGrid(r)
	if err != nil {
		return nil, err
	}
	if len(grid) < 2 {
		return nil, nil
	}

	cell := func(cells []string, i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	var out []SeatRow
	for i, cells := range grid[1:] {
		if blank(cells) {
			continue
		}
		out = append(out, SeatRow{
			Row:       i + 2,
			FirstName: cell(cells, 0),
			LastName:  cell(cells, 1),
			Phone:     cell(cells, 2),
			Attending: cell(cells, 5),
			Seat:      cell(cells, 10),
		})
	}
	return out, nil
}
