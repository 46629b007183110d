// Package export writes point-in-time RSVP snapshots to disk.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"wedding-site/internal/models"
	"wedding-site/internal/spreadsheet"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (use csv or xlsx)", ErrUnknownFormat, s)
}

// Lister returns every RSVP with its guests
type Lister interface {
	List(ctx context.Context) ([]models.RSVP, error)
}

// FileName is rsvps_export_YYYYMMDD_HHMMSS.<ext>
func FileName(t time.Time, f Format) string {
	return fmt.Sprintf("rsvps_export_%s.%s", t.Format("20060102_150405"), f)
}

type Exporter struct {
	rsvps Lister
	now   func() time.Time
}

func NewExporter(rsvps Lister) *Exporter {
	return &Exporter{rsvps: rsvps, now: time.Now}
}

// Export writes a new snapshot into dir and returns its path and row count.
// An existing file is never overwritten.
func (e *Exporter) Export(ctx context.Context, dir string, f Format) (string, int, error) {
	list, err := e.rsvps.List(ctx)
	if err != nil {
		return "", 0, err
	}
	rows := spreadsheet.RSVPRows(list)

	path := filepath.Join(dir, FileName(e.now(), f))
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create export file: %w", err)
	}

	switch f {
	case FormatXLSX:
		err = writeXLSX(out, list)
	default:
		err = WriteCSV(out, rows)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return path, len(rows), nil
}

// WriteCSV writes the RSVP header followed by rows
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(spreadsheet.RSVPHeaders); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func writeXLSX(w io.Writer, list []models.RSVP) error {
	data, err := spreadsheet.BuildRSVPWorkbook(list)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
