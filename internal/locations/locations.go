// Package locations loads journey map locations from spreadsheets and seed data.
package locations

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"wedding-site/internal/models"
	"wedding-site/internal/spreadsheet"
)

// Store is the subset of the location repository the importer needs
type Store interface {
	Upsert(ctx context.Context, loc *models.Location) (created bool, err error)
	DeleteAll(ctx context.Context) (int64, error)
}

// RowError describes a row that could not be imported
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Result summarizes an import run
type Result struct {
	Created int
	Updated int
	Skipped int
	Deleted int64
	Errors  []RowError
}

type Importer struct {
	store Store
	log   zerolog.Logger
}

func NewImporter(store Store, log zerolog.Logger) *Importer {
	return &Importer{store: store, log: log}
}

// Import upserts every row keyed by name and city. A bad row is recorded and
// the batch continues. With clear set, all existing locations are removed first.
func (i *Importer) Import(ctx context.Context, rows []spreadsheet.Row, clear bool) (Result, error) {
	var res Result

	if clear {
		n, err := i.store.DeleteAll(ctx)
		if err != nil {
			return res, err
		}
		res.Deleted = n
		i.log.Warn().Int64("count", n).Msg("Deleted existing locations")
	}

	for _, row := range rows {
		if row.Get("location_name") == "" {
			res.Skipped++
			continue
		}

		loc, err := ParseLocation(row)
		if err == nil {
			var created bool
			created, err = i.store.Upsert(ctx, loc)
			if err == nil {
				if created {
					res.Created++
				} else {
					res.Updated++
				}
				i.log.Info().Int("row", row.Number).Str("location", loc.LocationName).Bool("created", created).Msg("Location imported")
				continue
			}
		}

		res.Errors = append(res.Errors, RowError{Row: row.Number, Err: err})
		i.log.Error().Err(err).Int("row", row.Number).Interface("values", row.Values).Msg("Failed to import location row")
	}

	return res, nil
}

// ParseLocation converts a sheet row into a location.
// Empty coordinates and order default to zero; empty is_active means active.
func ParseLocation(row spreadsheet.Row) (*models.Location, error) {
	lat, err := parseFloat(row.Get("latitude"))
	if err != nil {
		return nil, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := parseFloat(row.Get("longitude"))
	if err != nil {
		return nil, fmt.Errorf("invalid longitude: %w", err)
	}
	order, err := parseInt(row.Get("order"))
	if err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}
	active, err := parseActive(row.Get("is_active"))
	if err != nil {
		return nil, fmt.Errorf("invalid is_active: %w", err)
	}

	return &models.Location{
		LocationName:  row.Get("location_name"),
		City:          row.Get("city"),
		StateCountry:  row.Get("state_country"),
		Latitude:      lat,
		Longitude:     lng,
		Description:   row.Get("description"),
		Significance:  row.Get("significance"),
		DateVisited:   row.Get("date_visited"),
		Order:         order,
		IsActive:      active,
		PhotoBaseName: PhotoBaseName(row.Get("photo_filename")),
	}, nil
}

// PhotoBaseName strips a .png, .jpg or .jpeg extension
func PhotoBaseName(filename string) string {
	name := strings.TrimSpace(filename)
	for _, ext := range []string{".png", ".jpg", ".jpeg"} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	// spreadsheets often store whole numbers as "3.0"
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f), nil
	}
	return strconv.Atoi(s)
}

func parseActive(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("unrecognized value %q", s)
}
