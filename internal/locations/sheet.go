package locations

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"wedding-site/internal/spreadsheet"
)

const defaultSheetsURL = "https://docs.google.com/spreadsheets"

// SheetFetcher downloads a publicly shared Google Sheet as csv
type SheetFetcher struct {
	http *resty.Client
}

// NewSheetFetcher creates a fetcher; an empty baseURL uses Google's export endpoint
func NewSheetFetcher(baseURL string) *SheetFetcher {
	if baseURL == "" {
		baseURL = defaultSheetsURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(0)
	return &SheetFetcher{http: client}
}

// ExportURL is the csv export address for sheetID
func (f *SheetFetcher) ExportURL(sheetID string) string {
	return fmt.Sprintf("%s/d/%s/export?format=csv", f.http.BaseURL, url.PathEscape(sheetID))
}

// Fetch downloads and parses the first sheet of sheetID
func (f *SheetFetcher) Fetch(ctx context.Context, sheetID string) ([]spreadsheet.Row, error) {
	resp, err := f.http.R().
		SetContext(ctx).
		SetPathParam("id", sheetID).
		SetQueryParam("format", "csv").
		Get("/d/{id}/export")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch sheet: status %d (is the sheet shared with anyone who has the link?)", resp.StatusCode())
	}
	return spreadsheet.ReadCSV(bytes.NewReader(resp.Body()))
}
