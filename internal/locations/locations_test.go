package locations

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-site/internal/models"
	"wedding-site/internal/spreadsheet"
	"wedding-site/internal/storage"
	"wedding-site/internal/testutil"
)

func row(n int, kv ...string) spreadsheet.Row {
	values := map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		values[kv[i]] = kv[i+1]
	}
	return spreadsheet.Row{Number: n, Values: values}
}

func TestParseLocation_Defaults(t *testing.T) {
	loc, err := ParseLocation(row(2, "location_name", "Cafe", "city", "Paris", "photo_filename", "cafe.JPG"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, loc.Latitude)
	assert.Equal(t, 0, loc.Order)
	assert.True(t, loc.IsActive)
	assert.Equal(t, "cafe", loc.PhotoBaseName)
}

func TestParseLocation_Values(t *testing.T) {
	loc, err := ParseLocation(row(2,
		"location_name", "The Aviary", "city", "Pittsburgh", "latitude", "40.4531",
		"longitude", "-80.0100", "order", "2.0", "is_active", "FALSE", "photo_filename", "aviary.jpeg"))
	require.NoError(t, err)
	assert.InDelta(t, 40.4531, loc.Latitude, 1e-9)
	assert.InDelta(t, -80.01, loc.Longitude, 1e-9)
	assert.Equal(t, 2, loc.Order)
	assert.False(t, loc.IsActive)
	assert.Equal(t, "aviary", loc.PhotoBaseName)

	_, err = ParseLocation(row(3, "location_name", "X", "latitude", "north"))
	assert.Error(t, err)
}

func TestPhotoBaseName(t *testing.T) {
	assert.Equal(t, "morgantown", PhotoBaseName("morgantown.png"))
	assert.Equal(t, "morgantown", PhotoBaseName("morgantown"))
	assert.Equal(t, "a.b", PhotoBaseName("a.b.jpg"))
	assert.Equal(t, "", PhotoBaseName(""))
}

func TestImport_IsIdempotentAndContinuesPastBadRows(t *testing.T) {
	ctx := context.Background()
	store := storage.NewLocationStore(testutil.NewDB(t))
	imp := NewImporter(store, testutil.Logger())

	rows := []spreadsheet.Row{
		row(2, "location_name", "WVU", "city", "Morgantown", "order", "1"),
		row(3, "location_name", "", "city", "Nowhere"),
		row(4, "location_name", "Bad", "city", "X", "latitude", "abc"),
		row(5, "location_name", "Aviary", "city", "Pittsburgh", "order", "2"),
	}

	res, err := imp.Import(ctx, rows, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 4, res.Errors[0].Row)

	res, err = imp.Import(ctx, rows, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Updated)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestImport_Clear(t *testing.T) {
	ctx := context.Background()
	store := storage.NewLocationStore(testutil.NewDB(t))
	require.NoError(t, store.Create(ctx, &models.Location{LocationName: "Old", City: "Town", IsActive: true}))

	res, err := NewImporter(store, testutil.Logger()).Import(ctx, []spreadsheet.Row{
		row(2, "location_name", "New", "city", "Town"),
	}, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Deleted)
	assert.Equal(t, 1, res.Created)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "New", all[0].LocationName)
}

func TestImport_FromTemplate(t *testing.T) {
	data, err := spreadsheet.BuildLocationTemplate()
	require.NoError(t, err)
	rows, err := spreadsheet.ReadRows(bytes.NewReader(data))
	require.NoError(t, err)

	store := storage.NewLocationStore(testutil.NewDB(t))
	res, err := NewImporter(store, testutil.Logger()).Import(context.Background(), rows, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Empty(t, res.Errors)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := storage.NewLocationStore(testutil.NewDB(t))

	created, updated, err := Seed(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, len(SeedData()), created)
	assert.Zero(t, updated)

	created, updated, err = Seed(ctx, store)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, len(SeedData()), updated)
}

func TestSheetFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/d/abc123/export" || r.URL.Query().Get("format") != "csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("location_name,city,latitude\nWVU,Morgantown,39.6\n"))
	}))
	defer srv.Close()

	f := NewSheetFetcher(srv.URL)
	assert.Equal(t, srv.URL+"/d/abc123/export?format=csv", f.ExportURL("abc123"))

	rows, err := f.Fetch(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "WVU", rows[0].Get("location_name"))

	_, err = f.Fetch(context.Background(), "private")
	assert.ErrorContains(t, err, "status 404")
}
