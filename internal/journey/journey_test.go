package journey

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-site/internal/config"
	"wedding-site/internal/media"
	"wedding-site/internal/models"
	"wedding-site/internal/storage"
	"wedding-site/internal/testutil"
)

type fakeLister struct {
	byPrefix map[string][]media.Resource
	fail     map[string]bool
	prefixes []string
}

func (f *fakeLister) List(ctx context.Context, prefix string, max int) ([]media.Resource, error) {
	f.prefixes = append(f.prefixes, prefix)
	if f.fail[prefix] {
		return nil, errors.New("host unavailable")
	}
	return f.byPrefix[prefix], nil
}

var urls = media.NewURLBuilder(config.MediaConfig{CloudName: "demo", DeliveryURL: "https://res.example.com"})

func seed(t *testing.T, locs ...models.Location) *storage.LocationStore {
	store := storage.NewLocationStore(testutil.NewDB(t))
	for i := range locs {
		require.NoError(t, store.Create(context.Background(), &locs[i]))
	}
	return store
}

func TestLocations_OneFailureDoesNotAbort(t *testing.T) {
	store := seed(t,
		models.Location{LocationName: "WVU", City: "Morgantown", Order: 1, IsActive: true, PhotoBaseName: "morgantown"},
		models.Location{LocationName: "Aviary", City: "Pittsburgh", Order: 2, IsActive: true, PhotoBaseName: "aviary"},
		models.Location{LocationName: "Park", City: "Pittsburgh", Order: 3, IsActive: true},
	)
	photos := &fakeLister{
		byPrefix: map[string][]media.Resource{
			"wedding/locations/aviary": {{PublicID: "wedding/locations/aviary_2"}, {PublicID: "wedding/locations/aviary_1"}},
		},
		fail: map[string]bool{"wedding/locations/morgantown": true},
	}

	svc := NewService(store, photos, urls, testutil.Logger())
	locs, err := svc.Locations(context.Background())
	require.NoError(t, err)
	require.Len(t, locs, 3)

	assert.Equal(t, "WVU", locs[0].LocationName)
	assert.NotNil(t, locs[0].Photos)
	assert.Empty(t, locs[0].Photos)

	assert.Equal(t, []string{
		"https://res.example.com/demo/image/upload/f_auto,fl_progressive,q_auto:good/wedding/locations/aviary_2",
		"https://res.example.com/demo/image/upload/f_auto,fl_progressive,q_auto:good/wedding/locations/aviary_1",
	}, locs[1].Photos, "host order is kept")

	assert.Empty(t, locs[2].Photos)
	assert.Len(t, photos.prefixes, 2, "locations without a base name are not looked up")
}

func TestLocations_JSONPhotosIsArray(t *testing.T) {
	store := seed(t, models.Location{LocationName: "Park", City: "Pittsburgh", IsActive: true, Latitude: 40.44})
	svc := NewService(store, nil, urls, testutil.Logger())

	locs, err := svc.Locations(context.Background())
	require.NoError(t, err)

	data, err := json.Marshal(map[string]any{"locations": locs})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"photos":[]`)
	assert.Contains(t, string(data), `"latitude":40.44`)
}

func TestLocations_InactiveHidden(t *testing.T) {
	store := seed(t,
		models.Location{LocationName: "Old", City: "Nowhere", IsActive: false},
		models.Location{LocationName: "New", City: "Somewhere", IsActive: true},
	)
	svc := NewService(store, nil, urls, testutil.Logger())

	locs, err := svc.Locations(context.Background())
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "New", locs[0].LocationName)
}
