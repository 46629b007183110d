package journey

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"wedding-site/internal/media"
	"wedding-site/internal/models"
)

const maxPhotosPerLocation = 10

// LocationLister lists the locations shown on the map
type LocationLister interface {
	ListActive(ctx context.Context) ([]models.Location, error)
}

// Location is the map representation of a place
type Location struct {
	ID           uint     `json:"id"`
	LocationName string   `json:"location_name"`
	City         string   `json:"city"`
	StateCountry string   `json:"state_country"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Description  string   `json:"description"`
	Significance string   `json:"significance"`
	DateVisited  string   `json:"date_visited"`
	Order        int      `json:"order"`
	Photos       []string `json:"photos"`
}

type Service struct {
	locations LocationLister
	photos    media.Lister
	urls      media.URLBuilder
	log       zerolog.Logger
}

// NewService creates the journey projection. photos may be nil when no media host is configured.
func NewService(locations LocationLister, photos media.Lister, urls media.URLBuilder, log zerolog.Logger) *Service {
	return &Service{
		locations: locations,
		photos:    photos,
		urls:      urls,
		log:       log.With().Str("component", "journey").Logger(),
	}
}

// Locations returns every active location with its photo URLs.
// A failed photo lookup leaves that location without photos.
func (s *Service) Locations(ctx context.Context) ([]Location, error) {
	locs, err := s.locations.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	out := make([]Location, 0, len(locs))
	for _, l := range locs {
		out = append(out, Location{
			ID:           l.ID,
			LocationName: l.LocationName,
			City:         l.City,
			StateCountry: l.StateCountry,
			Latitude:     l.Latitude,
			Longitude:    l.Longitude,
			Description:  l.Description,
			Significance: l.Significance,
			DateVisited:  l.DateVisited,
			Order:        l.Order,
			Photos:       s.photoURLs(ctx, l),
		})
	}
	return out, nil
}

func (s *Service) photoURLs(ctx context.Context, l models.Location) []string {
	urls := []string{}
	if l.PhotoBaseName == "" || s.photos == nil {
		return urls
	}

	res, err := s.photos.List(ctx, media.LocationsFolder+"/"+l.PhotoBaseName, maxPhotosPerLocation)
	if err != nil {
		s.log.Error().Err(err).
			Str("location", l.LocationName).
			Str("photo_base_name", l.PhotoBaseName).
			Msg("Failed to fetch location photos")
		return urls
	}

	for _, r := range res {
		urls = append(urls, s.urls.URL(r.PublicID, media.Progressive))
	}
	return urls
}
