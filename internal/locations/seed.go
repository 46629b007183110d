package locations

import (
	"context"

	"wedding-site/internal/models"
)

// SeedData are the hand entered journey locations
func SeedData() []models.Location {
	return []models.Location{
		{
			LocationName: "West Virginia University",
			City:         "Morgantown",
			StateCountry: "West Virginia",
			Latitude:     39.6498,
			Longitude:    -79.9545,
			Description:  "Where we met as classmates in the same major and became friends before falling in love senior year.",
			Significance: "The place where our story began",
			DateVisited:  "2018-2022",
			Order:        1,
			IsActive:     true,
		},
	}
}

// Seed upserts the seed locations and reports how many were created and updated
func Seed(ctx context.Context, store Store) (created, updated int, err error) {
	for _, loc := range SeedData() {
		isNew, err := store.Upsert(ctx, &loc)
		if err != nil {
			return created, updated, err
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}
