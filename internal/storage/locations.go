package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"wedding-site/internal/models"
)

// LocationRepository persists journey map locations
type LocationRepository interface {
	Create(ctx context.Context, loc *models.Location) error
	Upsert(ctx context.Context, loc *models.Location) (created bool, err error)
	ListActive(ctx context.Context) ([]models.Location, error)
	List(ctx context.Context) ([]models.Location, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type LocationStore struct {
	db *gorm.DB
}

// NewLocationStore creates a location repository
func NewLocationStore(db *gorm.DB) *LocationStore {
	return &LocationStore{db: db}
}

func (s *LocationStore) Create(ctx context.Context, loc *models.Location) error {
	if err := s.db.WithContext(ctx).Create(loc).Error; err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

// Upsert inserts loc or updates the row with the same name and city.
// On update loc receives the existing ID.
func (s *LocationStore) Upsert(ctx context.Context, loc *models.Location) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Location
		err := tx.Where("location_name = ? AND city = ?", loc.LocationName, loc.City).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(loc).Error
		case err != nil:
			return err
		}

		loc.ID = existing.ID
		loc.CreatedAt = existing.CreatedAt
		return tx.Save(loc).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert location %q: %w", loc.LocationName, err)
	}
	return created, nil
}

// ListActive returns visible locations in display order
func (s *LocationStore) ListActive(ctx context.Context) ([]models.Location, error) {
	var locs []models.Location
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, date_visited ASC, id ASC").
		Find(&locs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locs, nil
}

func (s *LocationStore) List(ctx context.Context) ([]models.Location, error) {
	var locs []models.Location
	if err := s.db.WithContext(ctx).Order("display_order ASC, date_visited ASC, id ASC").Find(&locs).Error; err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locs, nil
}

// DeleteAll removes every location and returns how many were removed
func (s *LocationStore) DeleteAll(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Location{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete locations: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *LocationStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Location{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count locations: %w", err)
	}
	return n, nil
}
