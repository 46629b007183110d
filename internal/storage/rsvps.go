package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"wedding-site/internal/models"
)

// RSVPRepository persists RSVPs together with the guests they own
type RSVPRepository interface {
	Create(ctx context.Context, r *models.RSVP) error
	List(ctx context.Context) ([]models.RSVP, error)
	Get(ctx context.Context, id uint) (*models.RSVP, error)
	Delete(ctx context.Context, id uint) error
}

type RSVPStore struct {
	db *gorm.DB
}

func NewRSVPStore(db *gorm.DB) *RSVPStore {
	return &RSVPStore{db: db}
}

// Create saves the RSVP and its guests in one transaction
func (s *RSVPStore) Create(ctx context.Context, r *models.RSVP) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("failed to create rsvp: %w", err)
	}
	return nil
}

func preloadGuests(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// List returns every RSVP, newest first, with guests loaded
func (s *RSVPStore) List(ctx context.Context) ([]models.RSVP, error) {
	var rsvps []models.RSVP
	err := s.db.WithContext(ctx).
		Preload("Guests", preloadGuests).
		Order("submitted_at DESC, id DESC").
		Find(&rsvps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps: %w", err)
	}
	return rsvps, nil
}

func (s *RSVPStore) Get(ctx context.Context, id uint) (*models.RSVP, error) {
	var r models.RSVP
	err := s.db.WithContext(ctx).Preload("Guests", preloadGuests).First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rsvp: %w", err)
	}
	return &r, nil
}

// Delete removes the RSVP and all of its guests
func (s *RSVPStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rsvp_id = ?", id).Delete(&models.Guest{}).Error; err != nil {
			return fmt.Errorf("failed to delete guests: %w", err)
		}
		res := tx.Delete(&models.RSVP{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete rsvp: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
