package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"wedding-site/internal/models"
)

// PhotoRepository persists guest photo uploads
type PhotoRepository interface {
	Create(ctx context.Context, p *models.PhotoUpload) error
	List(ctx context.Context) ([]models.PhotoUpload, error)
	ListApproved(ctx context.Context) ([]models.PhotoUpload, error)
	SetApproved(ctx context.Context, id uint, approved bool) error
}

type PhotoStore struct {
	db *gorm.DB
}

func NewPhotoStore(db *gorm.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

func (s *PhotoStore) Create(ctx context.Context, p *models.PhotoUpload) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create photo upload: %w", err)
	}
	return nil
}

func (s *PhotoStore) List(ctx context.Context) ([]models.PhotoUpload, error) {
	var photos []models.PhotoUpload
	if err := s.db.WithContext(ctx).Order("uploaded_at DESC, id DESC").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list photo uploads: %w", err)
	}
	return photos, nil
}

// ListApproved returns publicly visible uploads, newest first
func (s *PhotoStore) ListApproved(ctx context.Context) ([]models.PhotoUpload, error) {
	var photos []models.PhotoUpload
	err := s.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Order("uploaded_at DESC, id DESC").
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list approved photos: %w", err)
	}
	return photos, nil
}

// SetApproved toggles the moderation flag
func (s *PhotoStore) SetApproved(ctx context.Context, id uint, approved bool) error {
	res := s.db.WithContext(ctx).Model(&models.PhotoUpload{}).Where("id = ?", id).Update("is_approved", approved)
	if res.Error != nil {
		return fmt.Errorf("failed to update photo upload: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
