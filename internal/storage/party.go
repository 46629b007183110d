package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"wedding-site/internal/models"
)

// PartyRepository persists wedding party members
type PartyRepository interface {
	Create(ctx context.Context, m *models.WeddingPartyMember) error
	Update(ctx context.Context, m *models.WeddingPartyMember) error
	Get(ctx context.Context, id uint) (*models.WeddingPartyMember, error)
	ListActive(ctx context.Context, side models.Side) ([]models.WeddingPartyMember, error)
}

type PartyStore struct {
	db *gorm.DB
}

func NewPartyStore(db *gorm.DB) *PartyStore {
	return &PartyStore{db: db}
}

func checkMember(m *models.WeddingPartyMember) error {
	if !m.Side.Valid() {
		return fmt.Errorf("%w: side %q", ErrInvalid, m.Side)
	}
	if !m.Role.Valid() {
		return fmt.Errorf("%w: role %q", ErrInvalid, m.Role)
	}
	return nil
}

func (s *PartyStore) Create(ctx context.Context, m *models.WeddingPartyMember) error {
	if err := checkMember(m); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create party member: %w", err)
	}
	return nil
}

func (s *PartyStore) Update(ctx context.Context, m *models.WeddingPartyMember) error {
	if err := checkMember(m); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("failed to update party member: %w", err)
	}
	return nil
}

func (s *PartyStore) Get(ctx context.Context, id uint) (*models.WeddingPartyMember, error) {
	var m models.WeddingPartyMember
	err := s.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get party member: %w", err)
	}
	return &m, nil
}

// ListActive returns active members ordered by side and display order.
// An empty side returns both sides.
func (s *PartyStore) ListActive(ctx context.Context, side models.Side) ([]models.WeddingPartyMember, error) {
	q := s.db.WithContext(ctx).Where("is_active = ?", true)
	if side != "" {
		q = q.Where("side = ?", side)
	}

	var members []models.WeddingPartyMember
	if err := q.Order("side ASC, display_order ASC, id ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list party members: %w", err)
	}
	return members, nil
}
