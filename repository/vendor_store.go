package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

// VendorStore is the persistence boundary for vendors.
type VendorStore interface {
	Create(ctx context.Context, vendor *models.Vendor) error
	List(ctx context.Context) ([]models.Vendor, error)
	ListActive(ctx context.Context) ([]models.Vendor, error)
	GetByID(ctx context.Context, id string) (*models.Vendor, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Vendor, error)
	GetByEmail(ctx context.Context, email string) (*models.Vendor, error)
	Update(ctx context.Context, vendor *models.Vendor) error
	Delete(ctx context.Context, id string) error
	AppendProposal(ctx context.Context, id, proposalID string) error
	Count(ctx context.Context) (int64, error)
}

type gormVendorStore struct {
	db *gorm.DB
}

// NewVendorStore returns a GORM-backed VendorStore.
func NewVendorStore(db *gorm.DB) VendorStore {
	return &gormVendorStore{db: db}
}

func (s *gormVendorStore) Create(ctx context.Context, vendor *models.Vendor) error {
	return s.db.WithContext(ctx).Create(vendor).Error
}

func (s *gormVendorStore) List(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&vendors).Error
	return vendors, err
}

func (s *gormVendorStore) ListActive(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := s.db.WithContext(ctx).
		Where("status = ?", models.VendorStatusActive).
		Order("name ASC").
		Find(&vendors).Error
	return vendors, err
}

func (s *gormVendorStore) GetByID(ctx context.Context, id string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := s.db.WithContext(ctx).First(&vendor, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (s *gormVendorStore) GetByIDs(ctx context.Context, ids []string) ([]models.Vendor, error) {
	var vendors []models.Vendor
	if len(ids) == 0 {
		return vendors, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&vendors).Error
	return vendors, err
}

// GetByEmail matches case-insensitively, since mail headers do not preserve
// the casing vendors were registered with.
func (s *gormVendorStore) GetByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&vendor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (s *gormVendorStore) Update(ctx context.Context, vendor *models.Vendor) error {
	vendor.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).Save(vendor).Error
}

func (s *gormVendorStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Vendor{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendProposal records a proposal reference on the vendor's history.
func (s *gormVendorStore) AppendProposal(ctx context.Context, id, proposalID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vendor models.Vendor
		if err := tx.Clauses(forUpdate()).First(&vendor, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		for _, existing := range vendor.PreviousProposals {
			if existing == proposalID {
				return nil
			}
		}
		vendor.PreviousProposals = append(vendor.PreviousProposals, proposalID)
		vendor.UpdatedAt = time.Now()
		return tx.Save(&vendor).Error
	})
}

func (s *gormVendorStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Vendor{}).Count(&count).Error
	return count, err
}
