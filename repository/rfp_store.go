package repository

import (
	"context"
	"errors"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

// RFPStore is the persistence boundary for RFPs.
type RFPStore interface {
	Create(ctx context.Context, rfp *models.RFP) error
	List(ctx context.Context) ([]models.RFP, error)
	GetByID(ctx context.Context, id string) (*models.RFP, error)
	SetVendors(ctx context.Context, id string, vendorIDs []string) (*models.RFP, error)
	AppendProposal(ctx context.Context, id, proposalID string) error
}

type gormRFPStore struct {
	db *gorm.DB
}

// NewRFPStore returns a GORM-backed RFPStore.
func NewRFPStore(db *gorm.DB) RFPStore {
	return &gormRFPStore{db: db}
}

func (s *gormRFPStore) Create(ctx context.Context, rfp *models.RFP) error {
	return s.db.WithContext(ctx).Create(rfp).Error
}

func (s *gormRFPStore) List(ctx context.Context) ([]models.RFP, error) {
	var rfps []models.RFP
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rfps).Error
	return rfps, err
}

func (s *gormRFPStore) GetByID(ctx context.Context, id string) (*models.RFP, error) {
	var rfp models.RFP
	err := s.db.WithContext(ctx).First(&rfp, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rfp, nil
}

// SetVendors records the recipient list and moves the RFP to "sent".
func (s *gormRFPStore) SetVendors(ctx context.Context, id string, vendorIDs []string) (*models.RFP, error) {
	rfp, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rfp.VendorIDs = vendorIDs
	rfp.Status = models.RFPStatusSent
	rfp.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(rfp).Error; err != nil {
		return nil, err
	}
	return rfp, nil
}

// AppendProposal adds a proposal reference and marks the RFP as having
// received responses. Runs in a transaction so the read-modify-write does
// not drop references under concurrent poll cycles.
func (s *gormRFPStore) AppendProposal(ctx context.Context, id, proposalID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rfp models.RFP
		if err := tx.Clauses(forUpdate()).First(&rfp, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		for _, existing := range rfp.ProposalIDs {
			if existing == proposalID {
				return nil
			}
		}
		rfp.ProposalIDs = append(rfp.ProposalIDs, proposalID)
		rfp.Status = models.RFPStatusResponsesReceived
		rfp.UpdatedAt = time.Now()
		return tx.Save(&rfp).Error
	})
}
