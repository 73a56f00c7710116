package repository

import (
	"context"
	"errors"

	"backend/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ProposalStore is the persistence boundary for proposals.
type ProposalStore interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id string) (*models.Proposal, error)
	ListByRFP(ctx context.Context, rfpID string) ([]models.Proposal, error)
	ExistsForRFPAndVendor(ctx context.Context, rfpID, vendorID string) (bool, error)
	Update(ctx context.Context, proposal *models.Proposal) error
}

type gormProposalStore struct {
	db *gorm.DB
}

// NewProposalStore returns a GORM-backed ProposalStore.
func NewProposalStore(db *gorm.DB) ProposalStore {
	return &gormProposalStore{db: db}
}

// Create inserts a proposal. A unique-violation on (rfp_id, vendor_id) is
// translated to ErrDuplicateProposal so concurrent poll cycles racing on the
// same reply resolve to exactly one stored proposal.
func (s *gormProposalStore) Create(ctx context.Context, proposal *models.Proposal) error {
	err := s.db.WithContext(ctx).Create(proposal).Error
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateProposal
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateProposal
	}
	return err
}

func (s *gormProposalStore) GetByID(ctx context.Context, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := s.db.WithContext(ctx).First(&proposal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (s *gormProposalStore) ListByRFP(ctx context.Context, rfpID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := s.db.WithContext(ctx).
		Where("rfp_id = ?", rfpID).
		Order("received_at DESC").
		Find(&proposals).Error
	return proposals, err
}

func (s *gormProposalStore) ExistsForRFPAndVendor(ctx context.Context, rfpID, vendorID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Proposal{}).
		Where("rfp_id = ? AND vendor_id = ?", rfpID, vendorID).
		Count(&count).Error
	return count > 0, err
}

func (s *gormProposalStore) Update(ctx context.Context, proposal *models.Proposal) error {
	return s.db.WithContext(ctx).Save(proposal).Error
}
