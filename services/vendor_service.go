package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"backend/models"
	"backend/repository"

	"go.uber.org/zap"
)

// ErrInvalidVendor is wrapped around vendor validation failures.
var ErrInvalidVendor = fmt.Errorf("invalid vendor")

// VendorService manages the vendor registry.
type VendorService struct {
	vendors repository.VendorStore
	logger  *zap.Logger
}

// NewVendorService wires a VendorService.
func NewVendorService(vendors repository.VendorStore, logger *zap.Logger) *VendorService {
	return &VendorService{vendors: vendors, logger: logger}
}

// Create validates and registers a vendor. Email is normalized to lowercase
// because it is the key inbound replies are matched on.
func (s *VendorService) Create(ctx context.Context, vendor *models.Vendor) error {
	vendor.Email = strings.ToLower(strings.TrimSpace(vendor.Email))
	if vendor.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidVendor)
	}
	if _, err := mail.ParseAddress(vendor.Email); err != nil {
		return fmt.Errorf("%w: email address %q is not valid", ErrInvalidVendor, vendor.Email)
	}
	if vendor.Status == "" {
		vendor.Status = models.VendorStatusActive
	}

	now := time.Now()
	vendor.ID = repository.GenerateObjectID()
	vendor.CreatedAt = now
	vendor.UpdatedAt = now

	if err := s.vendors.Create(ctx, vendor); err != nil {
		return err
	}

	s.logger.Info("vendor registered",
		zap.String("vendor_id", vendor.ID),
		zap.String("email", vendor.Email))
	return nil
}

// List returns all vendors.
func (s *VendorService) List(ctx context.Context) ([]models.Vendor, error) {
	return s.vendors.List(ctx)
}

// GetByID returns one vendor.
func (s *VendorService) GetByID(ctx context.Context, id string) (*models.Vendor, error) {
	return s.vendors.GetByID(ctx, id)
}

// GetByIDs returns the vendors matching the given ids.
func (s *VendorService) GetByIDs(ctx context.Context, ids []string) ([]models.Vendor, error) {
	return s.vendors.GetByIDs(ctx, ids)
}

// Update applies changes to an existing vendor.
func (s *VendorService) Update(ctx context.Context, id string, updates *models.Vendor) (*models.Vendor, error) {
	vendor, err := s.vendors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.Name != "" {
		vendor.Name = updates.Name
	}
	if updates.Email != "" {
		email := strings.ToLower(strings.TrimSpace(updates.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: email address %q is not valid", ErrInvalidVendor, email)
		}
		vendor.Email = email
	}
	if updates.ContactPerson != "" {
		vendor.ContactPerson = updates.ContactPerson
	}
	if updates.Phone != "" {
		vendor.Phone = updates.Phone
	}
	if updates.Status != "" {
		vendor.Status = updates.Status
	}

	if err := s.vendors.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Delete removes a vendor.
func (s *VendorService) Delete(ctx context.Context, id string) error {
	return s.vendors.Delete(ctx, id)
}
