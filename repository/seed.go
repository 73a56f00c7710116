package repository

import (
	"context"
	"time"

	"backend/models"
)

// SeedVendors inserts a set of demo vendors when the vendors table is empty.
// It is a no-op on subsequent startups.
func SeedVendors(ctx context.Context, store VendorStore) (int, error) {
	count, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	now := time.Now()
	vendors := []models.Vendor{
		{
			ID:            GenerateObjectID(),
			Name:          "TechNova Systems",
			Email:         "sales@technova-systems.com",
			ContactPerson: "Anita Rao",
			Phone:         "+1-555-0142",
			Status:        models.VendorStatusActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            GenerateObjectID(),
			Name:          "Global IT Solutions",
			Email:         "rfp@globalitsolutions.co",
			ContactPerson: "Marcus Webb",
			Phone:         "+1-555-0178",
			Status:        models.VendorStatusActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            GenerateObjectID(),
			Name:          "Prime Hardware Supplies",
			Email:         "vishalbb178@gmail.com",
			ContactPerson: "Vishal Bhardwaj",
			Phone:         "+91-98-5550-1123",
			Status:        models.VendorStatusActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}

	for i := range vendors {
		if err := store.Create(ctx, &vendors[i]); err != nil {
			return i, err
		}
	}
	return len(vendors), nil
}
