package models

import (
	"time"

	"github.com/lib/pq"
)

// Vendor statuses.
const (
	VendorStatusActive   = "active"
	VendorStatusInactive = "inactive"
)

// Vendor represents the vendors table. Email is the identity used to match
// inbound proposal emails back to a vendor record.
type Vendor struct {
	ID                string         `gorm:"primaryKey;column:id;type:char(24)" json:"id"`
	Name              string         `gorm:"column:name;not null" json:"name"`
	Email             string         `gorm:"column:email;uniqueIndex;not null" json:"email"`
	ContactPerson     string         `gorm:"column:contact_person" json:"contactPerson"`
	Phone             string         `gorm:"column:phone" json:"phone"`
	Status            string         `gorm:"column:status;not null;default:'active'" json:"status"`
	PreviousProposals pq.StringArray `gorm:"column:previous_proposals;type:text[]" json:"previousProposals"`
	CreatedAt         time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt         time.Time      `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName specifies the table name for Vendor
func (Vendor) TableName() string {
	return "vendors"
}

// VendorSummary is the trimmed vendor reference embedded in proposal listings.
type VendorSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (v *Vendor) Summary() VendorSummary {
	return VendorSummary{ID: v.ID, Name: v.Name, Email: v.Email}
}
