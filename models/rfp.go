package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// RFP lifecycle statuses.
const (
	RFPStatusDraft             = "draft"
	RFPStatusSent              = "sent"
	RFPStatusResponsesReceived = "responses_received"
)

// SpecItem is a single line item the buyer needs quoted.
type SpecItem struct {
	Name     string            `json:"name"`
	Quantity int               `json:"quantity"`
	Specs    map[string]string `json:"specs,omitempty"`
}

type Budget struct {
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

type DeliveryTerms struct {
	Deadline     string `json:"deadline"`
	LeadTimeDays int    `json:"leadTimeDays"`
	Location     string `json:"location"`
}

type PaymentTerms struct {
	NetDays   int    `json:"netDays"`
	Milestone string `json:"milestone"`
}

type Warranty struct {
	Period   int    `json:"period"`
	Coverage string `json:"coverage"`
}

// Specifications is the structured requirements document extracted from the
// user's natural-language request. Stored as a single jsonb column.
type Specifications struct {
	Title         string        `json:"title,omitempty"`
	Items         []SpecItem    `json:"items"`
	Budget        Budget        `json:"budget"`
	DeliveryTerms DeliveryTerms `json:"deliveryTerms"`
	PaymentTerms  PaymentTerms  `json:"paymentTerms"`
	Warranty      Warranty      `json:"warranty"`
}

func (s Specifications) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Specifications) Scan(value interface{}) error {
	return scanJSONB(value, s)
}

// RFP represents the rfps table. The 24-hex id doubles as the correlation
// key embedded in outbound email subjects and matched back from replies.
type RFP struct {
	ID             string         `gorm:"primaryKey;column:id;type:char(24)" json:"id"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Description    string         `gorm:"column:description;type:text" json:"description"`
	Specifications Specifications `gorm:"column:specifications;type:jsonb" json:"specifications"`
	Status         string         `gorm:"column:status;not null;default:'draft'" json:"status"`
	VendorIDs      pq.StringArray `gorm:"column:vendor_ids;type:text[]" json:"vendorIds"`
	ProposalIDs    pq.StringArray `gorm:"column:proposal_ids;type:text[]" json:"proposalIds"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName specifies the table name for RFP
func (RFP) TableName() string {
	return "rfps"
}
