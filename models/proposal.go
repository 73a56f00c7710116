package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Proposal lifecycle statuses.
const (
	ProposalStatusParsed    = "parsed"
	ProposalStatusEvaluated = "evaluated"
)

// Attachment is a raw email attachment carried with a proposal. Only
// text-typed attachment content is fed to the extractor; binary content is
// kept for audit but not inlined.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     string `json:"content,omitempty"`
}

// AttachmentList stores attachments as a jsonb column.
type AttachmentList []Attachment

func (a AttachmentList) Value() (driver.Value, error) {
	if a == nil {
		a = AttachmentList{}
	}
	return json.Marshal(a)
}

func (a *AttachmentList) Scan(value interface{}) error {
	return scanJSONB(value, a)
}

type PricingBreakdownItem struct {
	ItemName  string  `json:"itemName"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

type Pricing struct {
	Breakdown  []PricingBreakdownItem `json:"breakdown"`
	TotalPrice float64                `json:"totalPrice"`
	Discounts  *string                `json:"discounts"`
	Currency   string                 `json:"currency"`
}

type DeliveryDetails struct {
	EstimatedDate *string  `json:"estimatedDate"`
	LeadTime      string   `json:"leadTime"`
	ShippingCost  *float64 `json:"shippingCost"`
	Conditions    string   `json:"conditions"`
}

type ProposalTerms struct {
	PaymentTerms string  `json:"paymentTerms"`
	Warranty     string  `json:"warranty"`
	SupportLevel string  `json:"supportLevel"`
	SLA          *string `json:"sla"`
}

type Compliance struct {
	SpecsMatched        []string `json:"specsMatched"`
	SpecsNotMatched     []string `json:"specsNotMatched"`
	AdditionalOfferings []string `json:"additionalOfferings"`
}

// ParsedProposal is the structured data the extractor pulls out of a vendor
// email. Stored as a single jsonb column.
type ParsedProposal struct {
	Pricing         Pricing         `json:"pricing"`
	DeliveryDetails DeliveryDetails `json:"deliveryDetails"`
	Terms           ProposalTerms   `json:"terms"`
	Compliance      Compliance      `json:"compliance"`
}

func (p ParsedProposal) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *ParsedProposal) Scan(value interface{}) error {
	return scanJSONB(value, p)
}

// ScoreRecord holds the four 0-100 sub-scores and the weighted overall
// computed once at proposal creation time.
type ScoreRecord struct {
	PriceScore      int    `json:"priceScore"`
	DeliveryScore   int    `json:"deliveryScore"`
	ComplianceScore int    `json:"complianceScore"`
	SupportScore    int    `json:"supportScore"`
	Overall         int    `json:"overall"`
	Reasoning       string `json:"reasoning"`
}

func (s ScoreRecord) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *ScoreRecord) Scan(value interface{}) error {
	return scanJSONB(value, s)
}

// Proposal represents the proposals table. The unique index on
// (rfp_id, vendor_id) enforces at most one proposal per pair at the storage
// layer; concurrent poll cycles cannot create duplicates.
type Proposal struct {
	ID             string         `gorm:"primaryKey;column:id;type:char(24)" json:"id"`
	RFPID          string         `gorm:"column:rfp_id;type:char(24);not null;uniqueIndex:idx_proposals_rfp_vendor" json:"rfpId"`
	VendorID       string         `gorm:"column:vendor_id;type:char(24);not null;uniqueIndex:idx_proposals_rfp_vendor" json:"vendorId"`
	RawEmailBody   string         `gorm:"column:raw_email_body;type:text" json:"rawEmailBody"`
	RawAttachments AttachmentList `gorm:"column:raw_attachments;type:jsonb" json:"rawAttachments"`
	ParsedData     ParsedProposal `gorm:"column:parsed_data;type:jsonb" json:"parsedData"`
	ScoredByAI     ScoreRecord    `gorm:"column:scored_by_ai;type:jsonb" json:"scoredByAI"`
	Status         string         `gorm:"column:status;not null;default:'parsed'" json:"status"`
	ReceivedAt     time.Time      `gorm:"column:received_at;not null" json:"receivedAt"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName specifies the table name for Proposal
func (Proposal) TableName() string {
	return "proposals"
}

// ProposalView is a proposal with its vendor reference expanded for listings.
type ProposalView struct {
	Proposal
	Vendor VendorSummary `json:"vendor"`
}
