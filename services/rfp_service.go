package services

import (
	"context"
	"fmt"
	"time"

	"backend/models"
	"backend/repository"

	"go.uber.org/zap"
)

const rfpSystemPrompt = `
You are an expert procurement assistant. Parse the user's natural language input
into structured JSON for an RFP.

Return ONLY valid JSON, no explanations.
{
  "title": "Short title",
  "items": [
    {
      "name": "Product name",
      "quantity": number,
      "specs": { "key": "value" }
    }
  ],
  "budget": { "total": number, "currency": "USD" },
  "deliveryTerms": {
    "deadline": "YYYY-MM-DD",
    "leadTimeDays": number,
    "location": "delivery location"
  },
  "paymentTerms": { "netDays": number, "milestone": "payment milestone" },
  "warranty": { "period": number, "coverage": "coverage description" }
}
`

// RFPDetail is an RFP with its vendor and proposal references expanded.
type RFPDetail struct {
	models.RFP
	Vendors   []models.Vendor      `json:"vendors"`
	Proposals []models.ProposalView `json:"proposals"`
}

// RFPService turns natural-language procurement requests into structured RFPs
// and serves RFP reads.
type RFPService struct {
	rfps      repository.RFPStore
	vendors   repository.VendorStore
	proposals repository.ProposalStore
	llm       ContentGenerator
	logger    *zap.Logger
}

// NewRFPService wires an RFPService.
func NewRFPService(rfps repository.RFPStore, vendors repository.VendorStore, proposals repository.ProposalStore, llm ContentGenerator, logger *zap.Logger) *RFPService {
	return &RFPService{rfps: rfps, vendors: vendors, proposals: proposals, llm: llm, logger: logger}
}

// CreateFromText extracts structured specifications from the user's free-text
// request and persists a draft RFP. The original text is kept verbatim as the
// description.
func (s *RFPService) CreateFromText(ctx context.Context, userInput string) (*models.RFP, error) {
	userPrompt := fmt.Sprintf("Parse this procurement request: %q", userInput)

	raw, err := s.llm.Generate(ctx, rfpSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("parsing procurement request: %w", err)
	}

	var specs models.Specifications
	if err := decodeStrict(raw, &specs); err != nil {
		return nil, err
	}
	if specs.Budget.Total <= 0 {
		return nil, fmt.Errorf("%w: budget.total missing or not positive", ErrLLMSchema)
	}
	if len(specs.Items) == 0 {
		return nil, fmt.Errorf("%w: no items extracted", ErrLLMSchema)
	}

	title := specs.Title
	if title == "" {
		title = "Procurement Request"
	}

	now := time.Now()
	rfp := &models.RFP{
		ID:             repository.GenerateObjectID(),
		Title:          title,
		Description:    userInput,
		Specifications: specs,
		Status:         models.RFPStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.rfps.Create(ctx, rfp); err != nil {
		return nil, fmt.Errorf("saving rfp: %w", err)
	}

	s.logger.Info("rfp created",
		zap.String("rfp_id", rfp.ID),
		zap.String("title", rfp.Title),
		zap.Float64("budget", specs.Budget.Total))

	return rfp, nil
}

// List returns all RFPs, newest first.
func (s *RFPService) List(ctx context.Context) ([]models.RFP, error) {
	return s.rfps.List(ctx)
}

// GetDetail loads an RFP with its vendor and proposal references expanded.
func (s *RFPService) GetDetail(ctx context.Context, id string) (*RFPDetail, error) {
	rfp, err := s.rfps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vendors, err := s.vendors.GetByIDs(ctx, rfp.VendorIDs)
	if err != nil {
		return nil, fmt.Errorf("loading rfp vendors: %w", err)
	}

	proposals, err := s.proposals.ListByRFP(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading rfp proposals: %w", err)
	}

	vendorByID := make(map[string]models.Vendor, len(vendors))
	for _, v := range vendors {
		vendorByID[v.ID] = v
	}

	views := make([]models.ProposalView, 0, len(proposals))
	for _, p := range proposals {
		view := models.ProposalView{Proposal: p}
		if v, ok := vendorByID[p.VendorID]; ok {
			view.Vendor = v.Summary()
		} else if v, err := s.vendors.GetByID(ctx, p.VendorID); err == nil {
			view.Vendor = v.Summary()
		}
		views = append(views, view)
	}

	if vendors == nil {
		vendors = []models.Vendor{}
	}

	return &RFPDetail{RFP: *rfp, Vendors: vendors, Proposals: views}, nil
}

// MarkSent records the recipients on the RFP and flips it to "sent".
func (s *RFPService) MarkSent(ctx context.Context, id string, vendorIDs []string) (*models.RFP, error) {
	return s.rfps.SetVendors(ctx, id, vendorIDs)
}
