package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backend/models"
	"backend/repository"

	"go.uber.org/zap"
)

const proposalSystemPrompt = `
You are an expert at parsing vendor proposals from unstructured emails.
Extract all relevant information into structured JSON.

Return ONLY valid JSON with this structure:
{
  "pricing": {
    "breakdown": [
      { "itemName": "string", "quantity": number, "unitPrice": number, "subtotal": number }
    ],
    "totalPrice": number,
    "discounts": "string or null",
    "currency": "USD"
  },
  "deliveryDetails": {
    "estimatedDate": "YYYY-MM-DD or null",
    "leadTime": "string (e.g., '3 weeks')",
    "shippingCost": number or null,
    "conditions": "string"
  },
  "terms": {
    "paymentTerms": "string (e.g., 'Net 30')",
    "warranty": "string (e.g., '24 months')",
    "supportLevel": "string (e.g., '24/7 support')",
    "sla": "string or null"
  },
  "compliance": {
    "specsMatched": ["array of matched specs"],
    "specsNotMatched": ["array of unmatched specs"],
    "additionalOfferings": ["extra features offered"]
  }
}
`

// InboundEmail is a vendor reply after MIME parsing, before extraction.
type InboundEmail struct {
	From        string
	Subject     string
	Text        string
	HTML        string
	Attachments []models.Attachment
}

// ProposalService extracts, scores and stores vendor proposals.
type ProposalService struct {
	proposals repository.ProposalStore
	rfps      repository.RFPStore
	vendors   repository.VendorStore
	llm       ContentGenerator
	logger    *zap.Logger
}

// NewProposalService wires a ProposalService.
func NewProposalService(proposals repository.ProposalStore, rfps repository.RFPStore, vendors repository.VendorStore, llm ContentGenerator, logger *zap.Logger) *ProposalService {
	return &ProposalService{proposals: proposals, rfps: rfps, vendors: vendors, llm: llm, logger: logger}
}

// FlattenEmailContent merges the email body and attachments into one text
// block for the extractor. The plain-text body is preferred; an HTML-only
// email is converted to text first. Attachments contribute a filename marker,
// plus their content when text-typed.
func FlattenEmailContent(email InboundEmail) string {
	var sb strings.Builder

	body := email.Text
	if strings.TrimSpace(body) == "" && email.HTML != "" {
		body = ConvertHTMLToText(email.HTML)
	}
	sb.WriteString(body)

	for _, att := range email.Attachments {
		sb.WriteString(fmt.Sprintf("\n\n[Attachment: %s]", att.Filename))
		if strings.Contains(att.ContentType, "text") && att.Content != "" {
			sb.WriteString("\n")
			sb.WriteString(att.Content)
		}
	}

	return sb.String()
}

// CreateFromEmail runs the full intake pipeline for one vendor reply:
// extract structured data, score it against the RFP, persist the proposal
// and update the RFP and vendor references. The storage-level unique index
// on (rfp_id, vendor_id) guarantees at most one proposal per pair; a
// duplicate insert surfaces as repository.ErrDuplicateProposal.
func (s *ProposalService) CreateFromEmail(ctx context.Context, email InboundEmail, rfpID, vendorID string) (*models.Proposal, error) {
	rfp, err := s.rfps.GetByID(ctx, rfpID)
	if err != nil {
		return nil, fmt.Errorf("loading rfp %s: %w", rfpID, err)
	}

	content := FlattenEmailContent(email)

	parsed, err := s.extractProposal(ctx, content)
	if err != nil {
		return nil, err
	}

	scores, err := ScoreProposal(*parsed, rfp.Specifications)
	if err != nil {
		return nil, fmt.Errorf("scoring proposal: %w", err)
	}

	rawBody := email.Text
	if strings.TrimSpace(rawBody) == "" {
		rawBody = email.HTML
	}

	now := time.Now()
	proposal := &models.Proposal{
		ID:             repository.GenerateObjectID(),
		RFPID:          rfpID,
		VendorID:       vendorID,
		RawEmailBody:   rawBody,
		RawAttachments: email.Attachments,
		ParsedData:     *parsed,
		ScoredByAI:     scores,
		Status:         models.ProposalStatusEvaluated,
		ReceivedAt:     now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.proposals.Create(ctx, proposal); err != nil {
		return nil, err
	}

	if err := s.rfps.AppendProposal(ctx, rfpID, proposal.ID); err != nil {
		s.logger.Error("updating rfp proposal list failed",
			zap.String("rfp_id", rfpID),
			zap.String("proposal_id", proposal.ID),
			zap.Error(err))
	}
	if err := s.vendors.AppendProposal(ctx, vendorID, proposal.ID); err != nil {
		s.logger.Error("updating vendor proposal history failed",
			zap.String("vendor_id", vendorID),
			zap.String("proposal_id", proposal.ID),
			zap.Error(err))
	}

	s.logger.Info("proposal created and scored",
		zap.String("proposal_id", proposal.ID),
		zap.String("rfp_id", rfpID),
		zap.String("vendor_id", vendorID),
		zap.Int("overall", scores.Overall))

	return proposal, nil
}

func (s *ProposalService) extractProposal(ctx context.Context, content string) (*models.ParsedProposal, error) {
	userPrompt := fmt.Sprintf("Parse this vendor proposal email:\n\n%s", content)

	raw, err := s.llm.Generate(ctx, proposalSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("extracting proposal: %w", err)
	}

	var parsed models.ParsedProposal
	if err := decodeStrict(raw, &parsed); err != nil {
		return nil, err
	}
	if parsed.Pricing.TotalPrice <= 0 {
		return nil, fmt.Errorf("%w: pricing.totalPrice missing or not positive", ErrLLMSchema)
	}

	return &parsed, nil
}

// Exists reports whether a proposal already exists for the pair.
func (s *ProposalService) Exists(ctx context.Context, rfpID, vendorID string) (bool, error) {
	return s.proposals.ExistsForRFPAndVendor(ctx, rfpID, vendorID)
}

// ListByRFP returns all proposals for an RFP, newest first, with vendor
// references expanded.
func (s *ProposalService) ListByRFP(ctx context.Context, rfpID string) ([]models.ProposalView, error) {
	proposals, err := s.proposals.ListByRFP(ctx, rfpID)
	if err != nil {
		return nil, err
	}

	views := make([]models.ProposalView, 0, len(proposals))
	for _, p := range proposals {
		view := models.ProposalView{Proposal: p}
		if v, err := s.vendors.GetByID(ctx, p.VendorID); err == nil {
			view.Vendor = v.Summary()
		}
		views = append(views, view)
	}
	return views, nil
}
