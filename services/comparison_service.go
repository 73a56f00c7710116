package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/models"
	"backend/repository"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrNoProposals is returned when a comparison is requested for an RFP with
// no stored proposals.
var ErrNoProposals = errors.New("no proposals found for this rfp")

const recommendationSystemPrompt = `
You are a procurement expert advisor. Analyze the vendor proposals and RFP requirements.
Provide a structured recommendation in JSON format.

Respond with ONLY valid JSON (no extra text):
{
  "recommendedVendor": "Vendor Name",
  "overallReasoning": "Detailed explanation of why this vendor is recommended",
  "keyStrengths": ["strength 1", "strength 2", "strength 3"],
  "riskFactors": ["risk 1", "risk 2"],
  "alternatives": [
    {
      "vendorName": "name",
      "whyConsider": "explanation"
    }
  ],
  "decision": "Executive summary for decision maker"
}
`

// ComparisonService assembles the scored comparison view and the AI
// recommendation for an RFP.
type ComparisonService struct {
	rfps      repository.RFPStore
	proposals repository.ProposalStore
	vendors   repository.VendorStore
	llm       ContentGenerator
	logger    *zap.Logger
}

// NewComparisonService wires a ComparisonService.
func NewComparisonService(rfps repository.RFPStore, proposals repository.ProposalStore, vendors repository.VendorStore, llm ContentGenerator, logger *zap.Logger) *ComparisonService {
	return &ComparisonService{rfps: rfps, proposals: proposals, vendors: vendors, llm: llm, logger: logger}
}

// CompareAndRecommend loads all proposals for the RFP and asks the model for
// a ranked recommendation. The recommendation is never persisted; it is
// recomputed from current scores on every call. A failed or unparseable
// model response degrades to a fallback recommendation rather than an error.
func (s *ComparisonService) CompareAndRecommend(ctx context.Context, rfpID string) (*models.ComparisonResult, error) {
	rfp, err := s.rfps.GetByID(ctx, rfpID)
	if err != nil {
		return nil, err
	}

	proposals, err := s.proposals.ListByRFP(ctx, rfpID)
	if err != nil {
		return nil, fmt.Errorf("loading proposals: %w", err)
	}
	if len(proposals) == 0 {
		return nil, ErrNoProposals
	}

	entries := make([]models.ComparisonEntry, 0, len(proposals))
	for _, p := range proposals {
		entry := models.ComparisonEntry{Proposal: p, Scores: p.ScoredByAI}
		if v, err := s.vendors.GetByID(ctx, p.VendorID); err == nil {
			entry.Vendor = v.Summary()
		}
		entries = append(entries, entry)
	}

	recommendation := s.generateRecommendation(ctx, rfp, entries)

	return &models.ComparisonResult{
		RFPID:          rfpID,
		TotalProposals: len(entries),
		Proposals:      entries,
		Recommendation: recommendation,
		GeneratedAt:    time.Now(),
	}, nil
}

func (s *ComparisonService) generateRecommendation(ctx context.Context, rfp *models.RFP, entries []models.ComparisonEntry) models.Recommendation {
	summaries := make([]string, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, buildProposalSummary(e.Vendor, e.Proposal, e.Scores))
	}

	itemNames := make([]string, 0, len(rfp.Specifications.Items))
	for _, item := range rfp.Specifications.Items {
		itemNames = append(itemNames, item.Name)
	}

	userPrompt := fmt.Sprintf(`
RFP Requirements:
Budget: %.2f %s
Delivery Required: %s
Key Items: %s

Vendor Proposals:
%s

Based on the scores and details above, which vendor should we choose and why?
`,
		rfp.Specifications.Budget.Total,
		rfp.Specifications.Budget.Currency,
		rfp.Specifications.DeliveryTerms.Deadline,
		strings.Join(itemNames, ", "),
		strings.Join(summaries, "\n\n---\n\n"))

	raw, err := s.llm.Generate(ctx, recommendationSystemPrompt, userPrompt)
	if err != nil {
		s.logger.Warn("recommendation generation failed, using fallback",
			zap.String("rfp_id", rfp.ID), zap.Error(err))
		return fallbackRecommendation()
	}

	var rec models.Recommendation
	if err := decodeStrict(raw, &rec); err != nil {
		s.logger.Warn("recommendation response unparseable, using fallback",
			zap.String("rfp_id", rfp.ID), zap.Error(err))
		return fallbackRecommendation()
	}
	if rec.KeyStrengths == nil {
		rec.KeyStrengths = []string{}
	}
	if rec.RiskFactors == nil {
		rec.RiskFactors = []string{}
	}
	if rec.Alternatives == nil {
		rec.Alternatives = []models.Alternative{}
	}
	return rec
}

// fallbackRecommendation is returned when the model is unavailable or its
// output cannot be decoded, so the comparison view still renders with the
// deterministic scores.
func fallbackRecommendation() models.Recommendation {
	return models.Recommendation{
		RecommendedVendor: "Unable to generate recommendation",
		OverallReasoning:  "Error in AI analysis",
		KeyStrengths:      []string{},
		RiskFactors:       []string{},
		Alternatives:      []models.Alternative{},
	}
}

// buildProposalSummary renders one proposal as the text block fed to the
// recommendation prompt.
func buildProposalSummary(vendor models.VendorSummary, proposal models.Proposal, scores models.ScoreRecord) string {
	parsed := proposal.ParsedData
	pricing := parsed.Pricing
	delivery := parsed.DeliveryDetails
	terms := parsed.Terms
	compliance := parsed.Compliance

	p := message.NewPrinter(language.English)

	total := "N/A"
	if pricing.TotalPrice > 0 {
		total = p.Sprintf("%.2f", pricing.TotalPrice)
	}

	breakdown := "N/A"
	if len(pricing.Breakdown) > 0 {
		parts := make([]string, 0, len(pricing.Breakdown))
		for _, b := range pricing.Breakdown {
			parts = append(parts, fmt.Sprintf("%s @ %s %.2f/unit", b.ItemName, pricing.Currency, b.UnitPrice))
		}
		breakdown = strings.Join(parts, ", ")
	}

	discounts := "None"
	if pricing.Discounts != nil && *pricing.Discounts != "" {
		discounts = *pricing.Discounts
	}

	leadTime := orDefault(delivery.LeadTime, "N/A")
	estimated := "N/A"
	if delivery.EstimatedDate != nil && *delivery.EstimatedDate != "" {
		estimated = *delivery.EstimatedDate
	}
	shipping := "Included"
	if delivery.ShippingCost != nil && *delivery.ShippingCost > 0 {
		shipping = fmt.Sprintf("%.2f", *delivery.ShippingCost)
	}

	notMatched := "None"
	if len(compliance.SpecsNotMatched) > 0 {
		notMatched = strings.Join(compliance.SpecsNotMatched, ", ")
	}

	return fmt.Sprintf(`
**Vendor: %s** (%s)

Pricing:
- Total: %s %s
- Breakdown: %s
- Discounts: %s

Delivery:
- Lead Time: %s
- Estimated Delivery: %s
- Shipping Cost: %s

Terms:
- Payment: %s
- Warranty: %s
- Support: %s

Compliance:
- Specs Matched: %d
- Specs Not Matched: %s

Overall Score: %d/100
`,
		vendor.Name, vendor.Email,
		pricing.Currency, total,
		breakdown,
		discounts,
		leadTime,
		estimated,
		shipping,
		orDefault(terms.PaymentTerms, "Net 30"),
		orDefault(terms.Warranty, "12 months"),
		orDefault(terms.SupportLevel, "Standard"),
		len(compliance.SpecsMatched),
		notMatched,
		scores.Overall)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
