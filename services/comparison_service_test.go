package services

import (
	"context"
	"errors"
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validRecommendationResponse = `{
  "recommendedVendor": "Acme",
  "overallReasoning": "Best balance of price and compliance.",
  "keyStrengths": ["lowest price", "full spec match"],
  "riskFactors": ["longer lead time"],
  "alternatives": [{"vendorName": "Globex", "whyConsider": "faster delivery"}],
  "decision": "Choose Acme."
}`

func newTestComparisonService(gen ContentGenerator) (*ComparisonService, *fakeRFPStore, *fakeProposalStore, *fakeVendorStore) {
	rfps := newFakeRFPStore()
	proposals := newFakeProposalStore()
	vendors := newFakeVendorStore()
	svc := NewComparisonService(rfps, proposals, vendors, gen, zap.NewNop())
	return svc, rfps, proposals, vendors
}

func seedComparison(t *testing.T, rfps *fakeRFPStore, proposals *fakeProposalStore, vendors *fakeVendorStore) *models.RFP {
	t.Helper()
	rfp := &models.RFP{
		ID: "bbbbbbbbbbbbbbbbbbbbbbbb",
		Specifications: models.Specifications{
			Budget:        models.Budget{Total: 75000, Currency: "USD"},
			DeliveryTerms: models.DeliveryTerms{Deadline: "2026-10-01"},
			Items:         []models.SpecItem{{Name: "Business Laptop", Quantity: 50}},
		},
	}
	require.NoError(t, rfps.Create(context.Background(), rfp))

	vendor := &models.Vendor{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "Acme", Email: "sales@acme.test"}
	require.NoError(t, vendors.Create(context.Background(), vendor))

	require.NoError(t, proposals.Create(context.Background(), &models.Proposal{
		ID:       "cccccccccccccccccccccccc",
		RFPID:    rfp.ID,
		VendorID: vendor.ID,
		ParsedData: models.ParsedProposal{
			Pricing: models.Pricing{TotalPrice: 70000, Currency: "USD"},
		},
		ScoredByAI: models.ScoreRecord{Overall: 82},
	}))
	return rfp
}

func TestCompareAndRecommend(t *testing.T) {
	svc, rfps, proposals, vendors := newTestComparisonService(&fakeGenerator{response: validRecommendationResponse})
	rfp := seedComparison(t, rfps, proposals, vendors)

	result, err := svc.CompareAndRecommend(context.Background(), rfp.ID)
	require.NoError(t, err)

	assert.Equal(t, rfp.ID, result.RFPID)
	assert.Equal(t, 1, result.TotalProposals)
	require.Len(t, result.Proposals, 1)
	assert.Equal(t, "Acme", result.Proposals[0].Vendor.Name)
	assert.Equal(t, 82, result.Proposals[0].Scores.Overall)
	assert.Equal(t, "Acme", result.Recommendation.RecommendedVendor)
	assert.Equal(t, "Choose Acme.", result.Recommendation.Decision)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestCompareAndRecommendNoProposals(t *testing.T) {
	svc, rfps, _, _ := newTestComparisonService(&fakeGenerator{})
	require.NoError(t, rfps.Create(context.Background(), &models.RFP{ID: "bbbbbbbbbbbbbbbbbbbbbbbb"}))

	_, err := svc.CompareAndRecommend(context.Background(), "bbbbbbbbbbbbbbbbbbbbbbbb")
	assert.ErrorIs(t, err, ErrNoProposals)
}

func TestCompareAndRecommendFallbackOnModelError(t *testing.T) {
	svc, rfps, proposals, vendors := newTestComparisonService(&fakeGenerator{err: errors.New("model unavailable")})
	rfp := seedComparison(t, rfps, proposals, vendors)

	result, err := svc.CompareAndRecommend(context.Background(), rfp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unable to generate recommendation", result.Recommendation.RecommendedVendor)
	assert.Equal(t, "Error in AI analysis", result.Recommendation.OverallReasoning)
	// Scored entries still present even when the recommendation degrades.
	assert.Equal(t, 1, result.TotalProposals)
}

func TestCompareAndRecommendFallbackOnBadJSON(t *testing.T) {
	svc, rfps, proposals, vendors := newTestComparisonService(&fakeGenerator{response: "the best vendor is Acme"})
	rfp := seedComparison(t, rfps, proposals, vendors)

	result, err := svc.CompareAndRecommend(context.Background(), rfp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unable to generate recommendation", result.Recommendation.RecommendedVendor)
}

func TestBuildProposalSummary(t *testing.T) {
	discount := "5% bulk"
	summary := buildProposalSummary(
		models.VendorSummary{Name: "Acme", Email: "sales@acme.test"},
		models.Proposal{
			ParsedData: models.ParsedProposal{
				Pricing: models.Pricing{
					TotalPrice: 70000,
					Currency:   "USD",
					Discounts:  &discount,
					Breakdown: []models.PricingBreakdownItem{
						{ItemName: "Laptop", UnitPrice: 1400},
					},
				},
				DeliveryDetails: models.DeliveryDetails{LeadTime: "3 weeks"},
				Compliance: models.Compliance{
					SpecsMatched:    []string{"a", "b"},
					SpecsNotMatched: []string{"c"},
				},
			},
		},
		models.ScoreRecord{Overall: 82},
	)

	assert.Contains(t, summary, "**Vendor: Acme** (sales@acme.test)")
	assert.Contains(t, summary, "Total: USD 70,000.00")
	assert.Contains(t, summary, "Laptop @ USD 1400.00/unit")
	assert.Contains(t, summary, "Discounts: 5% bulk")
	assert.Contains(t, summary, "Lead Time: 3 weeks")
	assert.Contains(t, summary, "Specs Matched: 2")
	assert.Contains(t, summary, "Specs Not Matched: c")
	assert.Contains(t, summary, "Overall Score: 82/100")
}

func TestBuildProposalSummaryDefaults(t *testing.T) {
	summary := buildProposalSummary(
		models.VendorSummary{Name: "Acme", Email: "sales@acme.test"},
		models.Proposal{},
		models.ScoreRecord{},
	)

	assert.Contains(t, summary, "Breakdown: N/A")
	assert.Contains(t, summary, "Discounts: None")
	assert.Contains(t, summary, "Shipping Cost: Included")
	assert.Contains(t, summary, "Payment: Net 30")
	assert.Contains(t, summary, "Warranty: 12 months")
	assert.Contains(t, summary, "Support: Standard")
	assert.Contains(t, summary, "Specs Not Matched: None")
}
