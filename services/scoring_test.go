package services

import (
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeadTimeDays(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"10 days", 10},
		{"2 weeks", 14},
		{"1 month", 30},
		{"3 Weeks", 21},
		{"10-15 days", 10},
		{"ships in 5 days", 5},
		{"ASAP", 30},
		{"", 30},
		{"immediate delivery", 30},
		{"45", 45},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLeadTimeDays(tt.input))
		})
	}
}

func TestPriceScore(t *testing.T) {
	tests := []struct {
		name   string
		price  float64
		budget float64
		want   int
	}{
		{"over budget", 60000, 50000, 30},
		{"at budget", 50000, 50000, 70},
		{"slightly under budget", 49000, 50000, 71},
		{"half budget", 25000, 50000, 85},
		{"near free", 1, 50000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PriceScore(tt.price, tt.budget)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriceScoreIncreasesWithSavings(t *testing.T) {
	budget := 100000.0
	prev := 0
	for _, price := range []float64{99000, 75000, 50000, 25000, 1000} {
		score, err := PriceScore(price, budget)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, prev, "score must not decrease as savings grow (price %v)", price)
		prev = score
	}
}

func TestPriceScoreInvalidInput(t *testing.T) {
	_, err := PriceScore(1000, 0)
	assert.ErrorIs(t, err, ErrInvalidScoringInput)

	_, err = PriceScore(0, 1000)
	assert.ErrorIs(t, err, ErrInvalidScoringInput)
}

func TestDeliveryScore(t *testing.T) {
	tests := []struct {
		name     string
		lead     int
		required int
		want     int
	}{
		{"meets requirement", 10, 10, 100},
		{"under requirement", 5, 10, 100},
		{"far over requirement", 16, 10, 30},
		{"20 percent over", 12, 10, 86},
		{"exactly 1.5x", 15, 10, 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeliveryScore(tt.lead, tt.required)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComplianceScore(t *testing.T) {
	tests := []struct {
		name       string
		matched    []string
		totalItems int
		want       int
	}{
		{"all matched", []string{"a", "b", "c"}, 3, 100},
		{"none matched", nil, 2, 0},
		{"three of four", []string{"a", "b", "c"}, 4, 75},
		{"two of three", []string{"a", "b"}, 3, 67},
		{"over-reported matches capped", []string{"a", "b", "c"}, 2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComplianceScore(models.Compliance{SpecsMatched: tt.matched}, tt.totalItems)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComplianceScoreNoItems(t *testing.T) {
	_, err := ComplianceScore(models.Compliance{SpecsMatched: []string{"a"}}, 0)
	assert.ErrorIs(t, err, ErrInvalidScoringInput)
}

func TestSupportScore(t *testing.T) {
	sla := "99.9% uptime"
	empty := ""

	tests := []struct {
		name  string
		terms models.ProposalTerms
		want  int
	}{
		{"base only", models.ProposalTerms{Warranty: "12 months"}, 50},
		{"round-the-clock warranty", models.ProposalTerms{Warranty: "24 months"}, 80},
		{"sla only", models.ProposalTerms{Warranty: "12 months", SLA: &sla}, 70},
		{"warranty and sla capped", models.ProposalTerms{Warranty: "24/7 coverage", SLA: &sla}, 100},
		{"blank sla ignored", models.ProposalTerms{Warranty: "12 months", SLA: &empty}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SupportScore(tt.terms))
		})
	}
}

func TestScoreProposal(t *testing.T) {
	sla := "next business day"
	parsed := models.ParsedProposal{
		Pricing: models.Pricing{TotalPrice: 45000, Currency: "USD"},
		DeliveryDetails: models.DeliveryDetails{
			LeadTime: "10 days",
		},
		Terms: models.ProposalTerms{
			Warranty: "24 months",
			SLA:      &sla,
		},
		Compliance: models.Compliance{
			SpecsMatched:    []string{"cpu", "ram", "ssd"},
			SpecsNotMatched: []string{"warranty extension", "on-site service"},
		},
	}
	specs := models.Specifications{
		Budget:        models.Budget{Total: 50000, Currency: "USD"},
		DeliveryTerms: models.DeliveryTerms{LeadTimeDays: 10},
		Items: []models.SpecItem{
			{Name: "cpu"}, {Name: "ram"}, {Name: "ssd"},
			{Name: "warranty extension"}, {Name: "on-site service"},
		},
	}

	record, err := ScoreProposal(parsed, specs)
	require.NoError(t, err)

	assert.Equal(t, 73, record.PriceScore)
	assert.Equal(t, 100, record.DeliveryScore)
	assert.Equal(t, 60, record.ComplianceScore)
	assert.Equal(t, 100, record.SupportScore)
	// 73*.30 + 100*.25 + 60*.35 + 100*.10 = 77.9
	assert.Equal(t, 78, record.Overall)
	assert.Equal(t, "Price: 73/100 | Delivery: 100/100 | Compliance: 60/100 | Support: 100/100", record.Reasoning)
}

func TestScoreProposalWeightedCombination(t *testing.T) {
	// Sub-scores 80/100/60/100 combine to 80 under weights .30/.25/.35/.10.
	parsed := models.ParsedProposal{
		Pricing:         models.Pricing{TotalPrice: 66666.67},
		DeliveryDetails: models.DeliveryDetails{LeadTime: "7 days"},
		Terms: models.ProposalTerms{
			Warranty: "24/7 support included",
			SLA:      strPtr("4h response"),
		},
		Compliance: models.Compliance{
			SpecsMatched:    []string{"a", "b", "c"},
			SpecsNotMatched: []string{"d", "e"},
		},
	}
	specs := models.Specifications{
		Budget:        models.Budget{Total: 100000},
		DeliveryTerms: models.DeliveryTerms{LeadTimeDays: 14},
		Items: []models.SpecItem{
			{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"},
		},
	}

	record, err := ScoreProposal(parsed, specs)
	require.NoError(t, err)
	assert.Equal(t, 80, record.PriceScore)
	assert.Equal(t, 100, record.DeliveryScore)
	assert.Equal(t, 60, record.ComplianceScore)
	assert.Equal(t, 100, record.SupportScore)
	assert.Equal(t, 80, record.Overall)
}

func TestScoreProposalDefaultsRequiredLeadTime(t *testing.T) {
	parsed := models.ParsedProposal{
		Pricing:         models.Pricing{TotalPrice: 1000},
		DeliveryDetails: models.DeliveryDetails{LeadTime: "25 days"},
		Terms:           models.ProposalTerms{Warranty: "12 months"},
		Compliance:      models.Compliance{SpecsMatched: []string{"a"}},
	}
	specs := models.Specifications{
		Budget: models.Budget{Total: 2000},
		Items:  []models.SpecItem{{Name: "a"}},
	}

	record, err := ScoreProposal(parsed, specs)
	require.NoError(t, err)
	// Requirement defaults to 30 days, so 25 days meets it.
	assert.Equal(t, 100, record.DeliveryScore)
}

func strPtr(s string) *string { return &s }
