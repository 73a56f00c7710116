package models

import "time"

// Alternative is a runner-up vendor in a recommendation.
type Alternative struct {
	VendorName  string `json:"vendorName"`
	WhyConsider string `json:"whyConsider"`
}

// Recommendation is the AI-generated ranked comparison for one RFP. It is
// never persisted; it is recomputed from current proposal scores on every
// comparison request.
type Recommendation struct {
	RecommendedVendor string        `json:"recommendedVendor"`
	OverallReasoning  string        `json:"overallReasoning"`
	KeyStrengths      []string      `json:"keyStrengths"`
	RiskFactors       []string      `json:"riskFactors"`
	Alternatives      []Alternative `json:"alternatives"`
	Decision          string        `json:"decision"`
}

// ComparisonEntry pairs one scored proposal with its vendor.
type ComparisonEntry struct {
	Vendor   VendorSummary `json:"vendor"`
	Proposal Proposal      `json:"proposal"`
	Scores   ScoreRecord   `json:"scores"`
}

// ComparisonResult is the full comparison view returned to the front end.
type ComparisonResult struct {
	RFPID          string            `json:"rfpId"`
	TotalProposals int               `json:"totalProposals"`
	Proposals      []ComparisonEntry `json:"proposals"`
	Recommendation Recommendation    `json:"recommendation"`
	GeneratedAt    time.Time         `json:"generatedAt"`
}
