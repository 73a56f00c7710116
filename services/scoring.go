package services

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"backend/models"
)

// ErrInvalidScoringInput is returned when a proposal or RFP lacks the data
// needed to compute a deterministic score.
var ErrInvalidScoringInput = errors.New("invalid scoring input")

// Weights applied when combining sub-scores into an overall score.
const (
	priceWeight      = 0.30
	deliveryWeight   = 0.25
	complianceWeight = 0.35
	supportWeight    = 0.10
)

var leadTimePattern = regexp.MustCompile(`(?i)(\d+)\s*(day|week|month)?`)

// ParseLeadTimeDays converts a free-text lead time like "2 weeks" or
// "10-15 days" into a day count. The first number found is used; weeks
// multiply by 7 and months by 30. Unparseable input defaults to 30 days.
func ParseLeadTimeDays(leadTime string) int {
	m := leadTimePattern.FindStringSubmatch(leadTime)
	if m == nil {
		return 30
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 30
	}
	switch strings.ToLower(m[2]) {
	case "week":
		return n * 7
	case "month":
		return n * 30
	default:
		return n
	}
}

// PriceScore rates a total price against the RFP budget. Prices over budget
// score 30, at budget 70, and under budget interpolate from 70 up to 100 in
// proportion to the savings.
func PriceScore(totalPrice, budget float64) (int, error) {
	if budget <= 0 {
		return 0, fmt.Errorf("%w: budget must be positive", ErrInvalidScoringInput)
	}
	if totalPrice <= 0 {
		return 0, fmt.Errorf("%w: total price must be positive", ErrInvalidScoringInput)
	}
	switch {
	case totalPrice > budget:
		return 30, nil
	case totalPrice == budget:
		return 70, nil
	default:
		savings := (budget - totalPrice) / budget
		return int(math.Round(70 + savings*30)), nil
	}
}

// DeliveryScore rates a quoted lead time against the required lead time in
// days. Meeting the requirement scores 100; exceeding it by more than 50%
// scores 30; in between the score falls linearly with the overrun.
func DeliveryScore(leadDays, requiredDays int) (int, error) {
	if requiredDays <= 0 {
		return 0, fmt.Errorf("%w: required lead time must be positive", ErrInvalidScoringInput)
	}
	if leadDays <= 0 {
		return 0, fmt.Errorf("%w: quoted lead time must be positive", ErrInvalidScoringInput)
	}
	switch {
	case leadDays <= requiredDays:
		return 100, nil
	case float64(leadDays) > 1.5*float64(requiredDays):
		return 30, nil
	default:
		overrun := float64(leadDays-requiredDays) / float64(requiredDays)
		return int(math.Round(100 - overrun*70)), nil
	}
}

// ComplianceScore is the fraction of the RFP's required items the proposal
// matches, on a 0-100 scale. An RFP with no items cannot be scored against.
func ComplianceScore(c models.Compliance, totalItems int) (int, error) {
	if totalItems <= 0 {
		return 0, fmt.Errorf("%w: rfp has no required items", ErrInvalidScoringInput)
	}
	score := int(math.Round(float64(len(c.SpecsMatched)) / float64(totalItems) * 100))
	if score > 100 {
		score = 100
	}
	return score, nil
}

// SupportScore starts at a 50-point base, adds 30 for round-the-clock
// warranty coverage and 20 for a stated SLA, capped at 100.
func SupportScore(terms models.ProposalTerms) int {
	score := 50
	if strings.Contains(terms.Warranty, "24") {
		score += 30
	}
	if terms.SLA != nil && strings.TrimSpace(*terms.SLA) != "" {
		score += 20
	}
	if score > 100 {
		score = 100
	}
	return score
}

// ScoreProposal computes the four sub-scores for a parsed proposal against
// the RFP's specifications and combines them into a weighted overall score.
func ScoreProposal(parsed models.ParsedProposal, specs models.Specifications) (models.ScoreRecord, error) {
	price, err := PriceScore(parsed.Pricing.TotalPrice, specs.Budget.Total)
	if err != nil {
		return models.ScoreRecord{}, err
	}

	leadDays := ParseLeadTimeDays(parsed.DeliveryDetails.LeadTime)
	requiredDays := specs.DeliveryTerms.LeadTimeDays
	if requiredDays <= 0 {
		requiredDays = 30
	}
	delivery, err := DeliveryScore(leadDays, requiredDays)
	if err != nil {
		return models.ScoreRecord{}, err
	}

	compliance, err := ComplianceScore(parsed.Compliance, len(specs.Items))
	if err != nil {
		return models.ScoreRecord{}, err
	}

	support := SupportScore(parsed.Terms)

	overall := int(math.Round(
		float64(price)*priceWeight +
			float64(delivery)*deliveryWeight +
			float64(compliance)*complianceWeight +
			float64(support)*supportWeight,
	))

	return models.ScoreRecord{
		PriceScore:      price,
		DeliveryScore:   delivery,
		ComplianceScore: compliance,
		SupportScore:    support,
		Overall:         overall,
		Reasoning: fmt.Sprintf("Price: %d/100 | Delivery: %d/100 | Compliance: %d/100 | Support: %d/100",
			price, delivery, compliance, support),
	}, nil
}
