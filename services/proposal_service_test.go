package services

import (
	"context"
	"testing"

	"backend/models"
	"backend/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validProposalResponse = `{
  "pricing": {
    "breakdown": [{"itemName": "Business Laptop", "quantity": 50, "unitPrice": 1400, "subtotal": 70000}],
    "totalPrice": 70000,
    "discounts": null,
    "currency": "USD"
  },
  "deliveryDetails": {
    "estimatedDate": "2026-09-20",
    "leadTime": "3 weeks",
    "shippingCost": null,
    "conditions": "FOB destination"
  },
  "terms": {
    "paymentTerms": "Net 30",
    "warranty": "24 months",
    "supportLevel": "24/7 support",
    "sla": "4 hour response"
  },
  "compliance": {
    "specsMatched": ["16GB RAM", "i7 CPU"],
    "specsNotMatched": [],
    "additionalOfferings": ["free imaging"]
  }
}`

func newTestProposalService(gen ContentGenerator) (*ProposalService, *fakeProposalStore, *fakeRFPStore, *fakeVendorStore) {
	proposals := newFakeProposalStore()
	rfps := newFakeRFPStore()
	vendors := newFakeVendorStore()
	svc := NewProposalService(proposals, rfps, vendors, gen, zap.NewNop())
	return svc, proposals, rfps, vendors
}

func seedRFPAndVendor(t *testing.T, rfps *fakeRFPStore, vendors *fakeVendorStore) (*models.RFP, *models.Vendor) {
	t.Helper()
	rfp := &models.RFP{
		ID: "bbbbbbbbbbbbbbbbbbbbbbbb",
		Specifications: models.Specifications{
			Budget:        models.Budget{Total: 75000, Currency: "USD"},
			DeliveryTerms: models.DeliveryTerms{LeadTimeDays: 21},
			Items:         []models.SpecItem{{Name: "Business Laptop", Quantity: 50}},
		},
		Status: models.RFPStatusSent,
	}
	require.NoError(t, rfps.Create(context.Background(), rfp))

	vendor := &models.Vendor{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "Acme", Email: "sales@acme.test"}
	require.NoError(t, vendors.Create(context.Background(), vendor))
	return rfp, vendor
}

func TestFlattenEmailContent(t *testing.T) {
	tests := []struct {
		name  string
		email InboundEmail
		want  []string
	}{
		{
			name:  "plain text only",
			email: InboundEmail{Text: "Our quote is $70,000."},
			want:  []string{"Our quote is $70,000."},
		},
		{
			name:  "html fallback",
			email: InboundEmail{HTML: "<p>Our quote is <b>$70,000</b>.</p>"},
			want:  []string{"Our quote is $70,000."},
		},
		{
			name: "text attachment inlined",
			email: InboundEmail{
				Text: "See attached.",
				Attachments: []models.Attachment{
					{Filename: "quote.txt", ContentType: "text/plain", Content: "Total: 70000 USD"},
				},
			},
			want: []string{"See attached.", "[Attachment: quote.txt]", "Total: 70000 USD"},
		},
		{
			name: "binary attachment named but not inlined",
			email: InboundEmail{
				Text: "See attached.",
				Attachments: []models.Attachment{
					{Filename: "quote.pdf", ContentType: "application/pdf"},
				},
			},
			want: []string{"[Attachment: quote.pdf]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenEmailContent(tt.email)
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestCreateFromEmail(t *testing.T) {
	svc, proposals, rfps, vendors := newTestProposalService(&fakeGenerator{response: validProposalResponse})
	rfp, vendor := seedRFPAndVendor(t, rfps, vendors)

	email := InboundEmail{
		From:    vendor.Email,
		Subject: "Re: Request for Proposal: Laptops - " + rfp.ID,
		Text:    "Please find our quote attached.",
	}

	proposal, err := svc.CreateFromEmail(context.Background(), email, rfp.ID, vendor.ID)
	require.NoError(t, err)

	assert.Len(t, proposal.ID, 24)
	assert.Equal(t, models.ProposalStatusEvaluated, proposal.Status)
	assert.Equal(t, 70000.0, proposal.ParsedData.Pricing.TotalPrice)
	assert.NotZero(t, proposal.ScoredByAI.Overall)
	assert.Equal(t, "Please find our quote attached.", proposal.RawEmailBody)

	// RFP and vendor references updated.
	assert.Equal(t, []string{proposal.ID}, rfps.appended[rfp.ID])
	assert.Equal(t, []string{proposal.ID}, vendors.appended[vendor.ID])
	stored, _ := rfps.GetByID(context.Background(), rfp.ID)
	assert.Equal(t, models.RFPStatusResponsesReceived, stored.Status)
	assert.Len(t, proposals.proposals, 1)
}

func TestCreateFromEmailDuplicate(t *testing.T) {
	svc, _, rfps, vendors := newTestProposalService(&fakeGenerator{response: validProposalResponse})
	rfp, vendor := seedRFPAndVendor(t, rfps, vendors)

	email := InboundEmail{Text: "quote"}
	_, err := svc.CreateFromEmail(context.Background(), email, rfp.ID, vendor.ID)
	require.NoError(t, err)

	_, err = svc.CreateFromEmail(context.Background(), email, rfp.ID, vendor.ID)
	assert.ErrorIs(t, err, repository.ErrDuplicateProposal)
}

func TestCreateFromEmailUnknownRFP(t *testing.T) {
	svc, _, _, vendors := newTestProposalService(&fakeGenerator{response: validProposalResponse})
	vendor := &models.Vendor{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Email: "v@x.test"}
	require.NoError(t, vendors.Create(context.Background(), vendor))

	_, err := svc.CreateFromEmail(context.Background(), InboundEmail{Text: "x"}, "ffffffffffffffffffffffff", vendor.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateFromEmailSchemaViolation(t *testing.T) {
	response := `{"pricing": {"totalPrice": 0}, "deliveryDetails": {}, "terms": {}, "compliance": {}}`
	svc, proposals, rfps, vendors := newTestProposalService(&fakeGenerator{response: response})
	rfp, vendor := seedRFPAndVendor(t, rfps, vendors)

	_, err := svc.CreateFromEmail(context.Background(), InboundEmail{Text: "x"}, rfp.ID, vendor.ID)
	assert.ErrorIs(t, err, ErrLLMSchema)
	assert.Empty(t, proposals.proposals)
}

func TestListByRFPExpandsVendor(t *testing.T) {
	svc, proposals, _, vendors := newTestProposalService(&fakeGenerator{})

	vendor := &models.Vendor{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "Acme", Email: "sales@acme.test"}
	require.NoError(t, vendors.Create(context.Background(), vendor))
	require.NoError(t, proposals.Create(context.Background(), &models.Proposal{
		ID: "cccccccccccccccccccccccc", RFPID: "bbbbbbbbbbbbbbbbbbbbbbbb", VendorID: vendor.ID,
	}))

	views, err := svc.ListByRFP(context.Background(), "bbbbbbbbbbbbbbbbbbbbbbbb")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Acme", views[0].Vendor.Name)
}
