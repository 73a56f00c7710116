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

const validRFPResponse = `{
  "title": "Laptop Procurement",
  "items": [
    {"name": "Business Laptop", "quantity": 50, "specs": {"ram": "16GB", "cpu": "i7"}}
  ],
  "budget": {"total": 75000, "currency": "USD"},
  "deliveryTerms": {"deadline": "2026-10-01", "leadTimeDays": 21, "location": "Austin, TX"},
  "paymentTerms": {"netDays": 30, "milestone": "on delivery"},
  "warranty": {"period": 24, "coverage": "full hardware"}
}`

func newTestRFPService(gen ContentGenerator) (*RFPService, *fakeRFPStore, *fakeVendorStore, *fakeProposalStore) {
	rfps := newFakeRFPStore()
	vendors := newFakeVendorStore()
	proposals := newFakeProposalStore()
	svc := NewRFPService(rfps, vendors, proposals, gen, zap.NewNop())
	return svc, rfps, vendors, proposals
}

func TestCreateFromText(t *testing.T) {
	svc, rfps, _, _ := newTestRFPService(&fakeGenerator{response: validRFPResponse})

	rfp, err := svc.CreateFromText(context.Background(), "We need 50 business laptops, budget $75k, delivered to Austin by October")
	require.NoError(t, err)

	assert.Len(t, rfp.ID, 24)
	assert.Equal(t, "Laptop Procurement", rfp.Title)
	assert.Equal(t, models.RFPStatusDraft, rfp.Status)
	assert.Contains(t, rfp.Description, "50 business laptops")
	assert.Equal(t, 75000.0, rfp.Specifications.Budget.Total)
	assert.Len(t, rfps.created, 1)
}

func TestCreateFromTextDefaultsTitle(t *testing.T) {
	response := `{
	  "items": [{"name": "Monitor", "quantity": 10}],
	  "budget": {"total": 5000, "currency": "USD"}
	}`
	svc, _, _, _ := newTestRFPService(&fakeGenerator{response: response})

	rfp, err := svc.CreateFromText(context.Background(), "ten monitors for 5000")
	require.NoError(t, err)
	assert.Equal(t, "Procurement Request", rfp.Title)
}

func TestCreateFromTextUnparseableResponse(t *testing.T) {
	svc, rfps, _, _ := newTestRFPService(&fakeGenerator{response: "sorry, I cannot help with that"})

	_, err := svc.CreateFromText(context.Background(), "laptops please")
	assert.ErrorIs(t, err, ErrLLMParse)
	assert.Empty(t, rfps.created)
}

func TestCreateFromTextSchemaViolations(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"missing budget", `{"title": "x", "items": [{"name": "a", "quantity": 1}]}`},
		{"zero budget", `{"title": "x", "items": [{"name": "a", "quantity": 1}], "budget": {"total": 0}}`},
		{"no items", `{"title": "x", "items": [], "budget": {"total": 100}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rfps, _, _ := newTestRFPService(&fakeGenerator{response: tt.response})
			_, err := svc.CreateFromText(context.Background(), "anything")
			assert.ErrorIs(t, err, ErrLLMSchema)
			assert.Empty(t, rfps.created)
		})
	}
}

func TestGetDetailExpandsReferences(t *testing.T) {
	svc, rfps, vendors, proposals := newTestRFPService(&fakeGenerator{})

	vendor := &models.Vendor{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "Acme", Email: "sales@acme.test"}
	require.NoError(t, vendors.Create(context.Background(), vendor))

	rfp := &models.RFP{ID: "bbbbbbbbbbbbbbbbbbbbbbbb", Title: "Test", VendorIDs: []string{vendor.ID}}
	require.NoError(t, rfps.Create(context.Background(), rfp))

	proposal := &models.Proposal{ID: "cccccccccccccccccccccccc", RFPID: rfp.ID, VendorID: vendor.ID}
	require.NoError(t, proposals.Create(context.Background(), proposal))

	detail, err := svc.GetDetail(context.Background(), rfp.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Vendors, 1)
	require.Len(t, detail.Proposals, 1)
	assert.Equal(t, "Acme", detail.Proposals[0].Vendor.Name)
}

func TestGetDetailNotFound(t *testing.T) {
	svc, _, _, _ := newTestRFPService(&fakeGenerator{})

	_, err := svc.GetDetail(context.Background(), "ffffffffffffffffffffffff")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
