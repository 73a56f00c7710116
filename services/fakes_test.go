package services

import (
	"context"
	"strings"

	"backend/models"
	"backend/repository"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(_ context.Context, system, user string) (string, error) {
	f.prompts = append(f.prompts, system+"\n"+user)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeRFPStore struct {
	rfps      map[string]*models.RFP
	created   []*models.RFP
	appended  map[string][]string
	createErr error
}

func newFakeRFPStore() *fakeRFPStore {
	return &fakeRFPStore{rfps: map[string]*models.RFP{}, appended: map[string][]string{}}
}

func (f *fakeRFPStore) Create(_ context.Context, rfp *models.RFP) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rfps[rfp.ID] = rfp
	f.created = append(f.created, rfp)
	return nil
}

func (f *fakeRFPStore) List(_ context.Context) ([]models.RFP, error) {
	out := make([]models.RFP, 0, len(f.rfps))
	for _, r := range f.rfps {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRFPStore) GetByID(_ context.Context, id string) (*models.RFP, error) {
	rfp, ok := f.rfps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *rfp
	return &copied, nil
}

func (f *fakeRFPStore) SetVendors(_ context.Context, id string, vendorIDs []string) (*models.RFP, error) {
	rfp, ok := f.rfps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rfp.VendorIDs = vendorIDs
	rfp.Status = models.RFPStatusSent
	return rfp, nil
}

func (f *fakeRFPStore) AppendProposal(_ context.Context, id, proposalID string) error {
	if _, ok := f.rfps[id]; !ok {
		return repository.ErrNotFound
	}
	f.appended[id] = append(f.appended[id], proposalID)
	f.rfps[id].ProposalIDs = append(f.rfps[id].ProposalIDs, proposalID)
	f.rfps[id].Status = models.RFPStatusResponsesReceived
	return nil
}

type fakeVendorStore struct {
	vendors  map[string]*models.Vendor
	appended map[string][]string
}

func newFakeVendorStore() *fakeVendorStore {
	return &fakeVendorStore{vendors: map[string]*models.Vendor{}, appended: map[string][]string{}}
}

func (f *fakeVendorStore) Create(_ context.Context, v *models.Vendor) error {
	f.vendors[v.ID] = v
	return nil
}

func (f *fakeVendorStore) List(_ context.Context) ([]models.Vendor, error) {
	out := make([]models.Vendor, 0, len(f.vendors))
	for _, v := range f.vendors {
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeVendorStore) ListActive(ctx context.Context) ([]models.Vendor, error) {
	all, _ := f.List(ctx)
	out := all[:0]
	for _, v := range all {
		if v.Status == models.VendorStatusActive {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVendorStore) GetByID(_ context.Context, id string) (*models.Vendor, error) {
	v, ok := f.vendors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVendorStore) GetByIDs(_ context.Context, ids []string) ([]models.Vendor, error) {
	var out []models.Vendor
	for _, id := range ids {
		if v, ok := f.vendors[id]; ok {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVendorStore) GetByEmail(_ context.Context, email string) (*models.Vendor, error) {
	for _, v := range f.vendors {
		if strings.EqualFold(v.Email, email) {
			copied := *v
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeVendorStore) Update(_ context.Context, v *models.Vendor) error {
	f.vendors[v.ID] = v
	return nil
}

func (f *fakeVendorStore) Delete(_ context.Context, id string) error {
	if _, ok := f.vendors[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.vendors, id)
	return nil
}

func (f *fakeVendorStore) AppendProposal(_ context.Context, id, proposalID string) error {
	if _, ok := f.vendors[id]; !ok {
		return repository.ErrNotFound
	}
	f.appended[id] = append(f.appended[id], proposalID)
	return nil
}

func (f *fakeVendorStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.vendors)), nil
}

type fakeProposalStore struct {
	proposals map[string]*models.Proposal
	createErr error
}

func newFakeProposalStore() *fakeProposalStore {
	return &fakeProposalStore{proposals: map[string]*models.Proposal{}}
}

func (f *fakeProposalStore) Create(_ context.Context, p *models.Proposal) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.proposals {
		if existing.RFPID == p.RFPID && existing.VendorID == p.VendorID {
			return repository.ErrDuplicateProposal
		}
	}
	f.proposals[p.ID] = p
	return nil
}

func (f *fakeProposalStore) GetByID(_ context.Context, id string) (*models.Proposal, error) {
	p, ok := f.proposals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProposalStore) ListByRFP(_ context.Context, rfpID string) ([]models.Proposal, error) {
	var out []models.Proposal
	for _, p := range f.proposals {
		if p.RFPID == rfpID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProposalStore) ExistsForRFPAndVendor(_ context.Context, rfpID, vendorID string) (bool, error) {
	for _, p := range f.proposals {
		if p.RFPID == rfpID && p.VendorID == vendorID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProposalStore) Update(_ context.Context, p *models.Proposal) error {
	f.proposals[p.ID] = p
	return nil
}
