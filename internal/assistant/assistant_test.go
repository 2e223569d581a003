package assistant

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"giveflow/internal/domain"
)

// Shared in-memory fakes for the assistant package tests.

type fakeCampaignRepo struct {
	campaigns    []domain.Campaign
	incrementErr error
	increments   []incrementCall
}

type incrementCall struct {
	id     string
	amount float64
}

func (f *fakeCampaignRepo) All(ctx context.Context) ([]domain.Campaign, error) {
	out := make([]domain.Campaign, len(f.campaigns))
	copy(out, f.campaigns)
	return out, nil
}

func (f *fakeCampaignRepo) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	for i := range f.campaigns {
		if f.campaigns[i].ID == id {
			c := f.campaigns[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCampaignRepo) IncrementRaised(ctx context.Context, id string, amount float64) (*domain.Campaign, error) {
	if f.incrementErr != nil {
		return nil, f.incrementErr
	}
	for i := range f.campaigns {
		if f.campaigns[i].ID == id {
			f.campaigns[i].Raised += amount
			f.increments = append(f.increments, incrementCall{id: id, amount: amount})
			c := f.campaigns[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeDonationRepo struct {
	created   []domain.Donation
	createErr error
}

func (f *fakeDonationRepo) Create(ctx context.Context, donation *domain.Donation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *donation)
	return nil
}

func (f *fakeDonationRepo) ListRecent(ctx context.Context, limit int) ([]domain.Donation, error) {
	if limit > len(f.created) {
		limit = len(f.created)
	}
	out := make([]domain.Donation, limit)
	copy(out, f.created[len(f.created)-limit:])
	return out, nil
}

type fakeUserRepo struct {
	totals map[string]float64
	err    error
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) IncrementTotalDonated(ctx context.Context, id string, amount float64) error {
	if f.err != nil {
		return f.err
	}
	if f.totals == nil {
		f.totals = map[string]float64{}
	}
	f.totals[id] += amount
	return nil
}

type genCall struct {
	user   string
	system string
}

// fakeGenerator answers via fn and records every call.
type fakeGenerator struct {
	fn    func(user, system string) (string, error)
	calls []genCall
}

func (f *fakeGenerator) Generate(ctx context.Context, userPrompt, systemPrompt string) (string, error) {
	f.calls = append(f.calls, genCall{user: userPrompt, system: systemPrompt})
	if f.fn == nil {
		return "", errors.New("no generator behavior configured")
	}
	return f.fn(userPrompt, systemPrompt)
}

func testCampaigns() []domain.Campaign {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Campaign{
		{
			ID:          "c1",
			Title:       "Clean Water",
			Description: "Wells and filtration for safe drinking water.",
			Category:    "Health",
			Goal:        50000,
			Raised:      12000,
			Chains:      []string{"Ethereum", "Polygon"},
			CreatorID:   "u1",
			CreatedAt:   base,
		},
		{
			ID:          "c2",
			Title:       "EdTech for All",
			Description: "Bringing technology into rural classrooms.",
			Category:    "Education",
			Goal:        75000,
			Raised:      30000,
			Chains:      []string{"Ethereum"},
			CreatorID:   "u2",
			CreatedAt:   base.AddDate(0, 1, 0),
		},
		{
			ID:          "c3",
			Title:       "Reforest the Valley",
			Description: "Planting native trees to restore the watershed.",
			Category:    "Environment",
			Goal:        30000,
			Raised:      5000,
			Chains:      []string{"Polygon", "Solana"},
			CreatorID:   "u1",
			CreatedAt:   base.AddDate(0, 2, 0),
		},
	}
}

type testEnv struct {
	svc       *Service
	campaigns *fakeCampaignRepo
	donations *fakeDonationRepo
	users     *fakeUserRepo
	gen       *fakeGenerator
}

func newTestEnv(campaigns []domain.Campaign, fn func(user, system string) (string, error)) *testEnv {
	campaignRepo := &fakeCampaignRepo{campaigns: campaigns}
	donationRepo := &fakeDonationRepo{}
	userRepo := &fakeUserRepo{}
	gen := &fakeGenerator{fn: fn}
	log := zerolog.Nop()

	catalog := NewCatalog(campaignRepo)
	resolver := NewResolver(catalog)
	planner := NewPlanner(gen, log)
	ledger := NewLedger(campaignRepo, donationRepo, userRepo, log)

	return &testEnv{
		svc:       NewService(catalog, resolver, planner, ledger, gen, log),
		campaigns: campaignRepo,
		donations: donationRepo,
		users:     userRepo,
		gen:       gen,
	}
}
