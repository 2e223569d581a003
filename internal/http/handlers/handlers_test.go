package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/rs/zerolog"

	"giveflow/internal/assistant"
	"giveflow/internal/domain"
)

const testSecret = "test-secret"

type stubCampaignRepo struct {
	campaigns    []domain.Campaign
	incrementErr error
}

func (s *stubCampaignRepo) All(ctx context.Context) ([]domain.Campaign, error) {
	out := make([]domain.Campaign, len(s.campaigns))
	copy(out, s.campaigns)
	return out, nil
}

func (s *stubCampaignRepo) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	for i := range s.campaigns {
		if s.campaigns[i].ID == id {
			c := s.campaigns[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCampaignRepo) IncrementRaised(ctx context.Context, id string, amount float64) (*domain.Campaign, error) {
	if s.incrementErr != nil {
		return nil, s.incrementErr
	}
	for i := range s.campaigns {
		if s.campaigns[i].ID == id {
			s.campaigns[i].Raised += amount
			c := s.campaigns[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubDonationRepo struct {
	created []domain.Donation
}

func (s *stubDonationRepo) Create(ctx context.Context, donation *domain.Donation) error {
	s.created = append(s.created, *donation)
	return nil
}

func (s *stubDonationRepo) ListRecent(ctx context.Context, limit int) ([]domain.Donation, error) {
	if limit > len(s.created) {
		limit = len(s.created)
	}
	out := make([]domain.Donation, limit)
	copy(out, s.created[len(s.created)-limit:])
	return out, nil
}

type stubUserRepo struct{}

func (stubUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (stubUserRepo) IncrementTotalDonated(ctx context.Context, id string, amount float64) error {
	return nil
}

type stubGenerator struct {
	fn func(user, system string) (string, error)
}

func (s *stubGenerator) Generate(ctx context.Context, userPrompt, systemPrompt string) (string, error) {
	if s.fn == nil {
		return "", errors.New("no generator behavior configured")
	}
	return s.fn(userPrompt, systemPrompt)
}

func sampleCampaigns() []domain.Campaign {
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
		},
	}
}

type testApp struct {
	app       *App
	campaigns *stubCampaignRepo
	donations *stubDonationRepo
}

func newTestApp(campaigns *stubCampaignRepo, fn func(user, system string) (string, error)) *testApp {
	donations := &stubDonationRepo{}
	gen := &stubGenerator{fn: fn}
	log := zerolog.Nop()

	catalog := assistant.NewCatalog(campaigns)
	resolver := assistant.NewResolver(catalog)
	planner := assistant.NewPlanner(gen, log)
	ledger := assistant.NewLedger(campaigns, donations, stubUserRepo{}, log)
	svc := assistant.NewService(catalog, resolver, planner, ledger, gen, log)

	return &testApp{
		app:       NewApp(svc, campaigns, donations, gen, testSecret, log),
		campaigns: campaigns,
		donations: donations,
	}
}

func postJSON(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}
