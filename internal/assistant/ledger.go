package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"giveflow/internal/domain"
)

// Ledger applies the donate action's effect: one immutable donation
// record, an atomic bump of the campaign's raised total, and the
// creator's aggregate. At-most-once per call; retries are the caller's
// concern.
type Ledger struct {
	campaigns domain.CampaignRepository
	donations domain.DonationRepository
	users     domain.UserRepository
	log       zerolog.Logger
	now       func() time.Time
}

func NewLedger(campaigns domain.CampaignRepository, donations domain.DonationRepository, users domain.UserRepository, log zerolog.Logger) *Ledger {
	return &Ledger{
		campaigns: campaigns,
		donations: donations,
		users:     users,
		log:       log,
		now:       time.Now,
	}
}

// ApplyDonation writes the donation record first, then increments the
// campaign total. A campaign update failure after the record was
// written surfaces as domain.ErrLedgerInconsistent rather than silently
// reporting success.
func (l *Ledger) ApplyDonation(ctx context.Context, campaign *domain.Campaign, donorName string, amount float64, chain, country string) (*domain.Donation, *domain.Campaign, error) {
	if amount <= 0 {
		return nil, nil, fmt.Errorf("ledger: amount must be positive, got %v", amount)
	}
	canonical, ok := campaign.SupportsChain(chain)
	if !ok {
		return nil, nil, fmt.Errorf("ledger: campaign %s does not support chain %q", campaign.ID, chain)
	}
	if donorName == "" {
		donorName = "Anonymous"
	}

	donation := &domain.Donation{
		ID:         uuid.NewString(),
		CampaignID: campaign.ID,
		DonorName:  donorName,
		Amount:     amount,
		Chain:      canonical,
		Country:    country,
		CreatedAt:  l.now().UTC(),
	}
	if err := l.donations.Create(ctx, donation); err != nil {
		return nil, nil, fmt.Errorf("ledger: create donation: %w", err)
	}

	updated, err := l.campaigns.IncrementRaised(ctx, campaign.ID, amount)
	if err != nil {
		l.log.Error().Err(err).
			Str("donation_id", donation.ID).
			Str("campaign_id", campaign.ID).
			Msg("campaign update failed after donation write")
		return nil, nil, fmt.Errorf("%w: campaign %s after donation %s: %v", domain.ErrLedgerInconsistent, campaign.ID, donation.ID, err)
	}

	if campaign.CreatorID != "" {
		if err := l.users.IncrementTotalDonated(ctx, campaign.CreatorID, amount); err != nil {
			// Aggregate is derivable from donations; log and move on.
			l.log.Warn().Err(err).
				Str("creator_id", campaign.CreatorID).
				Msg("creator aggregate update failed")
		}
	}

	return donation, updated, nil
}
