package domain

import "context"

// CampaignRepository defines access to the campaign catalog.
type CampaignRepository interface {
	All(ctx context.Context) ([]Campaign, error)
	GetByID(ctx context.Context, id string) (*Campaign, error)
	// IncrementRaised adds amount to the campaign's raised total as a
	// single atomic store-level update and returns the updated row.
	IncrementRaised(ctx context.Context, id string, amount float64) (*Campaign, error)
}

// DonationRepository handles donation persistence.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) error
	ListRecent(ctx context.Context, limit int) ([]Donation, error)
}

// UserRepository defines access methods for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// IncrementTotalDonated adds amount to a creator's aggregate total.
	IncrementTotalDonated(ctx context.Context, id string, amount float64) error
}
