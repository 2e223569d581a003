package domain

import "time"

// Donation is a supporter contribution record. Rows are append-only
// and never mutated after creation.
type Donation struct {
	ID         string
	CampaignID string
	DonorName  string
	Amount     float64
	Chain      string
	Country    string
	CreatedAt  time.Time
}
